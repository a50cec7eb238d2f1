package notify

import "context"

// Template identifies an approved outbound message template.
type Template string

const (
	TemplateOrderSuccess   Template = "order_success"
	TemplateOrderCancelled Template = "order_cancelled"
	TemplateOrderFailure   Template = "order_failure"
	TemplateOrderStatus    Template = "order_status_update"
)

// Result reports the outcome of a dispatch attempt. Dispatch is best effort:
// callers log the result but never fail a request because of it.
type Result struct {
	Sent    bool
	Skipped bool
	Err     error
}

// Dispatcher sends templated status messages to a customer phone number.
type Dispatcher interface {
	Send(ctx context.Context, phone string, template Template, params []string) Result
}
