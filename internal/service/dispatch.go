package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kiranakart/internal/model"
	"kiranakart/internal/notify"

	"github.com/rs/zerolog"
)

// dispatchAsync fires one notification on its own goroutine with a detached
// context. The enclosing request never waits on it and never observes its
// failure; the result is only logged.
func dispatchAsync(logger zerolog.Logger, dispatcher notify.Dispatcher, phone string, template notify.Template, params []string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		res := dispatcher.Send(ctx, phone, template, params)
		switch {
		case res.Err != nil:
			logger.Warn().
				Err(res.Err).
				Str("template", string(template)).
				Msg("notification dispatch failed")
		case res.Skipped:
			logger.Debug().
				Str("template", string(template)).
				Msg("notification skipped")
		default:
			logger.Info().
				Str("template", string(template)).
				Msg("notification sent")
		}
	}()
}

// itemsSummary renders line items as "Name x2, Other x1" for message templates.
func itemsSummary(items []model.OrderItem) string {
	if len(items) == 0 {
		return "N/A"
	}

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
	}
	return strings.Join(parts, ", ")
}

// addressSummary renders the deliverable parts of a shipping address.
func addressSummary(addr model.ShippingAddress) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{addr.Street, addr.City, addr.Pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}
