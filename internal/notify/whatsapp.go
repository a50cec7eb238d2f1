package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kiranakart/internal/config"

	"github.com/rs/zerolog"
)

// whatsAppDispatcher sends template messages through the WhatsApp Cloud API.
// Missing credentials or an empty phone make Send report a skip, not an error.
type whatsAppDispatcher struct {
	cfg    config.WhatsAppConfig
	client *http.Client
	logger zerolog.Logger
}

// NewWhatsApp creates a WhatsApp Cloud API dispatcher.
func NewWhatsApp(cfg config.WhatsAppConfig, logger zerolog.Logger) Dispatcher {
	return &whatsAppDispatcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("component", "whatsapp-dispatcher").Logger(),
	}
}

type templateMessage struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Template         templatePayload `json:"template"`
}

type templatePayload struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components,omitempty"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send posts one template message. Errors are returned in the Result for the
// caller to log; they never panic or retry.
func (d *whatsAppDispatcher) Send(ctx context.Context, phone string, template Template, params []string) Result {
	if !d.cfg.Configured() {
		d.logger.Debug().Str("template", string(template)).Msg("whatsapp not configured, skipping notification")
		return Result{Skipped: true}
	}
	if phone == "" {
		d.logger.Debug().Str("template", string(template)).Msg("no phone number, skipping notification")
		return Result{Skipped: true}
	}

	parameters := make([]templateParameter, len(params))
	for i, p := range params {
		parameters[i] = templateParameter{Type: "text", Text: truncate(p, 200)}
	}

	msg := templateMessage{
		MessagingProduct: "whatsapp",
		To:               formatPhone(phone),
		Type:             "template",
		Template: templatePayload{
			Name:     string(template),
			Language: templateLanguage{Code: "en"},
		},
	}
	if len(parameters) > 0 {
		msg.Template.Components = []templateComponent{
			{Type: "body", Parameters: parameters},
		}
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to encode message: %w", err)}
	}

	url := fmt.Sprintf("%s/%s/%s/messages", d.cfg.BaseURL, d.cfg.APIVersion, d.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("whatsapp request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Result{Err: fmt.Errorf("whatsapp API: %d - %s", resp.StatusCode, string(respBody))}
	}

	d.logger.Debug().
		Str("template", string(template)).
		Msg("notification sent")

	return Result{Sent: true}
}

// formatPhone normalises an Indian phone number to E.164 digits without the
// plus sign, as the Cloud API expects.
func formatPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if len(cleaned) == 10 {
		return "91" + cleaned
	}
	if strings.HasPrefix(cleaned, "91") {
		return cleaned
	}
	return "91" + cleaned
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
