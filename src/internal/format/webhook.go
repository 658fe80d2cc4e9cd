// FILE: src/internal/format/webhook.go
package format

import (
	"encoding/json"
	"fmt"

	"tracehook/src/internal/core"

	"github.com/lixenwraith/log"
)

// WebhookPayload is the generic payload kind: a flat JSON object of the
// assembled event fields, posted as-is to the destination URL.
type WebhookPayload struct {
	url  string
	body []byte
}

// Destination returns the webhook URL to POST to
func (p *WebhookPayload) Destination() string {
	return p.url
}

// Body returns the serialized JSON request body
func (p *WebhookPayload) Body() []byte {
	return p.body
}

// WebhookFactory produces generic webhook payloads
type WebhookFactory struct {
	logger *log.Logger
}

// NewWebhookFactory creates a generic webhook payload factory
func NewWebhookFactory(logger *log.Logger) *WebhookFactory {
	return &WebhookFactory{logger: logger}
}

// Create builds the bunyan-style diagnostic object: message, target, level
// and source location, then the surviving event and span fields.
func (f *WebhookFactory) Create(in Inputs) (core.Payload, error) {
	out := fieldsToMap(in.Fields)

	out["message"] = in.Message
	out["target"] = in.Target
	out["level"] = in.Level.String()
	out["app_name"] = in.AppName
	out["file"] = in.SourceFile
	out["line"] = in.SourceLine
	if in.Span != "" {
		out["span"] = in.Span
	}

	body, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	return &WebhookPayload{
		url:  in.WebhookURL,
		body: body,
	}, nil
}

// Name returns the factory's type name
func (f *WebhookFactory) Name() string {
	return "webhook"
}
