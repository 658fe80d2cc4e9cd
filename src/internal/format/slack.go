// FILE: src/internal/format/slack.go
package format

import (
	"encoding/json"
	"fmt"

	"tracehook/src/internal/core"

	"github.com/lixenwraith/log"
)

// SlackPayload is the chat-ops payload kind: a Slack incoming-webhook
// message carrying the formatted event as pretty-printed JSON text.
type SlackPayload struct {
	url  string
	body []byte
}

// slackBody is the wire shape of a Slack incoming-webhook message
type slackBody struct {
	Channel   string `json:"channel"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

// Destination returns the webhook URL to POST to
func (p *SlackPayload) Destination() string {
	return p.url
}

// Body returns the serialized JSON request body
func (p *SlackPayload) Body() []byte {
	return p.body
}

// SlackFactory produces Slack incoming-webhook payloads
type SlackFactory struct {
	opts   Options
	logger *log.Logger
}

// NewSlackFactory creates a Slack payload factory with the given chat-ops
// identity settings.
func NewSlackFactory(opts Options, logger *log.Logger) *SlackFactory {
	return &SlackFactory{opts: opts, logger: logger}
}

// Create builds the Slack message. When a span is active the message is
// prefixed with its bracketed, uppercased name.
func (f *SlackFactory) Create(in Inputs) (core.Payload, error) {
	message := in.Message
	if in.Span != "" {
		message = formatSpanContext(in.Span) + " " + message
	}

	text := fieldsToMap(in.Fields)
	text["message"] = message
	text["target"] = in.Target
	text["level"] = in.Level.String()
	text["file"] = in.SourceFile
	text["line"] = in.SourceLine

	pretty, err := json.MarshalIndent(text, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slack text: %w", err)
	}

	body, err := json.Marshal(slackBody{
		Channel:   f.opts.Channel,
		Username:  f.opts.Username,
		Text:      string(pretty),
		IconEmoji: f.opts.IconEmoji,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	return &SlackPayload{
		url:  in.WebhookURL,
		body: body,
	}, nil
}

// Name returns the factory's type name
func (f *SlackFactory) Name() string {
	return "slack"
}
