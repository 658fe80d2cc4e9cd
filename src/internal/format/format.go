// FILE: src/internal/format/format.go
package format

import (
	"fmt"
	"strings"

	"tracehook/src/internal/core"

	"github.com/lixenwraith/log"
)

// Inputs carries everything a payload factory needs for one filtered event.
// Fields holds the surviving event fields followed by the span fields; on
// duplicate keys the later entry wins.
type Inputs struct {
	AppName    string
	Message    string
	Level      core.Level
	Target     string
	SourceFile string
	SourceLine uint32
	Span       string // empty when no span is active
	Fields     core.Fields
	WebhookURL string
}

// Factory assembles one outbound payload from formatted inputs. The set of
// factories is closed; new payload kinds register here.
type Factory interface {
	// Create builds a payload from the inputs
	Create(in Inputs) (core.Payload, error)

	// Name returns the factory type name
	Name() string
}

// New creates a Factory based on the configured payload kind
func New(kind string, opts Options, logger *log.Logger) (Factory, error) {
	// Default to the generic webhook payload
	if kind == "" {
		kind = "webhook"
	}

	switch kind {
	case "webhook":
		return NewWebhookFactory(logger), nil
	case "slack":
		return NewSlackFactory(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown payload kind: %s", kind)
	}
}

// Options holds chat-ops identity settings used by the slack factory
type Options struct {
	Channel   string
	Username  string
	IconEmoji string
}

// formatSpanContext renders the bracketed span annotation prepended to
// messages, e.g. "[AN_INTERESTING_SPAN - EVENT]".
func formatSpanContext(span string) string {
	return fmt.Sprintf("[%s - EVENT]", strings.ToUpper(span))
}

// fieldsToMap flattens an ordered field list into a map. Later entries
// overwrite earlier ones, so span fields take precedence over same-named
// event fields.
func fieldsToMap(fields core.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
