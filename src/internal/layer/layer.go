// FILE: src/internal/layer/layer.go
package layer

import (
	"sync/atomic"

	"tracehook/src/internal/core"
	"tracehook/src/internal/filter"
	"tracehook/src/internal/format"
	"tracehook/src/internal/worker"

	"github.com/lixenwraith/log"
)

// fallbackMessage is used when an event carries neither a message nor a
// string "error" field.
const fallbackMessage = "No message"

// Layer receives events from the instrumentation hook, applies the filter
// chain, and enqueues payloads for asynchronous delivery. OnEvent runs
// synchronously on the caller's goroutine: it never blocks, never performs
// I/O, and never surfaces an error into the caller's control flow.
type Layer struct {
	// Configuration
	appName         string
	webhookURL      string
	targetFilters   *filter.EventFilters
	messageFilters  *filter.EventFilters
	fieldFilters    *filter.EventFilters
	fieldExclusions *filter.FieldExclusions
	levelThreshold  *core.Level

	// Application
	factory format.Factory
	queue   *worker.Queue
	logger  *log.Logger

	// Statistics
	totalEvents   atomic.Uint64
	totalFiltered atomic.Uint64
	totalEnqueued atomic.Uint64
	totalDropped  atomic.Uint64
}

// OnEvent processes one event in the context of an optional ambient span.
// Rejected events produce no payload and no side effects; formatting
// failures are diagnosed and swallowed.
func (l *Layer) OnEvent(event core.Event, span *core.Span) {
	l.totalEvents.Add(1)

	payload, ok := l.format(event, span)
	if !ok {
		return
	}

	if !l.queue.Push(worker.Message{Payload: payload}) {
		l.totalDropped.Add(1)
		l.logger.Debug("msg", "Dropped payload - delivery queue closed",
			"component", "layer",
			"target", event.Target)
		return
	}
	l.totalEnqueued.Add(1)
}

// format applies the filter chain in order: target, message selection,
// message filter, level threshold, then the per-field pass. Target and
// message rejections short-circuit the whole event; field rejections drop
// only the field.
func (l *Layer) format(event core.Event, span *core.Span) (core.Payload, bool) {
	if !l.targetFilters.Process(event.Target) {
		l.totalFiltered.Add(1)
		return nil, false
	}

	message := selectMessage(event)
	if !l.messageFilters.Process(message) {
		l.totalFiltered.Add(1)
		return nil, false
	}

	if l.levelThreshold != nil && event.Level < *l.levelThreshold {
		l.totalFiltered.Add(1)
		return nil, false
	}

	fields := make(core.Fields, 0, len(event.Fields))
	for _, f := range event.Fields {
		// The message and error keys were consumed by message selection
		if f.Key == "message" || f.Key == "error" {
			continue
		}
		// Redaction first, then the field-key filter
		if l.fieldExclusions.Excludes(f.Key) {
			continue
		}
		if !l.fieldFilters.Process(f.Key) {
			continue
		}
		fields = append(fields, f)
	}

	// Span fields are merged unconditionally, after event fields, so they
	// overwrite same-named event fields
	spanName := ""
	if span != nil {
		spanName = span.Name
		fields = append(fields, span.Fields...)
	}

	sourceFile := event.File
	if sourceFile == "" {
		sourceFile = "Unknown"
	}

	payload, err := l.factory.Create(format.Inputs{
		AppName:    l.appName,
		Message:    message,
		Level:      event.Level,
		Target:     event.Target,
		SourceFile: sourceFile,
		SourceLine: event.Line,
		Span:       spanName,
		Fields:     fields,
		WebhookURL: l.webhookURL,
	})
	if err != nil {
		// Formatting failures never reach the instrumented application
		l.logger.Error("msg", "Failed to create payload",
			"component", "layer",
			"target", event.Target,
			"error", err)
		return nil, false
	}
	return payload, true
}

// selectMessage extracts the event message, falling back to a string
// "error" field, then to a fixed placeholder.
func selectMessage(event core.Event) string {
	if event.Message != "" {
		return event.Message
	}
	if errMsg, ok := event.Fields.GetString("error"); ok {
		return errMsg
	}
	return fallbackMessage
}

// GetStats returns layer statistics including per-filter counters
func (l *Layer) GetStats() map[string]any {
	return map[string]any{
		"app_name":         l.appName,
		"total_events":     l.totalEvents.Load(),
		"total_filtered":   l.totalFiltered.Load(),
		"total_enqueued":   l.totalEnqueued.Load(),
		"total_dropped":    l.totalDropped.Load(),
		"target_filters":   l.targetFilters.GetStats(),
		"message_filters":  l.messageFilters.GetStats(),
		"field_filters":    l.fieldFilters.GetStats(),
		"field_exclusions": l.fieldExclusions.GetStats(),
	}
}
