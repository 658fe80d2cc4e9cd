// FILE: src/internal/layer/layer_test.go
package layer

import (
	"encoding/json"
	"testing"

	"tracehook/src/internal/core"
	"tracehook/src/internal/filter"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

type layerOption func(*Builder)

func buildTestLayer(t *testing.T, opts ...layerOption) *Layer {
	t.Helper()
	logger := newTestLogger()

	targets, err := filter.NewTargetFilters(`svc\.`, "", logger)
	require.NoError(t, err)

	b := NewBuilder("testapp", targets).
		WebhookURL("https://hooks.example.com/x").
		Logger(logger)
	for _, opt := range opts {
		opt(b)
	}

	l, _, err := b.Build()
	require.NoError(t, err)
	return l
}

// popPayload decodes the single enqueued payload, failing if none or more
// than one is queued.
func popPayload(t *testing.T, l *Layer) map[string]any {
	t.Helper()
	require.Equal(t, 1, l.queue.Len())
	msg, ok := l.queue.Pop()
	require.True(t, ok)

	var out map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload.Body(), &out))
	return out
}

func TestLayer_EndToEnd(t *testing.T) {
	logger := newTestLogger()
	exclusions, err := filter.NewFieldExclusions([]string{"password"}, logger)
	require.NoError(t, err)

	l := buildTestLayer(t, func(b *Builder) {
		b.FieldExclusions(exclusions)
	})

	t.Run("MatchingTargetEmitsRedactedPayload", func(t *testing.T) {
		l.OnEvent(core.Event{
			Target:  "svc.auth",
			Level:   core.LevelInfo,
			Message: "login ok",
			Fields: core.Fields{
				{Key: "user", Value: "a"},
				{Key: "password", Value: "x"},
			},
		}, nil)

		out := popPayload(t, l)
		assert.Equal(t, "login ok", out["message"])
		assert.Equal(t, "a", out["user"])
		assert.NotContains(t, out, "password")
	})

	t.Run("NonMatchingTargetEmitsNothing", func(t *testing.T) {
		l.OnEvent(core.Event{
			Target:  "other.mod",
			Level:   core.LevelInfo,
			Message: "login ok",
		}, nil)

		assert.Equal(t, 0, l.queue.Len())
	})
}

func TestLayer_LevelThreshold(t *testing.T) {
	l := buildTestLayer(t, func(b *Builder) {
		b.LevelThreshold(core.LevelWarn)
	})

	testCases := []struct {
		name    string
		level   core.Level
		emitted bool
	}{
		{name: "BelowThresholdDropped", level: core.LevelInfo, emitted: false},
		{name: "EqualLevelKept", level: core.LevelWarn, emitted: true},
		{name: "AboveThresholdKept", level: core.LevelError, emitted: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l.OnEvent(core.Event{
				Target:  "svc.auth",
				Level:   tc.level,
				Message: "something",
			}, nil)

			if tc.emitted {
				popPayload(t, l)
			} else {
				assert.Equal(t, 0, l.queue.Len())
			}
		})
	}
}

func TestLayer_MessageFilter(t *testing.T) {
	logger := newTestLogger()
	messages, err := filter.NewMessageFilters("heartbeat", "", logger)
	require.NoError(t, err)

	l := buildTestLayer(t, func(b *Builder) {
		b.MessageFilters(messages)
	})

	l.OnEvent(core.Event{Target: "svc.auth", Message: "heartbeat ok"}, nil)
	assert.Equal(t, 0, l.queue.Len())

	l.OnEvent(core.Event{Target: "svc.auth", Message: "login failed"}, nil)
	popPayload(t, l)
}

func TestLayer_MessageSelection(t *testing.T) {
	l := buildTestLayer(t)

	t.Run("FallsBackToErrorField", func(t *testing.T) {
		l.OnEvent(core.Event{
			Target: "svc.auth",
			Fields: core.Fields{{Key: "error", Value: "boom"}},
		}, nil)

		out := popPayload(t, l)
		assert.Equal(t, "boom", out["message"])
		// The error field was consumed by message selection
		assert.NotContains(t, out, "error")
	})

	t.Run("FallsBackToPlaceholder", func(t *testing.T) {
		l.OnEvent(core.Event{Target: "svc.auth"}, nil)

		out := popPayload(t, l)
		assert.Equal(t, "No message", out["message"])
	})
}

func TestLayer_FieldKeyFilterDropsFieldOnly(t *testing.T) {
	logger := newTestLogger()
	fieldFilters, err := filter.NewFieldFilters("internal_", "", logger)
	require.NoError(t, err)

	l := buildTestLayer(t, func(b *Builder) {
		b.FieldFilters(fieldFilters)
	})

	l.OnEvent(core.Event{
		Target:  "svc.auth",
		Message: "login ok",
		Fields: core.Fields{
			{Key: "internal_trace", Value: "t-1"},
			{Key: "user", Value: "a"},
		},
	}, nil)

	// The event itself survives; only the matching field is removed
	out := popPayload(t, l)
	assert.Equal(t, "a", out["user"])
	assert.NotContains(t, out, "internal_trace")
}

func TestLayer_SpanFieldsMerge(t *testing.T) {
	l := buildTestLayer(t)

	l.OnEvent(core.Event{
		Target:  "svc.auth",
		Message: "login ok",
		Fields:  core.Fields{{Key: "region", Value: "event"}},
	}, &core.Span{
		Name:   "create_user",
		Fields: core.Fields{{Key: "region", Value: "span"}, {Key: "span_id", Value: "s-1"}},
	})

	out := popPayload(t, l)
	assert.Equal(t, "create_user", out["span"])
	assert.Equal(t, "s-1", out["span_id"])
	// Span fields overwrite same-named event fields
	assert.Equal(t, "span", out["region"])
}

func TestLayer_SpanFieldsBypassFilters(t *testing.T) {
	logger := newTestLogger()
	exclusions, err := filter.NewFieldExclusions([]string{"password"}, logger)
	require.NoError(t, err)

	l := buildTestLayer(t, func(b *Builder) {
		b.FieldExclusions(exclusions)
	})

	l.OnEvent(core.Event{
		Target:  "svc.auth",
		Message: "login ok",
	}, &core.Span{
		Name:   "session",
		Fields: core.Fields{{Key: "password", Value: "from-span"}},
	})

	// Span context fields are merged unconditionally
	out := popPayload(t, l)
	assert.Equal(t, "from-span", out["password"])
}

func TestLayer_QueueClosedNeverPanics(t *testing.T) {
	l := buildTestLayer(t)
	l.queue.Close()

	assert.NotPanics(t, func() {
		l.OnEvent(core.Event{Target: "svc.auth", Message: "late"}, nil)
	})
	assert.Equal(t, uint64(1), l.totalDropped.Load())
}

func TestBuilder_RequiresWebhookURL(t *testing.T) {
	logger := newTestLogger()
	targets, err := filter.NewTargetFilters("", "", logger)
	require.NoError(t, err)

	t.Setenv("WEBHOOK_URL", "")
	_, _, err = NewBuilder("app", targets).Logger(logger).Build()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webhook URL is required")
}

func TestBuilder_WebhookURLFromEnv(t *testing.T) {
	logger := newTestLogger()
	targets, err := filter.NewTargetFilters("", "", logger)
	require.NoError(t, err)

	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/env")
	l, w, err := NewBuilder("app", targets).Logger(logger).Build()
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/env", l.webhookURL)
	assert.NotNil(t, w)
}
