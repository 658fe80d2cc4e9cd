// FILE: src/internal/layer/builder.go
package layer

import (
	"fmt"
	"os"
	"time"

	"tracehook/src/internal/core"
	"tracehook/src/internal/filter"
	"tracehook/src/internal/format"
	"tracehook/src/internal/worker"

	"github.com/lixenwraith/log"
)

// Builder assembles a Layer and its BackgroundWorker. A target filter is
// the only required filtering input; leaving it empty forwards every target
// and will flood the webhook on a busy application.
type Builder struct {
	appName         string
	webhookURL      string
	targetFilters   *filter.EventFilters
	messageFilters  *filter.EventFilters
	fieldFilters    *filter.EventFilters
	fieldExclusions *filter.FieldExclusions
	levelThreshold  *core.Level
	factory         format.Factory
	transport       worker.Transport
	logger          *log.Logger
}

// NewBuilder starts a builder for the given application identity and
// target filters.
func NewBuilder(appName string, targetFilters *filter.EventFilters) *Builder {
	return &Builder{
		appName:       appName,
		targetFilters: targetFilters,
	}
}

// WebhookURL sets the delivery destination. When unset, Build falls back
// to the WEBHOOK_URL environment variable.
func (b *Builder) WebhookURL(url string) *Builder {
	b.webhookURL = url
	return b
}

// MessageFilters filters events by their selected message
func (b *Builder) MessageFilters(f *filter.EventFilters) *Builder {
	b.messageFilters = f
	return b
}

// FieldFilters filters individual payload fields by key
func (b *Builder) FieldFilters(f *filter.EventFilters) *Builder {
	b.fieldFilters = f
	return b
}

// FieldExclusions redacts individual payload fields by key
func (b *Builder) FieldExclusions(f *filter.FieldExclusions) *Builder {
	b.fieldExclusions = f
	return b
}

// LevelThreshold drops events strictly below the given level
func (b *Builder) LevelThreshold(level core.Level) *Builder {
	b.levelThreshold = &level
	return b
}

// Factory sets the payload factory. Defaults to the generic webhook kind.
func (b *Builder) Factory(f format.Factory) *Builder {
	b.factory = f
	return b
}

// Transport overrides the HTTP transport used by the worker
func (b *Builder) Transport(t worker.Transport) *Builder {
	b.transport = t
	return b
}

// Logger sets the diagnostic logger shared by the layer and worker
func (b *Builder) Logger(logger *log.Logger) *Builder {
	b.logger = logger
	return b
}

// Build creates the layer and its delivery worker sharing one queue. The
// worker is not started; call its Start once at startup and Shutdown once
// at teardown.
func (b *Builder) Build() (*Layer, *worker.BackgroundWorker, error) {
	logger := b.logger
	if logger == nil {
		logger = log.NewLogger()
	}

	webhookURL := b.webhookURL
	if webhookURL == "" {
		webhookURL = os.Getenv("WEBHOOK_URL")
	}
	if webhookURL == "" {
		return nil, nil, fmt.Errorf("webhook URL is required (set explicitly or via WEBHOOK_URL)")
	}

	factory := b.factory
	if factory == nil {
		factory = format.NewWebhookFactory(logger)
	}

	transport := b.transport
	if transport == nil {
		transport = worker.NewHTTPTransport(30 * time.Second)
	}

	queue := worker.NewQueue()
	w := worker.New(queue, transport, logger)

	l := &Layer{
		appName:         b.appName,
		webhookURL:      webhookURL,
		targetFilters:   b.targetFilters,
		messageFilters:  b.messageFilters,
		fieldFilters:    b.fieldFilters,
		fieldExclusions: b.fieldExclusions,
		levelThreshold:  b.levelThreshold,
		factory:         factory,
		queue:           queue,
		logger:          logger,
	}

	logger.Info("msg", "Webhook layer created",
		"component", "layer",
		"app_name", b.appName,
		"payload_kind", factory.Name())
	return l, w, nil
}
