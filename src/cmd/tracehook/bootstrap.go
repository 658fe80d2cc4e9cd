// FILE: src/cmd/tracehook/bootstrap.go
package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"tracehook/src/internal/config"
	"tracehook/src/internal/core"
	"tracehook/src/internal/filter"
	"tracehook/src/internal/format"
	"tracehook/src/internal/layer"
	"tracehook/src/internal/source"
	"tracehook/src/internal/worker"

	"github.com/lixenwraith/log"
)

// Forwarder pumps events from the stdin source through the layer to the
// delivery worker.
type Forwarder struct {
	source source.Source
	layer  *layer.Layer
	worker *worker.BackgroundWorker
	wg     sync.WaitGroup
}

// bootstrapForwarder builds the filter chain, layer, worker and source
// from configuration.
func bootstrapForwarder(cfg *config.Config) (*Forwarder, error) {
	targetFilters, err := filter.NewTargetFilters(
		cfg.Filters.TargetAdditive, cfg.Filters.TargetSubtractive, logger)
	if err != nil {
		return nil, err
	}

	builder := layer.NewBuilder(cfg.AppName, targetFilters).
		WebhookURL(cfg.Webhook.URL).
		Logger(logger).
		Transport(worker.NewHTTPTransport(time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second))

	if cfg.Filters.MessagePositive != "" || cfg.Filters.MessageNegative != "" {
		messageFilters, err := filter.NewMessageFilters(
			cfg.Filters.MessagePositive, cfg.Filters.MessageNegative, logger)
		if err != nil {
			return nil, err
		}
		builder.MessageFilters(messageFilters)
	}

	if cfg.Filters.FieldPositive != "" || cfg.Filters.FieldNegative != "" {
		fieldFilters, err := filter.NewFieldFilters(
			cfg.Filters.FieldPositive, cfg.Filters.FieldNegative, logger)
		if err != nil {
			return nil, err
		}
		builder.FieldFilters(fieldFilters)
	}

	if len(cfg.Filters.FieldExclusions) > 0 {
		exclusions, err := filter.NewFieldExclusions(cfg.Filters.FieldExclusions, logger)
		if err != nil {
			return nil, err
		}
		builder.FieldExclusions(exclusions)
	}

	if cfg.Filters.Level != "" {
		level, err := core.ParseLevel(cfg.Filters.Level)
		if err != nil {
			return nil, err
		}
		builder.LevelThreshold(level)
	}

	factory, err := format.New(cfg.Webhook.Kind, format.Options{
		Channel:   cfg.Webhook.Channel,
		Username:  cfg.Webhook.Username,
		IconEmoji: cfg.Webhook.IconEmoji,
	}, logger)
	if err != nil {
		return nil, err
	}
	builder.Factory(factory)

	l, w, err := builder.Build()
	if err != nil {
		return nil, err
	}

	src, err := source.NewStdinSource(nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin source: %w", err)
	}

	return &Forwarder{
		source: src,
		layer:  l,
		worker: w,
	}, nil
}

// Start launches the worker, then the source pump
func (f *Forwarder) Start() error {
	if err := f.worker.Start(); err != nil {
		return err
	}

	events := f.source.Subscribe()
	if err := f.source.Start(); err != nil {
		return err
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		for em := range events {
			f.layer.OnEvent(em.Event, em.Span)
		}
	}()

	logger.Info("msg", "Forwarder started", "component", "forwarder")
	return nil
}

// Shutdown stops the source first so no new events are enqueued, then
// shuts down the delivery worker.
func (f *Forwarder) Shutdown() {
	f.source.Stop()
	f.wg.Wait()

	if err := f.worker.Shutdown(); err != nil {
		logger.Warn("msg", "Worker shutdown reported", "error", err)
	}

	stats := f.layer.GetStats()
	logger.Info("msg", "Forwarder stopped",
		"component", "forwarder",
		"total_events", stats["total_events"],
		"total_enqueued", stats["total_enqueued"])
}

// initializeLogger sets up the diagnostic logger based on configuration
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	var configArgs []string

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		configureFileLogging(&configArgs, cfg)

	case "both":
		configArgs = append(configArgs, "enable_stdout=true")
		configureFileLogging(&configArgs, cfg)
		configureConsoleTarget(&configArgs, cfg)

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if cfg.Logging.Console != nil && cfg.Logging.Console.Format != "" {
		configArgs = append(configArgs, fmt.Sprintf("format=%s", cfg.Logging.Console.Format))
	}

	if err := logger.ApplyConfigString(configArgs...); err != nil {
		return err
	}
	return logger.Start()
}

// configureFileLogging sets up file-based logging parameters
func configureFileLogging(configArgs *[]string, cfg *config.Config) {
	if cfg.Logging.File != nil {
		*configArgs = append(*configArgs,
			fmt.Sprintf("directory=%s", cfg.Logging.File.Directory),
			fmt.Sprintf("name=%s", cfg.Logging.File.Name),
			fmt.Sprintf("max_size_mb=%d", cfg.Logging.File.MaxSizeMB),
			fmt.Sprintf("max_total_size_mb=%d", cfg.Logging.File.MaxTotalSizeMB))

		if cfg.Logging.File.RetentionHours > 0 {
			*configArgs = append(*configArgs,
				fmt.Sprintf("retention_period_hrs=%.1f", cfg.Logging.File.RetentionHours))
		}
	}
}

// configureConsoleTarget sets up console output parameters
func configureConsoleTarget(configArgs *[]string, cfg *config.Config) {
	target := "stderr" // default

	if cfg.Logging.Console != nil && cfg.Logging.Console.Target != "" {
		target = cfg.Logging.Console.Target
	}

	if target == "split" {
		*configArgs = append(*configArgs, "stdout_split_mode=true")
		*configArgs = append(*configArgs, "stdout_target=split")
	} else {
		*configArgs = append(*configArgs, fmt.Sprintf("stdout_target=%s", target))
	}
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
