// FILE: src/cmd/tracehook/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tracehook/src/internal/config"
	"tracehook/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := initializeLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer shutdownLogger()

	logger.Info("msg", "tracehook starting",
		"version", version.String(),
		"app_name", cfg.AppName,
		"payload_kind", cfg.Webhook.Kind)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	forwarder, err := bootstrapForwarder(cfg)
	if err != nil {
		logger.Error("msg", "Failed to bootstrap forwarder", "error", err)
		os.Exit(1)
	}

	if err := forwarder.Start(); err != nil {
		logger.Error("msg", "Failed to start forwarder", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown signal
	<-sigChan
	logger.Info("msg", "Shutdown signal received, starting graceful shutdown...")

	done := make(chan struct{})
	go func() {
		forwarder.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete")
	case <-time.After(10 * time.Second):
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		os.Exit(1)
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			// Best effort - can't log the shutdown error
			fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
		}
	}
}
