// FILE: src/internal/source/source.go
package source

import (
	"time"

	"tracehook/src/internal/core"
)

// Emission is one captured event with its optional ambient span
type Emission struct {
	Event core.Event
	Span  *core.Span
}

// Source represents an input stream of instrumentation events
type Source interface {
	// Returns a channel that receives emissions
	Subscribe() <-chan Emission

	// Begins reading from the source
	Start() error

	// Gracefully shuts down the source
	Stop()

	// Returns source statistics
	GetStats() SourceStats
}

// Contains statistics about a source
type SourceStats struct {
	Type           string
	TotalEntries   uint64
	DroppedEntries uint64
	StartTime      time.Time
	LastEntryTime  time.Time
	Details        map[string]any
}
