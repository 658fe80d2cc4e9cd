// FILE: src/internal/filter/exclusion.go
package filter

import (
	"fmt"
	"regexp"
	"sync/atomic"

	"github.com/lixenwraith/log"
)

// FieldExclusions redacts individual payload fields by key. A field whose
// key matches any pattern is dropped from the payload; the event itself is
// unaffected.
type FieldExclusions struct {
	patterns []*regexp.Regexp
	logger   *log.Logger

	// Statistics
	totalChecked  atomic.Uint64
	totalExcluded atomic.Uint64
}

// NewFieldExclusions compiles a set of key patterns. Invalid patterns fail
// here, before any event is processed.
func NewFieldExclusions(patterns []string, logger *log.Logger) (*FieldExclusions, error) {
	f := &FieldExclusions{
		patterns: make([]*regexp.Regexp, 0, len(patterns)),
		logger:   logger,
	}

	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclusion pattern[%d] '%s': %w", i, pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}

	logger.Debug("msg", "Field exclusions created",
		"component", "filter",
		"pattern_count", len(patterns))
	return f, nil
}

// Excludes reports whether a field with the given key must be redacted
func (f *FieldExclusions) Excludes(key string) bool {
	if f == nil || len(f.patterns) == 0 {
		return false
	}
	f.totalChecked.Add(1)

	for _, re := range f.patterns {
		if re.MatchString(key) {
			f.totalExcluded.Add(1)
			return true
		}
	}
	return false
}

// GetStats returns exclusion statistics
func (f *FieldExclusions) GetStats() map[string]any {
	if f == nil {
		return map[string]any{}
	}
	return map[string]any{
		"pattern_count":  len(f.patterns),
		"total_checked":  f.totalChecked.Load(),
		"total_excluded": f.totalExcluded.Load(),
	}
}
