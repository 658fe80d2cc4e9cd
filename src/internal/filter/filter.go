// FILE: src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"sync/atomic"

	"github.com/lixenwraith/log"
)

// Matcher evaluates a single string against a compiled pattern
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles a pattern into a Matcher. Invalid patterns fail here,
// before any event is processed.
func NewMatcher(pattern string) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern '%s': %w", pattern, err)
	}
	return &Matcher{re: re}, nil
}

// Matches checks the candidate against the compiled pattern
func (m *Matcher) Matches(candidate string) bool {
	return m.re.MatchString(candidate)
}

// Pattern returns the source text of the compiled pattern
func (m *Matcher) Pattern() string {
	return m.re.String()
}

// EventFilters pairs an optional must-match matcher with an optional
// must-not-match matcher. A missing matcher imposes no constraint; a nil
// EventFilters accepts everything.
//
// The role-specific polarity names map onto the pair as follows:
//   - Target filters: additive = must match, subtractive = must not match.
//   - Message and field-key filters: negative = must match, positive = must
//     not match.
type EventFilters struct {
	role    string
	require *Matcher // reject candidates that do not match
	refuse  *Matcher // reject candidates that match
	logger  *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalRejected  atomic.Uint64
}

// NewTargetFilters builds filters for event targets. The additive pattern
// keeps only matching targets; the subtractive pattern drops matching
// targets. Empty patterns are absent.
func NewTargetFilters(additive, subtractive string, logger *log.Logger) (*EventFilters, error) {
	return newEventFilters("target", additive, subtractive, logger)
}

// NewMessageFilters builds filters for event messages. The positive pattern
// drops matching messages (blocklist); the negative pattern keeps only
// matching messages (allowlist). Empty patterns are absent.
func NewMessageFilters(positive, negative string, logger *log.Logger) (*EventFilters, error) {
	return newEventFilters("message", negative, positive, logger)
}

// NewFieldFilters builds filters for event field keys, with the same
// positive/negative semantics as message filters.
func NewFieldFilters(positive, negative string, logger *log.Logger) (*EventFilters, error) {
	return newEventFilters("field", negative, positive, logger)
}

func newEventFilters(role, require, refuse string, logger *log.Logger) (*EventFilters, error) {
	f := &EventFilters{
		role:   role,
		logger: logger,
	}

	var err error
	if require != "" {
		if f.require, err = NewMatcher(require); err != nil {
			return nil, fmt.Errorf("%s filter: %w", role, err)
		}
	}
	if refuse != "" {
		if f.refuse, err = NewMatcher(refuse); err != nil {
			return nil, fmt.Errorf("%s filter: %w", role, err)
		}
	}

	logger.Debug("msg", "Event filters created",
		"component", "filter",
		"role", role,
		"has_require", f.require != nil,
		"has_refuse", f.refuse != nil)
	return f, nil
}

// Process checks whether a candidate passes both matchers. Rejection is a
// normal control-flow outcome, not an error.
func (f *EventFilters) Process(candidate string) bool {
	if f == nil {
		return true
	}
	f.totalProcessed.Add(1)

	if f.require != nil && !f.require.Matches(candidate) {
		f.totalRejected.Add(1)
		return false
	}
	if f.refuse != nil && f.refuse.Matches(candidate) {
		f.totalRejected.Add(1)
		return false
	}
	return true
}

// GetStats returns filter statistics
func (f *EventFilters) GetStats() map[string]any {
	if f == nil {
		return map[string]any{}
	}
	stats := map[string]any{
		"role":            f.role,
		"total_processed": f.totalProcessed.Load(),
		"total_rejected":  f.totalRejected.Load(),
	}
	if f.require != nil {
		stats["require_pattern"] = f.require.Pattern()
	}
	if f.refuse != nil {
		stats["refuse_pattern"] = f.refuse.Pattern()
	}
	return stats
}
