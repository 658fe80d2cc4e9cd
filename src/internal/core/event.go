// FILE: src/internal/core/event.go
package core

import (
	"fmt"
	"strings"
)

// Level of an event, ordered from most to least verbose
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a level name to a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown level: %s", s)
	}
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Field is one key-value pair attached to an event or span
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered field list. Order matters for duplicate keys:
// later entries overwrite earlier ones when the payload is assembled.
type Fields []Field

// Get returns the value of the first field with the given key
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// GetString returns the value of the first string field with the given key
func (f Fields) GetString(key string) (string, bool) {
	v, ok := f.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Event is one instrumentation record handed to the layer by the event
// source. It lives only for the duration of one formatting call and is
// never retained.
type Event struct {
	Target  string
	Level   Level
	Message string // empty means unset
	Fields  Fields
	File    string
	Line    uint32
}

// Span is a read-only view of the span enclosing an event. It is owned by
// the caller's tracing registry; the layer borrows it for one formatting
// call and never stores it.
type Span struct {
	Name   string
	Fields Fields
}
