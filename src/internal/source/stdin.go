// FILE: src/internal/source/stdin.go
package source

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"tracehook/src/internal/core"

	"github.com/lixenwraith/log"
)

// Reads instrumentation events from standard input, one per line. Lines
// holding a JSON object are decoded into structured events; anything else
// becomes a plain message event.
type StdinSource struct {
	reader         io.Reader
	subscribers    []chan Emission
	done           chan struct{}
	totalEntries   atomic.Uint64
	droppedEntries atomic.Uint64
	bufferSize     int64
	startTime      time.Time
	lastEntryTime  atomic.Value // time.Time
	logger         *log.Logger
}

func NewStdinSource(options map[string]any, logger *log.Logger) (*StdinSource, error) {
	bufferSize := int64(1000) // default
	if bufSize, ok := options["buffer_size"].(int64); ok && bufSize > 0 {
		bufferSize = bufSize
	}

	source := &StdinSource{
		reader:      os.Stdin,
		bufferSize:  bufferSize,
		subscribers: make([]chan Emission, 0),
		done:        make(chan struct{}),
		logger:      logger,
		startTime:   time.Now(),
	}
	source.lastEntryTime.Store(time.Time{})
	return source, nil
}

func (s *StdinSource) Subscribe() <-chan Emission {
	ch := make(chan Emission, s.bufferSize)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *StdinSource) Start() error {
	go s.readLoop()
	s.logger.Info("msg", "Stdin source started", "component", "stdin_source")
	return nil
}

func (s *StdinSource) Stop() {
	close(s.done)
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.logger.Info("msg", "Stdin source stopped", "component", "stdin_source")
}

func (s *StdinSource) GetStats() SourceStats {
	lastEntry, _ := s.lastEntryTime.Load().(time.Time)

	return SourceStats{
		Type:           "stdin",
		TotalEntries:   s.totalEntries.Load(),
		DroppedEntries: s.droppedEntries.Load(),
		StartTime:      s.startTime,
		LastEntryTime:  lastEntry,
		Details:        map[string]any{},
	}
}

func (s *StdinSource) readLoop() {
	scanner := bufio.NewScanner(s.reader)
	for scanner.Scan() {
		select {
		case <-s.done:
			return
		default:
			line := scanner.Text()
			if line == "" {
				continue
			}
			s.publish(parseEmission(line))
		}
	}

	if err := scanner.Err(); err != nil {
		s.logger.Error("msg", "Scanner error reading stdin",
			"component", "stdin_source",
			"error", err)
	}
}

func (s *StdinSource) publish(emission Emission) {
	s.totalEntries.Add(1)
	s.lastEntryTime.Store(time.Now())

	for _, ch := range s.subscribers {
		select {
		case ch <- emission:
		default:
			s.droppedEntries.Add(1)
			s.logger.Debug("msg", "Dropped event - subscriber buffer full",
				"component", "stdin_source")
		}
	}
}

// parseEmission decodes one input line. JSON objects may carry the keys
// target, level, message, file, line and span; remaining keys become event
// fields, appended in sorted key order for determinism.
func parseEmission(line string) Emission {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Emission{Event: core.Event{
			Target:  "stdin",
			Level:   extractLevel(line),
			Message: line,
		}}
	}

	event := core.Event{Target: "stdin", Level: core.LevelInfo}
	var span *core.Span

	if v, ok := raw["target"].(string); ok {
		event.Target = v
		delete(raw, "target")
	}
	if v, ok := raw["level"].(string); ok {
		if level, err := core.ParseLevel(v); err == nil {
			event.Level = level
		}
		delete(raw, "level")
	}
	if v, ok := raw["message"].(string); ok {
		event.Message = v
		delete(raw, "message")
	}
	if v, ok := raw["file"].(string); ok {
		event.File = v
		delete(raw, "file")
	}
	if v, ok := raw["line"].(float64); ok {
		event.Line = uint32(v)
		delete(raw, "line")
	}
	if v, ok := raw["span"].(map[string]any); ok {
		span = parseSpan(v)
		delete(raw, "span")
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		event.Fields = append(event.Fields, core.Field{Key: k, Value: raw[k]})
	}

	return Emission{Event: event, Span: span}
}

func parseSpan(raw map[string]any) *core.Span {
	span := &core.Span{}
	if v, ok := raw["name"].(string); ok {
		span.Name = v
		delete(raw, "name")
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		span.Fields = append(span.Fields, core.Field{Key: k, Value: raw[k]})
	}
	return span
}

// extractLevel guesses a level from free-form log text
func extractLevel(line string) core.Level {
	patterns := []struct {
		patterns []string
		level    core.Level
	}{
		{[]string{"[ERROR]", "ERROR:", " ERROR ", "ERR:", "[ERR]", "FATAL:", "[FATAL]"}, core.LevelError},
		{[]string{"[WARN]", "WARN:", " WARN ", "WARNING:", "[WARNING]"}, core.LevelWarn},
		{[]string{"[INFO]", "INFO:", " INFO ", "[INF]", "INF:"}, core.LevelInfo},
		{[]string{"[DEBUG]", "DEBUG:", " DEBUG ", "[DBG]", "DBG:"}, core.LevelDebug},
		{[]string{"[TRACE]", "TRACE:", " TRACE "}, core.LevelTrace},
	}

	upperLine := strings.ToUpper(line)
	for _, group := range patterns {
		for _, pattern := range group.patterns {
			if strings.Contains(upperLine, pattern) {
				return group.level
			}
		}
	}

	return core.LevelInfo
}
