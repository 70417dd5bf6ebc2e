package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"castlerush/logging"
)

// JSON emits newline-delimited structured events — the audit log
// cmd/server opens at AUDIT_LOG_PATH, one line per match event,
// replayable after the fact to reconstruct a room's full history.
type JSON struct {
	mu        sync.Mutex
	writer    *bufio.Writer
	encoder   *json.Encoder
	autoFlush bool
	maxBatch  int
	pending   int
}

// NewJSON constructs a JSON sink writing to w. It flushes after maxBatch
// events or flushInterval, whichever comes first, so a crash between
// flushes loses at most one batch of a room's audit trail rather than
// everything since the last periodic tick.
func NewJSON(w io.Writer, maxBatch int, flushInterval time.Duration) *JSON {
	if w == nil {
		w = io.Discard
	}
	if maxBatch <= 0 {
		maxBatch = 1
	}
	buf := bufio.NewWriter(w)
	sink := &JSON{writer: buf, encoder: json.NewEncoder(buf), autoFlush: flushInterval <= 0, maxBatch: maxBatch}
	if flushInterval > 0 {
		go sink.periodicFlush(flushInterval)
	}
	return sink
}

// Write satisfies logging.Sink.
func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wire := map[string]any{
		"type":      event.Type,
		"tick":      event.Tick,
		"time":      event.Time.Format(time.RFC3339Nano),
		"severity":  event.Severity,
		"category":  event.Category,
		"actor":     event.Actor,
		"targets":   event.Targets,
		"payload":   event.Payload,
		"extra":     event.Extra,
		"traceId":   event.TraceID,
		"commandId": event.CommandID,
	}
	if err := s.encoder.Encode(wire); err != nil {
		return err
	}
	s.pending++
	if s.autoFlush || s.pending >= s.maxBatch {
		s.pending = 0
		return s.writer.Flush()
	}
	return nil
}

// Close flushes any buffered events not yet written.
func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = 0
	return s.writer.Flush()
}

func (s *JSON) periodicFlush(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		s.pending = 0
		s.writer.Flush()
		s.mu.Unlock()
	}
}
