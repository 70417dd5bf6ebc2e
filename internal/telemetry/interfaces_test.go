package telemetry

import (
	"bytes"
	"log"
	"testing"

	"castlerush/logging"
)

func TestWrapLogger(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		logger := WrapLogger(nil)
		logger.Printf("ignored %d", 42)
	})

	t.Run("forwards to logger", func(t *testing.T) {
		var buf bytes.Buffer
		base := log.New(&buf, "", 0)
		logger := WrapLogger(base)
		logger.Printf("hello %s", "world")
		if got := buf.String(); got != "hello world\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
	})
}

func TestLoggerFuncNil(t *testing.T) {
	var f LoggerFunc
	f.Printf("ignored %d", 1) // must not panic
}

func TestWrapMetrics(t *testing.T) {
	t.Run("nil metrics", func(t *testing.T) {
		metrics := WrapMetrics(nil)
		metrics.Add("ignored", 1)
		metrics.Store("ignored", 1)
	})

	t.Run("forwards to router metrics", func(t *testing.T) {
		backing := logging.NewMetrics()
		metrics := WrapMetrics(backing)
		metrics.Add("room_command_rejected_total", 2)
		metrics.Add("room_command_rejected_total", 3)
		metrics.Store("room_command_queue_depth", 7)

		snapshot := backing.Snapshot()
		if snapshot["room_command_rejected_total"] != 5 {
			t.Fatalf("rejected total = %d, want 5", snapshot["room_command_rejected_total"])
		}
		if snapshot["room_command_queue_depth"] != 7 {
			t.Fatalf("queue depth = %d, want 7", snapshot["room_command_queue_depth"])
		}
	})
}
