package sink

import (
	"context"

	"castlerush/logging"
	"castlerush/logging/lifecycle"
)

// LoggingSink is the default Sink used by cmd/server: it has no external
// persistence backend, only the logging.Router (§1 lists persistence of
// completed matches as out of scope). A real deployment swaps this for a
// Sink implementation backed by whatever store the operator runs.
type LoggingSink struct {
	publisher logging.Publisher
}

// NewLoggingSink wraps a publisher; a nil publisher yields a no-op sink.
func NewLoggingSink(publisher logging.Publisher) *LoggingSink {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &LoggingSink{publisher: publisher}
}

func (s *LoggingSink) Persist(ctx context.Context, record Record) error {
	lifecycle.ResultPersisted(ctx, s.publisher, 0, logging.Actor(logging.EntityKindRoom, ""), lifecycle.ResultPersistedPayload{}, map[string]any{
		"winnerPlayerNum": record.WinnerPlayerNum,
		"winReason":       record.WinReason,
		"battleDuration":  record.BattleDuration,
	})
	return nil
}
