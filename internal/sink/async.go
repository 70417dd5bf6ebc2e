package sink

import (
	"context"

	"castlerush/logging"
	"castlerush/logging/lifecycle"
)

// Dispatch hands record to s in a new goroutine so the caller's serial
// command loop is never blocked by persistence (spec: "the result-
// persistence call is the only operation that may suspend; it runs after
// the final phase_change broadcast and does not hold any room invariant").
// A failed Persist call is logged through publisher and otherwise ignored.
func Dispatch(ctx context.Context, s Sink, publisher logging.Publisher, record Record) {
	if s == nil {
		return
	}
	// A Sink implementation is responsible for logging its own success (see
	// LoggingSink.Persist); Dispatch only has to guarantee the failure case
	// is never silently dropped, since §7 says external-failure handling
	// must log persistence errors without ever reaching the client.
	go func() {
		err := s.Persist(ctx, record)
		if err == nil {
			return
		}
		lifecycle.ResultPersisted(context.Background(), publisher, 0, logging.Actor(logging.EntityKindRoom, ""), lifecycle.ResultPersistedPayload{
			Err: err.Error(),
		}, nil)
	}()
}
