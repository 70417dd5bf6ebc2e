package sinks

import (
	"context"

	"castlerush/logging"

	"go.uber.org/zap"
)

// ZapSink adapts logging.Event onto a structured zap.Logger, the other
// structured-logging idiom present in the retrieved corpus alongside the
// router's own plain-console and JSON sinks.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps an already-constructed zap.Logger. Passing nil falls
// back to zap.NewNop so the sink never panics if wiring is incomplete.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

func (s *ZapSink) Write(event logging.Event) error {
	fields := []zap.Field{
		zap.Uint64("tick", event.Tick),
		zap.String("actor", formatEntity(event.Actor)),
		zap.String("category", event.Category),
	}
	if len(event.Targets) > 0 {
		fields = append(fields, zap.String("targets", formatTargets(event.Targets)))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	if event.TraceID != "" {
		fields = append(fields, zap.String("traceId", event.TraceID))
	}

	switch event.Severity {
	case logging.SeverityDebug:
		s.logger.Debug(string(event.Type), fields...)
	case logging.SeverityWarn:
		s.logger.Warn(string(event.Type), fields...)
	case logging.SeverityError:
		s.logger.Error(string(event.Type), fields...)
	default:
		s.logger.Info(string(event.Type), fields...)
	}
	return nil
}

func (s *ZapSink) Close(context.Context) error {
	return s.logger.Sync()
}
