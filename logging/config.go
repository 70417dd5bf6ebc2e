package logging

import "time"

// Sink names recognized by Config.EnabledSinks / HasSink. app.Run always
// wires "console" and "zap" (falling back to a no-op zap.Logger); "json"
// is added only when AUDIT_LOG_PATH is set.
const (
	SinkConsole = "console"
	SinkZap     = "zap"
	SinkJSON    = "json"
)

// Config governs one Router: how deep its publish queue is and the default
// severity floor for everything it fans out. EnabledSinks records the names
// of the sinks the caller wires; NewRouter does not consult it and runs
// every NamedSink it is given.
// A room never constructs a Config itself — cmd/server builds exactly one
// at process startup and shares the Router it produces across every room.
type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	DropWarnInterval time.Duration
}

// JSONConfig configures the audit-log sink (logging/sinks.JSON), used only
// when AUDIT_LOG_PATH is set.
type JSONConfig struct {
	FilePath      string
	MaxBatch      int
	FlushInterval time.Duration
}

// ConsoleConfig configures the console sink. UseColor is read by
// logging/sinks.NewConsoleSink to pick a plain or ANSI-colored formatter.
type ConsoleConfig struct {
	UseColor bool
}

// DefaultConfig returns the Config app.Run starts from: console only, at
// info severity, a 512-event queue — enough headroom for a 20 Hz room
// publishing a handful of combat/lifecycle events per tick without ever
// stalling the simulation loop on a slow sink.
func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{SinkConsole},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		Console: ConsoleConfig{
			UseColor: true,
		},
		JSON: JSONConfig{
			MaxBatch:      32,
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
