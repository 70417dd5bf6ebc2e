// Package sinks collects logging.Sink implementations: a plain or
// ANSI-colored console writer for local development, a newline-JSON
// writer for the audit log, an in-memory buffer scenario tests read back,
// and a zap-backed sink for production deployments.
package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"castlerush/logging"
)

// ANSI color codes keyed by severity, used only when ConsoleConfig.UseColor
// is set — a tmux/CI log without a terminal attached gets plain text.
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// ConsoleSink writes one line per event to an io.Writer, the sink cmd/server
// always wires so a match's spawn/damage/join/countdown events are visible
// on stdout without needing a log aggregator.
type ConsoleSink struct {
	logger   *log.Logger
	useColor bool
}

// NewConsoleSink constructs a ConsoleSink writing to w. cfg.UseColor picks
// severity-colored output for an attached terminal.
func NewConsoleSink(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	return &ConsoleSink{logger: log.New(w, "", log.LstdFlags), useColor: cfg.UseColor}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	payload := formatPayload(event.Payload)
	targets := formatTargets(event.Targets)
	severity := formatSeverity(event.Severity)
	if s.useColor {
		severity = colorize(event.Severity, severity)
	}
	s.logger.Printf("[%s] tick=%d actor=%s severity=%s%s%s", event.Type, event.Tick, formatEntity(event.Actor), severity, targets, payload)
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func colorize(sev logging.Severity, text string) string {
	var color string
	switch sev {
	case logging.SeverityDebug:
		color = colorGray
	case logging.SeverityInfo:
		color = colorCyan
	case logging.SeverityWarn:
		color = colorYellow
	case logging.SeverityError:
		color = colorRed
	default:
		return text
	}
	return color + text + colorReset
}

func formatSeverity(sev logging.Severity) string {
	switch sev {
	case logging.SeverityDebug:
		return "debug"
	case logging.SeverityInfo:
		return "info"
	case logging.SeverityWarn:
		return "warn"
	case logging.SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatTargets(targets []logging.EntityRef) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, formatEntity(target))
	}
	return fmt.Sprintf(" targets=%s", strings.Join(parts, ","))
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return fmt.Sprintf(" payload=%s", data)
}
