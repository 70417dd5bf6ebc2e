package network

import (
	"context"

	"castlerush/logging"
)

const (
	// EventConnectionEstablished is emitted when a transport connection is accepted.
	EventConnectionEstablished logging.EventType = "network.connection_established"
	// EventConnectionClosed is emitted when a transport connection closes, cleanly or not.
	EventConnectionClosed logging.EventType = "network.connection_closed"
	// EventMalformedMessage is emitted when an inbound frame fails to decode or validate.
	EventMalformedMessage logging.EventType = "network.malformed_message"
)

// ConnectionPayload captures basic connection bookkeeping.
type ConnectionPayload struct {
	RemoteAddr string `json:"remoteAddr,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// MalformedMessagePayload captures why an inbound frame was rejected.
type MalformedMessagePayload struct {
	RawType string `json:"rawType,omitempty"`
	Reason  string `json:"reason"`
}

// ConnectionEstablished publishes a debug event when a session's socket is accepted.
func ConnectionEstablished(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ConnectionPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventConnectionEstablished,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "network",
		Payload:  payload,
		Extra:    extra,
	})
}

// ConnectionClosed publishes an event when a session's socket closes.
func ConnectionClosed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ConnectionPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventConnectionClosed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "network",
		Payload:  payload,
		Extra:    extra,
	})
}

// MalformedMessage publishes a warning event for an inbound frame that failed to decode or validate.
func MalformedMessage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MalformedMessagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMalformedMessage,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "network",
		Payload:  payload,
		Extra:    extra,
	})
}
