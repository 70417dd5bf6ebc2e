package lifecycle

import (
	"context"

	"castlerush/logging"
)

const (
	// EventPlayerJoined is emitted when a session joins a room.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerReady is emitted when a session declares readiness.
	EventPlayerReady logging.EventType = "lifecycle.player_ready"
	// EventCountdownTick is emitted once per second during the countdown phase.
	EventCountdownTick logging.EventType = "lifecycle.countdown_tick"
	// EventPhaseChange is emitted on every room phase transition.
	EventPhaseChange logging.EventType = "lifecycle.phase_change"
	// EventPlayerDisconnected is emitted when a session drops.
	EventPlayerDisconnected logging.EventType = "lifecycle.player_disconnected"
	// EventResultPersisted is emitted after the result sink accepts (or rejects) a finished match record.
	EventResultPersisted logging.EventType = "lifecycle.result_persisted"
)

// PlayerJoinedPayload captures room-membership metadata for a new session.
type PlayerJoinedPayload struct {
	Side        string `json:"side"`
	DisplayName string `json:"displayName"`
}

// PlayerReadyPayload records a readiness declaration.
type PlayerReadyPayload struct {
	Side string `json:"side"`
}

// CountdownTickPayload reports the remaining countdown seconds.
type CountdownTickPayload struct {
	Countdown int `json:"countdown"`
}

// PhaseChangePayload describes a room lifecycle transition.
type PhaseChangePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	WinnerID  string `json:"winnerId,omitempty"`
	WinReason string `json:"winReason,omitempty"`
}

// PlayerDisconnectedPayload captures the reason a player's session closed.
type PlayerDisconnectedPayload struct {
	Side   string `json:"side"`
	Reason string `json:"reason"`
}

// ResultPersistedPayload reports whether the post-match sink call succeeded.
type ResultPersistedPayload struct {
	Err string `json:"err,omitempty"`
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}

// PlayerJoined publishes a room-join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerJoinedPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerJoined, tick, actor, payload, extra)
}

// PlayerReady publishes a readiness event.
func PlayerReady(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerReadyPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerReady, tick, actor, payload, extra)
}

// CountdownTick publishes a per-second countdown event.
func CountdownTick(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CountdownTickPayload, extra map[string]any) {
	publish(ctx, pub, EventCountdownTick, tick, actor, payload, extra)
}

// PhaseChange publishes a room phase transition event.
func PhaseChange(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PhaseChangePayload, extra map[string]any) {
	publish(ctx, pub, EventPhaseChange, tick, actor, payload, extra)
}

// PlayerDisconnected publishes a disconnect event.
func PlayerDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDisconnectedPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerDisconnected, tick, actor, payload, extra)
}

// ResultPersisted publishes the outcome of the post-match sink call.
func ResultPersisted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ResultPersistedPayload, extra map[string]any) {
	severity := logging.SeverityInfo
	if payload.Err != "" {
		severity = logging.SeverityError
	}
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventResultPersisted,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}
