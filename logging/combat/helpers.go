package combat

import (
	"context"

	"castlerush/logging"
)

const (
	// EventUnitSpawned is emitted when a summon command produces a new unit.
	EventUnitSpawned logging.EventType = "combat.unit_spawned"
	// EventUnitDied is emitted when a unit's hp reaches zero.
	EventUnitDied logging.EventType = "combat.unit_died"
	// EventCastleDamaged is emitted when an attack resolves against a castle.
	EventCastleDamaged logging.EventType = "combat.castle_damaged"
	// EventUnitKnockedBack is emitted when accumulated damage crosses the knockback threshold.
	EventUnitKnockedBack logging.EventType = "combat.unit_knocked_back"
)

// UnitSpawnedPayload records where and for which side a unit entered the lane.
type UnitSpawnedPayload struct {
	DefinitionID string  `json:"definitionId"`
	Side         string  `json:"side"`
	X            float64 `json:"x"`
}

// UnitDiedPayload records the killer of a unit, if any.
type UnitDiedPayload struct {
	KillerInstanceID string `json:"killerInstanceId,omitempty"`
}

// CastleDamagedPayload records a single castle-damage resolution.
type CastleDamagedPayload struct {
	AttackerInstanceID string  `json:"attackerInstanceId"`
	CastleSide         string  `json:"castleSide"`
	Amount             float64 `json:"amount"`
	RemainingHP        float64 `json:"remainingHp"`
}

// UnitKnockedBackPayload records a knockback displacement.
type UnitKnockedBackPayload struct {
	NewX float64 `json:"newX"`
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, actor logging.EntityRef, targets []logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: severity,
		Category: "combat",
		Payload:  payload,
		Extra:    extra,
	})
}

// UnitSpawned publishes a spawn event.
func UnitSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload UnitSpawnedPayload, extra map[string]any) {
	publish(ctx, pub, EventUnitSpawned, logging.SeverityInfo, tick, actor, nil, payload, extra)
}

// UnitDied publishes a death event.
func UnitDied(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload UnitDiedPayload, extra map[string]any) {
	publish(ctx, pub, EventUnitDied, logging.SeverityInfo, tick, actor, nil, payload, extra)
}

// CastleDamaged publishes a castle-damage event.
func CastleDamaged(ctx context.Context, pub logging.Publisher, tick uint64, actor, castle logging.EntityRef, payload CastleDamagedPayload, extra map[string]any) {
	publish(ctx, pub, EventCastleDamaged, logging.SeverityInfo, tick, actor, []logging.EntityRef{castle}, payload, extra)
}

// UnitKnockedBack publishes a knockback event.
func UnitKnockedBack(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload UnitKnockedBackPayload, extra map[string]any) {
	publish(ctx, pub, EventUnitKnockedBack, logging.SeverityDebug, tick, actor, nil, payload, extra)
}
