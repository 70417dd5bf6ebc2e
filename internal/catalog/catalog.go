// Package catalog exposes the read-only unit definition table used by the
// room orchestrator and combat simulator. Definitions are loaded once from
// an embedded JSON file, the way the teacher repo embeds its effect
// catalog in effect_catalog_snapshot.go.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed data/units.json
var dataFS embed.FS

// Rarity is the drop-tier of a unit definition; it also drives the default
// spawn cooldown when a definition omits one.
type Rarity string

const (
	RarityN   Rarity = "N"
	RarityR   Rarity = "R"
	RaritySR  Rarity = "SR"
	RaritySSR Rarity = "SSR"
	RarityUR  Rarity = "UR"
)

// defaultSpawnCooldownMs maps rarity to the cooldown used when a
// definition does not specify SpawnCooldownMs explicitly.
var defaultSpawnCooldownMs = map[Rarity]int{
	RarityN:   2000,
	RarityR:   4000,
	RaritySR:  6000,
	RaritySSR: 8000,
	RarityUR:  10000,
}

const fallbackSpawnCooldownMs = 3000

// UnitDefinition is an immutable catalog entry describing one unit type.
type UnitDefinition struct {
	ID               string  `json:"id"`
	Rarity           Rarity  `json:"rarity"`
	Cost             int     `json:"cost"`
	MaxHP            float64 `json:"maxHp"`
	Speed            float64 `json:"speed"`
	AttackDamage     float64 `json:"attackDamage"`
	AttackRange      float64 `json:"attackRange"`
	AttackCooldownMs int     `json:"attackCooldownMs"`
	AttackWindupMs   int     `json:"attackWindupMs"`
	SpawnCooldownMs  int     `json:"spawnCooldownMs,omitempty"`
	Knockback        float64 `json:"knockback"`
	IsBoss           bool    `json:"isBoss"`
	Scale            float64 `json:"scale,omitempty"`
}

// EffectiveSpawnCooldownMs returns the definition's configured cooldown, or
// the rarity-derived default when unset.
func (d UnitDefinition) EffectiveSpawnCooldownMs() int {
	if d.SpawnCooldownMs > 0 {
		return d.SpawnCooldownMs
	}
	if ms, ok := defaultSpawnCooldownMs[d.Rarity]; ok {
		return ms
	}
	return fallbackSpawnCooldownMs
}

// EffectiveScale returns the definition's width multiplier, defaulting to
// 1.0 when unset.
func (d UnitDefinition) EffectiveScale() float64 {
	if d.Scale <= 0 {
		return 1.0
	}
	return d.Scale
}

// Width returns the unit's footprint on the lane: 60px times its scale.
const BaseWidth = 60.0

func (d UnitDefinition) Width() float64 {
	return BaseWidth * d.EffectiveScale()
}

// Catalog is a read-only, process-wide lookup table of unit definitions.
type Catalog struct {
	byID map[string]UnitDefinition
}

// Load parses the embedded unit table. It panics on malformed embedded
// data since that indicates a build-time defect, not a runtime condition.
func Load() *Catalog {
	raw, err := dataFS.ReadFile("data/units.json")
	if err != nil {
		panic(fmt.Errorf("catalog: read embedded units: %w", err))
	}
	var defs []UnitDefinition
	if err := json.Unmarshal(raw, &defs); err != nil {
		panic(fmt.Errorf("catalog: parse embedded units: %w", err))
	}
	return FromDefinitions(defs)
}

// FromDefinitions builds a Catalog from an explicit slice, primarily for
// tests that want a small, deterministic unit table.
func FromDefinitions(defs []UnitDefinition) *Catalog {
	byID := make(map[string]UnitDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Catalog{byID: byID}
}

// Lookup returns the definition for id, or false if unknown.
func (c *Catalog) Lookup(id string) (UnitDefinition, bool) {
	if c == nil {
		return UnitDefinition{}, false
	}
	def, ok := c.byID[id]
	return def, ok
}

// IsValid reports whether id names a known unit definition.
func (c *Catalog) IsValid(id string) bool {
	_, ok := c.Lookup(id)
	return ok
}
