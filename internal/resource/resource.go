// Package resource implements the per-player regenerating cost pool and its
// tiered maximum-capacity upgrades. It is a standalone, allocation-free
// package with no knowledge of rooms, players, or the wire protocol, tested
// in isolation the way the teacher's internal/combat package is tested
// against internal/world.
package resource

// maxLevels holds the maximum resource pool at each cost level, indexed by
// level-1.
var maxLevels = [8]int{1000, 2500, 4500, 7000, 10000, 15000, 25000, 99999}

// upgradeCosts holds the resource spend required to upgrade away from each
// level, indexed by level-1. There is no entry for level 8: it is the cap.
var upgradeCosts = [7]int{500, 1200, 2500, 4500, 8000, 12000, 20000}

// regenRates holds the resource regenerated per second at each level,
// indexed by level-1.
var regenRates = [8]float64{100, 150, 250, 400, 600, 900, 1500, 2500}

const (
	// MinLevel and MaxLevel bound costLevel.
	MinLevel = 1
	MaxLevel = 8

	initialCost  = 200
	initialLevel = MinLevel
)

// State is the regenerating resource pool belonging to one player. Cost is
// tracked as a fractional accumulator internally (regen ticks add
// sub-integer amounts every 50ms) but every comparison and spend operates
// on the floored integer value, per the floating-point guidance in the
// design notes: never let accumulated fractional regen round a player into
// affording something they have not actually earned.
type State struct {
	costFrac float64
	maxCost  int
	level    int
}

// Initialize resets State to the starting values: cost 200, level 1,
// maxCost 1000.
func (s *State) Initialize() {
	s.costFrac = initialCost
	s.level = initialLevel
	s.maxCost = maxLevels[initialLevel-1]
}

// Cost returns the current resource pool, floored to an integer.
func (s *State) Cost() int {
	return int(s.costFrac)
}

// MaxCost returns the current maximum resource pool for the player's level.
func (s *State) MaxCost() int {
	return s.maxCost
}

// Level returns the current cost level, in [MinLevel, MaxLevel].
func (s *State) Level() int {
	return s.level
}

// Update advances the resource pool by the regeneration owed over dtMs
// milliseconds. A zero or negative delta is a no-op.
func (s *State) Update(dtMs float64) {
	if dtMs <= 0 {
		return
	}
	rate := regenRates[s.level-1]
	s.costFrac += rate * dtMs / 1000
	if max := float64(s.maxCost); s.costFrac > max {
		s.costFrac = max
	}
}

// CanAfford reports whether the floored resource pool covers amount.
func (s *State) CanAfford(amount int) bool {
	return s.Cost() >= amount
}

// Spend deducts amount if affordable and reports success. On failure the
// pool is left untouched.
func (s *State) Spend(amount int) bool {
	if !s.CanAfford(amount) {
		return false
	}
	s.costFrac -= float64(amount)
	return true
}

// Refund credits amount back to the pool, clamped to maxCost. Used when a
// spend must be reverted after a downstream failure (see the room
// orchestrator's spawn-failure refund policy).
func (s *State) Refund(amount int) {
	s.costFrac += float64(amount)
	if max := float64(s.maxCost); s.costFrac > max {
		s.costFrac = max
	}
}

// CanUpgrade reports whether the player may upgrade: below the level cap
// and holding enough resource.
func (s *State) CanUpgrade() bool {
	if s.level >= MaxLevel {
		return false
	}
	return s.Cost() >= upgradeCosts[s.level-1]
}

// Upgrade spends the upgrade cost for the current level, advances to the
// next level, and raises maxCost accordingly. No-op if CanUpgrade is
// false.
func (s *State) Upgrade() bool {
	if !s.CanUpgrade() {
		return false
	}
	cost := upgradeCosts[s.level-1]
	s.costFrac -= float64(cost)
	s.level++
	s.maxCost = maxLevels[s.level-1]
	return true
}
