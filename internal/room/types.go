// Package room implements the match lifecycle orchestrator: membership,
// readiness, countdown, tick pacing, command validation, broadcast
// fan-out, disconnect handling and result emission described in spec §4.D.
// A Room is a single serial actor — every mutation happens on its own
// goroutine, started by Run, driven by a channel of typed commands.
package room

import (
	"time"

	"castlerush/internal/combat"
	"castlerush/internal/resource"
)

// Phase is a room's position in its lifecycle state machine.
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseCountdown Phase = "countdown"
	PhasePlaying   Phase = "playing"
	PhaseFinished  Phase = "finished"
)

const (
	maxPlayers      = 2
	maxDeckSize     = 7
	countdownFrom   = 3
	defaultCastleHP = 5000.0
	tickInterval    = 50 * time.Millisecond
	countdownPeriod = 1 * time.Second
)

// Player is one session's membership and match state within a room.
type Player struct {
	SessionID        string
	ExternalPlayerID string
	DisplayName      string
	Side             combat.Side
	Ready            bool
	Deck             []string
	SpawnCooldowns   map[string]float64
	CastleHP         float64
	MaxCastleHP      float64
	Kills            int

	resource.State
}

// newPlayer constructs a Player seeded with the starting resource state and
// full castle health.
func newPlayer(sessionID, externalID, displayName string, side combat.Side, deck []string) *Player {
	p := &Player{
		SessionID:        sessionID,
		ExternalPlayerID: externalID,
		DisplayName:      displayName,
		Side:             side,
		Deck:             deck,
		SpawnCooldowns:   make(map[string]float64, len(deck)),
		CastleHP:         defaultCastleHP,
		MaxCastleHP:      defaultCastleHP,
	}
	p.State.Initialize()
	return p
}

// deckContains reports whether unitID appears in the player's deck.
func (p *Player) deckContains(unitID string) bool {
	for _, id := range p.Deck {
		if id == unitID {
			return true
		}
	}
	return false
}

// opponentSide returns the other side.
func opponentSide(side combat.Side) combat.Side {
	return side.Opposite()
}
