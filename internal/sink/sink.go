// Package sink defines the boundary between a finished match and whatever
// external system persists it. The room orchestrator depends only on the
// Sink interface; persistence itself is out of scope for this server.
package sink

import "context"

// Record is the exact wire shape a post-match persistence call receives.
type Record struct {
	Player1ID       string   `json:"player1_id"`
	Player2ID       string   `json:"player2_id"`
	Player1Name     string   `json:"player1_name"`
	Player2Name     string   `json:"player2_name"`
	Player1Deck     []string `json:"player1_deck"`
	Player2Deck     []string `json:"player2_deck"`
	WinnerPlayerNum int      `json:"winner_player_num"`
	Player1CastleHP float64  `json:"player1_castle_hp"`
	Player2CastleHP float64  `json:"player2_castle_hp"`
	Player1Kills    int      `json:"player1_kills"`
	Player2Kills    int      `json:"player2_kills"`
	BattleDuration  int      `json:"battle_duration"`
	WinReason       string   `json:"win_reason"`
}

// Sink persists a finished match's record. Implementations must not block
// the caller for long; the room calls Persist asynchronously and only logs
// a returned error.
type Sink interface {
	Persist(ctx context.Context, record Record) error
}

// Func adapts a plain function into a Sink.
type Func func(ctx context.Context, record Record) error

func (f Func) Persist(ctx context.Context, record Record) error {
	return f(ctx, record)
}
