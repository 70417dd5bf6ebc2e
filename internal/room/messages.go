package room

import "castlerush/internal/combat"

// Sender is the transport-facing half of a joined session: the room calls
// Send for both unicast (errors, join acks) and broadcast messages. The
// transport adapter (internal/net/ws) implements this over a single
// websocket connection.
type Sender interface {
	Send(message any)
}

type playerJoinedMessage struct {
	Type             string   `json:"type"`
	SessionID        string   `json:"sessionId"`
	ExternalPlayerID string   `json:"externalPlayerId"`
	DisplayName      string   `json:"displayName"`
	Cost             int      `json:"cost"`
	MaxCost          int      `json:"maxCost"`
	CostLevel        int      `json:"costLevel"`
	CastleHP         float64  `json:"castleHp"`
	MaxCastleHP      float64  `json:"maxCastleHp"`
	Ready            bool     `json:"ready"`
	Deck             []string `json:"deck"`
}

type playerView struct {
	SessionID        string      `json:"sessionId"`
	ExternalPlayerID string      `json:"externalPlayerId"`
	DisplayName      string      `json:"displayName"`
	Side             combat.Side `json:"side"`
	Cost             int         `json:"cost"`
	MaxCost          int         `json:"maxCost"`
	CostLevel        int         `json:"costLevel"`
	CastleHP         float64     `json:"castleHp"`
	MaxCastleHP      float64     `json:"maxCastleHp"`
	Ready            bool        `json:"ready"`
	Deck             []string    `json:"deck"`
}

type allPlayersMessage struct {
	Type    string       `json:"type"`
	Players []playerView `json:"players"`
}

type unitSpawnedMessage struct {
	Type         string      `json:"type"`
	InstanceID   string      `json:"instanceId"`
	DefinitionID string      `json:"definitionId"`
	Side         combat.Side `json:"side"`
	X            float64     `json:"x"`
	HP           float64     `json:"hp"`
	MaxHP        float64     `json:"maxHp"`
	State        string      `json:"state"`
	StateTimer   float64     `json:"stateTimer"`
	TargetID     string      `json:"targetId"`
}

type unitView struct {
	InstanceID   string      `json:"instanceId"`
	DefinitionID string      `json:"definitionId"`
	Side         combat.Side `json:"side"`
	X            float64     `json:"x"`
	HP           float64     `json:"hp"`
	MaxHP        float64     `json:"maxHp"`
	State        string      `json:"state"`
	StateTimer   float64     `json:"stateTimer"`
	TargetID     string      `json:"targetId"`
}

type unitsSyncMessage struct {
	Type  string     `json:"type"`
	Units []unitView `json:"units"`
}

type playerSyncView struct {
	SessionID   string  `json:"sessionId"`
	Cost        int     `json:"cost"`
	MaxCost     int     `json:"maxCost"`
	CostLevel   int     `json:"costLevel"`
	CastleHP    float64 `json:"castleHp"`
	MaxCastleHP float64 `json:"maxCastleHp"`
}

type playersSyncMessage struct {
	Type    string           `json:"type"`
	Players []playerSyncView `json:"players"`
}

type phaseChangeMessage struct {
	Type      string `json:"type"`
	Phase     Phase  `json:"phase"`
	WinnerID  string `json:"winnerId,omitempty"`
	WinReason string `json:"winReason,omitempty"`
}

type countdownUpdateMessage struct {
	Type      string `json:"type"`
	Countdown int    `json:"countdown"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toPlayerView(p *Player) playerView {
	return playerView{
		SessionID:        p.SessionID,
		ExternalPlayerID: p.ExternalPlayerID,
		DisplayName:      p.DisplayName,
		Side:             p.Side,
		Cost:             p.Cost(),
		MaxCost:          p.MaxCost(),
		CostLevel:        p.Level(),
		CastleHP:         p.CastleHP,
		MaxCastleHP:      p.MaxCastleHP,
		Ready:            p.Ready,
		Deck:             p.Deck,
	}
}

func toPlayerSyncView(p *Player) playerSyncView {
	return playerSyncView{
		SessionID:   p.SessionID,
		Cost:        p.Cost(),
		MaxCost:     p.MaxCost(),
		CostLevel:   p.Level(),
		CastleHP:    p.CastleHP,
		MaxCastleHP: p.MaxCastleHP,
	}
}

func toUnitView(u combat.Unit) unitView {
	return unitView{
		InstanceID:   u.InstanceID,
		DefinitionID: u.DefinitionID,
		Side:         u.Side,
		X:            u.X,
		HP:           u.HP,
		MaxHP:        u.MaxHP,
		State:        string(u.State),
		StateTimer:   u.StateTimerMs,
		TargetID:     u.TargetID,
	}
}

func toUnitSpawnedMessage(u combat.Unit) unitSpawnedMessage {
	return unitSpawnedMessage{
		Type:         "unit_spawned",
		InstanceID:   u.InstanceID,
		DefinitionID: u.DefinitionID,
		Side:         u.Side,
		X:            u.X,
		HP:           u.HP,
		MaxHP:        u.MaxHP,
		State:        string(u.State),
		StateTimer:   u.StateTimerMs,
		TargetID:     u.TargetID,
	}
}
