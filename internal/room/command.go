package room

import "time"

// CommandType enumerates every client-originated intent a Room's serial
// goroutine accepts — the same typed-command-sum shape as the teacher's
// internal/sim.Command. The tick pump and countdown timer are not commands
// of this type: they are separate cases in the same select loop Run runs,
// so they still serialize against every command below without needing a
// shared channel.
type CommandType string

const (
	CommandJoin        CommandType = "Join"
	CommandReady       CommandType = "Ready"
	CommandSummon      CommandType = "Summon"
	CommandUpgradeCost CommandType = "UpgradeCost"
	CommandVoteSpeed   CommandType = "VoteSpeed"
	CommandLeave       CommandType = "Leave"
)

// JoinPayload carries a new session's join options (spec §6's implicit
// connect message) plus the transport-facing Sender it will be broadcast
// through.
type JoinPayload struct {
	SessionID        string
	ExternalPlayerID string
	DisplayName      string
	Deck             []string
	Sender           Sender
}

// SummonPayload names the unit a player is attempting to spawn.
type SummonPayload struct {
	UnitID string
}

// VoteSpeedPayload carries the optional game-speed vote extension (§9 open
// question 3); unused unless a client sends vote_speed.
type VoteSpeedPayload struct {
	Speed int
}

// command is one entry in the room's serial queue.
type command struct {
	Type      CommandType
	SessionID string
	IssuedAt  time.Time
	Join      *JoinPayload
	Summon    *SummonPayload
	VoteSpeed *VoteSpeedPayload
	DeltaMs   float64
	reply     chan any
}

type joinResult struct {
	View playerView
	Err  error
}
