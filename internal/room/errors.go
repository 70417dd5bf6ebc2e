package room

// Error codes sent to the offending client only, per spec §7. Every
// validation failure in the orchestrator takes this shape rather than
// panicking, the way the teacher's command pipeline returns a
// (bool, reason) pair instead of raising.
const (
	CodeWrongPhase       = "GAME_NOT_PLAYING"
	CodeInvalidUnit      = "INVALID_UNIT"
	CodeUnitNotInDeck    = "UNIT_NOT_IN_DECK"
	CodeCooldown         = "COOLDOWN"
	CodeInsufficientCost = "INSUFFICIENT_COST"
	CodeSpawnFailed      = "SPAWN_FAILED"
	CodeCannotUpgrade    = "CANNOT_UPGRADE"
	CodeRoomFull         = "ROOM_FULL"
	CodeUnknownSession   = "UNKNOWN_SESSION"
)

// CommandError is returned by every rejected command and carries the
// wire-visible error{code, message} payload.
type CommandError struct {
	Code    string
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func newCommandError(code, message string) *CommandError {
	return &CommandError{Code: code, Message: message}
}
