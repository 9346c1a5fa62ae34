package game

import "fmt"

// ErrorCode is the stable identifier carried by every game_error event.
type ErrorCode string

const (
	CodeGameInProgress      ErrorCode = "GAME_IN_PROGRESS"
	CodeGameFull            ErrorCode = "GAME_FULL"
	CodePlayerExists        ErrorCode = "PLAYER_EXISTS"
	CodePlayerNotFound      ErrorCode = "PLAYER_NOT_FOUND"
	CodeNotEnoughPlayers    ErrorCode = "NOT_ENOUGH_PLAYERS"
	CodePlayersNotReady     ErrorCode = "PLAYERS_NOT_READY"
	CodeInvalidPhase        ErrorCode = "INVALID_PHASE"
	CodeNotYourTurn         ErrorCode = "NOT_YOUR_TURN"
	CodeInvalidCard         ErrorCode = "INVALID_CARD"
	CodeNoActiveTrick       ErrorCode = "NO_ACTIVE_TRICK"
	CodeNoActiveRound       ErrorCode = "NO_ACTIVE_ROUND"
	CodeInvalidTrucoCall    ErrorCode = "INVALID_TRUCO_CALL"
	CodeNoPendingTruco      ErrorCode = "NO_PENDING_TRUCO"
	CodeCannotAnswerOwnCall ErrorCode = "CANNOT_ANSWER_OWN_CALL"
	CodeInvalidAction       ErrorCode = "INVALID_ACTION"
	CodeDealFailed          ErrorCode = "DEAL_FAILED"
	CodeEngineClosed        ErrorCode = "ENGINE_CLOSED"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Error is a rejected action. The state is left as it was before the action.
type Error struct {
	Code     ErrorCode
	Message  string
	PlayerID string
}

func (e *Error) Error() string {
	if e.PlayerID == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (player %s)", e.Code, e.Message, e.PlayerID)
}

func newError(code ErrorCode, playerID, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), PlayerID: playerID}
}
