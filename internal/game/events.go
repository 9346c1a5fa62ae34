package game

import (
	"time"

	"truco-game/internal/shared"
)

// EventType names an entry in the engine's event stream.
type EventType string

const (
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerLeft         EventType = "player_left"
	EventPlayerReadyChanged EventType = "player_ready_changed"
	EventGameStarted        EventType = "game_started"
	EventRoundStarted       EventType = "round_started"
	EventTrickStarted       EventType = "trick_started"
	EventCardPlayed         EventType = "card_played"
	EventTrickCompleted     EventType = "trick_completed"
	EventRoundCompleted     EventType = "round_completed"
	EventGameEnded          EventType = "game_ended"
	EventTurnChanged        EventType = "turn_changed"
	EventTrucoCalled        EventType = "truco_called"
	EventTrucoAccepted      EventType = "truco_accepted"
	EventTrucoRejected      EventType = "truco_rejected"
	EventGameError          EventType = "game_error"
)

// Event is a single state change. Payload holds one of the *Payload structs below.
type Event struct {
	Type      EventType `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
}

// Listener receives events synchronously, in the order they happen.
type Listener func(Event)

// ListenerID is returned by AddListener and used to unsubscribe.
type ListenerID uint64

type PlayerJoinedPayload struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Seat        int    `json:"seat"`
	PlayerCount int    `json:"player_count"`
}

type PlayerLeftPayload struct {
	PlayerID    string `json:"player_id"`
	PlayerCount int    `json:"player_count"`
}

type PlayerReadyChangedPayload struct {
	PlayerID string `json:"player_id"`
	IsReady  bool   `json:"is_ready"`
}

type GameStartedPayload struct {
	PlayerIDs []string `json:"player_ids"`
	MaxScore  int      `json:"max_score"`
}

type RoundStartedPayload struct {
	RoundID     string `json:"round_id"`
	RoundNumber int    `json:"round_number"`
	HandSize    int    `json:"hand_size"`
}

type TrickStartedPayload struct {
	RoundNumber int    `json:"round_number"`
	TrickNumber int    `json:"trick_number"`
	LeaderID    string `json:"leader_id"`
}

type CardPlayedPayload struct {
	PlayerID    string      `json:"player_id"`
	Card        shared.Card `json:"card"`
	TrickNumber int         `json:"trick_number"`
}

type TrickCompletedPayload struct {
	TrickNumber int         `json:"trick_number"`
	WinnerID    string      `json:"winner_id"`
	WinningCard shared.Card `json:"winning_card"`
}

type TurnChangedPayload struct {
	PlayerID    string `json:"player_id"`
	PlayerIndex int    `json:"player_index"`
}

type ScoreEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

type RoundCompletedPayload struct {
	RoundNumber int            `json:"round_number"`
	WinnerID    string         `json:"winner_id,omitempty"`
	Points      int            `json:"points"`
	TrickWins   map[string]int `json:"trick_wins"`
	Scores      []ScoreEntry   `json:"scores"`
}

type GameEndedPayload struct {
	WinnerID    string         `json:"winner_id,omitempty"`
	FinalScores []ScoreEntry   `json:"final_scores"`
	Teams       []*shared.Team `json:"teams,omitempty"`
	Reason      string         `json:"reason,omitempty"`
}

type TrucoCalledPayload struct {
	Call     shared.TrucoCall `json:"call"`
	Value    int              `json:"value"`
	CalledBy string           `json:"called_by"`
}

type TrucoAnsweredPayload struct {
	Call       shared.TrucoCall `json:"call"`
	CalledBy   string           `json:"called_by"`
	AnsweredBy string           `json:"answered_by"`
}

type GameErrorPayload struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	PlayerID string    `json:"player_id,omitempty"`
}
