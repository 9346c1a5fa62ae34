package database

import "time"

// GameResult is the record kept for every finished game.
type GameResult struct {
	ID         string         `json:"id"`
	GameCode   string         `json:"game_code"`
	CreatedAt  time.Time      `json:"created_at"`
	WinnerID   string         `json:"winner_id"`
	WinnerName string         `json:"winner_name"`
	Reason     string         `json:"reason,omitempty"`
	Rounds     int            `json:"rounds"`
	Players    []PlayerResult `json:"players"`
}

// PlayerResult is one seat's final score in a GameResult.
type PlayerResult struct {
	Seat       int    `json:"seat"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}
