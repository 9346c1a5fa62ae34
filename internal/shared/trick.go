package shared

import (
	"time"

	"github.com/google/uuid"
)

// PlayedCard records a card along with who played it and when.
type PlayedCard struct {
	Card      Card      `json:"card"`
	PlayerID  string    `json:"player_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Trick is one card from each player; the strongest card wins it.
type Trick struct {
	ID          string       `json:"id"`
	Number      int          `json:"number"`
	CardsPlayed []PlayedCard `json:"cards_played"`
	Winner      string       `json:"winner,omitempty"` // Empty until the trick completes
	IsComplete  bool         `json:"is_complete"`
}

// NewTrick creates an empty trick.
func NewTrick(number int) *Trick {
	return &Trick{
		ID:          uuid.NewString(),
		Number:      number,
		CardsPlayed: []PlayedCard{},
	}
}

// AddCard appends a play to the trick.
func (t *Trick) AddCard(card Card, playerID string, at time.Time) {
	t.CardsPlayed = append(t.CardsPlayed, PlayedCard{Card: card, PlayerID: playerID, Timestamp: at})
}

// HasPlayed reports whether playerID already has a card in the trick.
func (t *Trick) HasPlayed(playerID string) bool {
	for _, pc := range t.CardsPlayed {
		if pc.PlayerID == playerID {
			return true
		}
	}
	return false
}

// DetermineWinner marks the trick complete and returns the winning play.
func (t *Trick) DetermineWinner() *PlayedCard {
	return t.DetermineWinnerAmong(nil)
}

// DetermineWinnerAmong is DetermineWinner counting only plays by players
// that seated accepts. A nil seated accepts every play.
func (t *Trick) DetermineWinnerAmong(seated func(playerID string) bool) *PlayedCard {
	plays := t.CardsPlayed
	if seated != nil {
		plays = nil
		for _, pc := range t.CardsPlayed {
			if seated(pc.PlayerID) {
				plays = append(plays, pc)
			}
		}
	}
	winning := FindWinningCard(plays)
	if winning == nil {
		return nil
	}
	t.Winner = winning.PlayerID
	t.IsComplete = true
	return winning
}

// Clone returns a copy that shares nothing with t.
func (t *Trick) Clone() *Trick {
	c := *t
	c.CardsPlayed = append([]PlayedCard(nil), t.CardsPlayed...)
	return &c
}
