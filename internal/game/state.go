package game

import (
	"time"

	"truco-game/internal/shared"
)

// Phase is the stage of the game's state machine.
type Phase string

const (
	PhaseWaiting  Phase = "WAITING"   // Players are joining
	PhaseDealing  Phase = "DEALING"   // Cards are being dealt
	PhasePlaying  Phase = "PLAYING"   // Tricks are being played
	PhaseRoundEnd Phase = "ROUND_END" // Round scored, next one pending
	PhaseGameEnd  Phase = "GAME_END"  // Terminal
)

// GameState is the single authoritative aggregate an Engine owns.
type GameState struct {
	ID                 string           `json:"id"`
	Phase              Phase            `json:"phase"`
	Players            []*shared.Player `json:"players"`
	Teams              []*shared.Team   `json:"teams,omitempty"`
	Deck               []shared.Card    `json:"deck"` // Undealt cards
	CurrentRound       *shared.Round    `json:"current_round,omitempty"`
	Rounds             []*shared.Round  `json:"rounds"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	MaxScore           int              `json:"max_score"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Clone returns a deep copy. CurrentRound in the copy points into the copied Rounds.
func (s *GameState) Clone() GameState {
	c := *s
	c.Players = make([]*shared.Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.Clone()
	}
	if s.Teams != nil {
		c.Teams = make([]*shared.Team, len(s.Teams))
		for i, t := range s.Teams {
			c.Teams[i] = t.Clone()
		}
	}
	c.Deck = append([]shared.Card(nil), s.Deck...)
	c.Rounds = make([]*shared.Round, len(s.Rounds))
	c.CurrentRound = nil
	for i, r := range s.Rounds {
		c.Rounds[i] = r.Clone()
		if r == s.CurrentRound {
			c.CurrentRound = c.Rounds[i]
		}
	}
	if s.CurrentRound != nil && c.CurrentRound == nil {
		c.CurrentRound = s.CurrentRound.Clone()
	}
	return c
}

// PlayerIndex returns the seat of playerID, or -1.
func (s *GameState) PlayerIndex(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Player returns the player with the given ID, or nil.
func (s *GameState) Player(playerID string) *shared.Player {
	if i := s.PlayerIndex(playerID); i >= 0 {
		return s.Players[i]
	}
	return nil
}

// ActivePlayer returns the player who must act next, or nil.
func (s *GameState) ActivePlayer() *shared.Player {
	for _, p := range s.Players {
		if p.IsActive {
			return p
		}
	}
	return nil
}

func (s *GameState) scores() []ScoreEntry {
	out := make([]ScoreEntry, len(s.Players))
	for i, p := range s.Players {
		out[i] = ScoreEntry{PlayerID: p.ID, Name: p.Name, Score: p.Score}
	}
	return out
}
