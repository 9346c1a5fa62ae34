package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"truco-game/internal/config"
	"truco-game/internal/game"
	"truco-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // e.g. "join_game", "play_card"
	Payload json.RawMessage `json:"payload,omitempty"` // Decoded according to Type
}

// --- Client -> Server Payload Structs ---

type CreateGamePayload struct {
	Name   string `json:"name"`
	Preset string `json:"preset"`
}

type JoinGamePayload struct {
	Name     string `json:"name"`
	GameCode string `json:"game_code"`
}

type PlayCardPayload struct {
	CardID string `json:"card_id"`
}

type CallTrucoPayload struct {
	Call shared.TrucoCall `json:"call"`
}

// --- Server -> Client Payload Structs ---

type GameCreatedPayload struct {
	GameCode string            `json:"game_code"`
	Preset   string            `json:"preset"`
	Config   config.GameConfig `json:"config"`
}

type JoinedPayload struct {
	GameCode string `json:"game_code"`
	PlayerID string `json:"player_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type EventPayload struct {
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
}

// OpponentView is what a player may see of another seat.
type OpponentView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HandSize  int    `json:"hand_size"`
	Score     int    `json:"score"`
	IsReady   bool   `json:"is_ready"`
	IsActive  bool   `json:"is_active"`
	TricksWon int    `json:"tricks_won"`
}

type StatePayload struct {
	GameID             string         `json:"game_id"`
	Phase              game.Phase     `json:"phase"`
	Hand               []shared.Card  `json:"hand"`
	Players            []OpponentView `json:"players"`
	Teams              []*shared.Team `json:"teams,omitempty"`
	CurrentRound       *shared.Round  `json:"current_round,omitempty"`
	CurrentPlayerIndex int            `json:"current_player_index"`
	MaxScore           int            `json:"max_score"`
}

// actionTypes maps client message types onto engine actions.
var actionTypes = map[string]game.ActionType{
	"leave_game":   game.ActionLeaveGame,
	"ready":        game.ActionReadyPlayer,
	"start_game":   game.ActionStartGame,
	"play_card":    game.ActionPlayCard,
	"call_truco":   game.ActionCallTruco,
	"accept_truco": game.ActionAcceptTruco,
	"reject_truco": game.ActionRejectTruco,
}

// IsGameAction reports whether msgType is forwarded to an engine.
func IsGameAction(msgType string) bool {
	_, ok := actionTypes[msgType]
	return ok
}

// ToAction converts a client message into an engine action for playerID.
func ToAction(playerID string, msg Message) (game.Action, error) {
	actionType, ok := actionTypes[msg.Type]
	if !ok {
		return game.Action{}, fmt.Errorf("unknown action message %q", msg.Type)
	}
	action := game.Action{Type: actionType, PlayerID: playerID}

	switch actionType {
	case game.ActionPlayCard:
		var p PlayCardPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return game.Action{}, fmt.Errorf("invalid play_card payload: %w", err)
		}
		action.CardID = p.CardID
	case game.ActionCallTruco:
		var p CallTrucoPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return game.Action{}, fmt.Errorf("invalid call_truco payload: %w", err)
		}
		action.Call = p.Call
	}
	return action, nil
}

// NewEventMessage wraps an engine event for the wire.
func NewEventMessage(ev game.Event) ([]byte, error) {
	return NewMessage(string(ev.Type), EventPayload{
		Payload:   ev.Payload,
		Timestamp: ev.Timestamp,
		PlayerID:  ev.PlayerID,
	})
}

// NewStateMessage builds the state a single player is allowed to see.
func NewStateMessage(state game.GameState, viewerID string) ([]byte, error) {
	payload := StatePayload{
		GameID:             state.ID,
		Phase:              state.Phase,
		Hand:               []shared.Card{},
		Teams:              state.Teams,
		CurrentRound:       state.CurrentRound,
		CurrentPlayerIndex: state.CurrentPlayerIndex,
		MaxScore:           state.MaxScore,
	}
	for _, p := range state.Players {
		if p.ID == viewerID {
			payload.Hand = p.Hand
		}
		payload.Players = append(payload.Players, OpponentView{
			ID:        p.ID,
			Name:      p.Name,
			HandSize:  len(p.Hand),
			Score:     p.Score,
			IsReady:   p.IsReady,
			IsActive:  p.IsActive,
			TricksWon: p.TricksWon,
		})
	}
	return NewMessage("state", payload)
}

// NewMessage marshals a typed payload into a Message.
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: payloadBytes})
}
