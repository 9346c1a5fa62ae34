package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"truco-game/internal/game"
	"truco-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAction(t *testing.T) {
	card := shared.NewCard(shared.Clubs, shared.Rank3)
	raw, err := NewMessage("play_card", PlayCardPayload{CardID: card.ID})
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))

	action, err := ToAction("p1", msg)
	require.NoError(t, err)
	assert.Equal(t, game.Action{Type: game.ActionPlayCard, PlayerID: "p1", CardID: card.ID}, action)

	action, err = ToAction("p2", Message{Type: "call_truco", Payload: json.RawMessage(`{"call":"TRUCO"}`)})
	require.NoError(t, err)
	assert.Equal(t, shared.CallTruco, action.Call)

	action, err = ToAction("p2", Message{Type: "ready"})
	require.NoError(t, err)
	assert.Equal(t, game.ActionReadyPlayer, action.Type)
}

func TestToActionErrors(t *testing.T) {
	_, err := ToAction("p1", Message{Type: "declare"})
	assert.Error(t, err)

	_, err = ToAction("p1", Message{Type: "play_card", Payload: json.RawMessage(`{"card_id":`)})
	assert.Error(t, err)
	assert.False(t, IsGameAction("create_game"))
	assert.True(t, IsGameAction("reject_truco"))
}

func TestNewEventMessage(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	raw, err := NewEventMessage(game.Event{
		Type:      game.EventTurnChanged,
		Payload:   game.TurnChangedPayload{PlayerID: "p2", PlayerIndex: 1},
		Timestamp: ts,
		PlayerID:  "p2",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"turn_changed","payload":{"payload":{"player_id":"p2","player_index":1},"timestamp":"2024-01-01T00:00:00Z","player_id":"p2"}}`, string(raw))
}

func TestNewStateMessageHidesOtherHands(t *testing.T) {
	mine := []shared.Card{shared.NewCard(shared.Hearts, shared.RankA)}
	state := game.GameState{
		ID:    "g1",
		Phase: game.PhasePlaying,
		Players: []*shared.Player{
			{ID: "p1", Name: "Ana", Hand: mine, IsActive: true},
			{ID: "p2", Name: "Beto", Hand: []shared.Card{shared.NewCard(shared.Spades, shared.Rank3)}},
		},
		MaxScore: 15,
	}

	raw, err := NewStateMessage(state, "p1")
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "state", msg.Type)

	var payload StatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, mine, payload.Hand)
	require.Len(t, payload.Players, 2)
	assert.Equal(t, 1, payload.Players[1].HandSize)
	assert.NotContains(t, string(msg.Payload), "3-spades")
}
