package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"truco-game/internal/database"
	"truco-game/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	results []database.GameResult
}

func (f *fakeStore) Insert(r database.GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return nil
}

func (f *fakeStore) GetAll() ([]database.GameResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results, nil
}

func (f *fakeStore) GetByPlayer(name string) ([]database.GameResult, error) {
	return nil, nil
}

func newTestClient(h *Hub) *Client {
	c := newClient(h, nil)
	h.addClient(c)
	return c
}

// drain returns every queued message for c.
func drain(t *testing.T, c *Client) []protocol.Message {
	t.Helper()
	var msgs []protocol.Message
	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				return msgs
			}
			var m protocol.Message
			require.NoError(t, json.Unmarshal(raw, &m))
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func find(msgs []protocol.Message, msgType string) (protocol.Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i], true
		}
	}
	return protocol.Message{}, false
}

func send(h *Hub, c *Client, msgType string, payload any) {
	raw, _ := json.Marshal(payload)
	if payload == nil {
		raw = nil
	}
	h.handleMessage(c, protocol.Message{Type: msgType, Payload: raw})
}

func TestHubGameFlow(t *testing.T) {
	store := &fakeStore{}
	h := NewHub(store, "quick", time.Hour)

	host := newTestClient(h)
	send(h, host, "create_game", protocol.CreateGamePayload{Name: "Ana"})
	msgs := drain(t, host)

	created, ok := find(msgs, "game_created")
	require.True(t, ok)
	var cp protocol.GameCreatedPayload
	require.NoError(t, json.Unmarshal(created.Payload, &cp))
	assert.Equal(t, "quick", cp.Preset)
	assert.Len(t, cp.GameCode, gameCodeLength)
	_, ok = find(msgs, "player_joined")
	assert.True(t, ok)

	guest := newTestClient(h)
	send(h, guest, "join_game", protocol.JoinGamePayload{Name: "Beto", GameCode: cp.GameCode})
	_, ok = find(drain(t, guest), "joined")
	require.True(t, ok)

	third := newTestClient(h)
	send(h, third, "join_game", protocol.JoinGamePayload{Name: "Caio", GameCode: cp.GameCode})
	_, ok = find(drain(t, third), "join_error")
	assert.True(t, ok, "quick preset seats two")

	send(h, host, "ready", nil)
	send(h, guest, "ready", nil)
	send(h, host, "start_game", nil)

	stateMsg, ok := find(drain(t, host), "state")
	require.True(t, ok)
	var state protocol.StatePayload
	require.NoError(t, json.Unmarshal(stateMsg.Payload, &state))
	assert.Equal(t, "PLAYING", string(state.Phase))
	assert.Len(t, state.Hand, 3)
	drain(t, guest)

	send(h, guest, "play_card", protocol.PlayCardPayload{CardID: "nope"})
	assert.Empty(t, drain(t, host), "errors only reach the offending player")
	errMsg, ok := find(drain(t, guest), "game_error")
	require.True(t, ok)
	assert.Contains(t, string(errMsg.Payload), "NOT_YOUR_TURN")

	h.removeClient(guest)
	ended, ok := find(drain(t, host), "game_ended")
	require.True(t, ok)
	assert.Contains(t, string(ended.Payload), "Not enough players")

	require.Len(t, store.results, 1)
	result := store.results[0]
	assert.Equal(t, cp.GameCode, result.GameCode)
	assert.Equal(t, host.ID, result.WinnerID)
	assert.Equal(t, "Ana", result.WinnerName)
	require.Len(t, result.Players, 1)

	h.removeClient(host)
	h.mu.RLock()
	assert.Empty(t, h.tables)
	h.mu.RUnlock()
}

func TestHubRejectsUnknownMessages(t *testing.T) {
	h := NewHub(nil, "default", time.Hour)
	c := newTestClient(h)

	send(h, c, "declare", nil)
	_, ok := find(drain(t, c), "error")
	assert.True(t, ok)

	send(h, c, "play_card", protocol.PlayCardPayload{CardID: "3-hearts"})
	_, ok = find(drain(t, c), "error")
	assert.True(t, ok, "not seated")

	send(h, c, "join_game", protocol.JoinGamePayload{Name: "Ana", GameCode: "ZZZZZ"})
	_, ok = find(drain(t, c), "join_error")
	assert.True(t, ok)

	send(h, c, "ping", nil)
	_, ok = find(drain(t, c), "pong")
	assert.True(t, ok)
}

func TestRoutes(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.Insert(database.GameResult{ID: "r1", WinnerName: "Ana"}))
	mux := http.NewServeMux()
	HandleRoutes(mux, store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"r1"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/presets", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bridge"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results/player/Nobody", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
