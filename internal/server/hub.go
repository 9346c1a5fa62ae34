package server

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"truco-game/internal/config"
	"truco-game/internal/database"
	"truco-game/internal/game"
	"truco-game/internal/protocol"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const gameCodeLength = 5

// ResultWriter stores finished games.
type ResultWriter interface {
	Insert(result database.GameResult) error
}

// table is one engine plus the clients seated at it.
type table struct {
	code     string
	engine   *game.Engine
	mu       sync.RWMutex
	clients  map[string]*Client
	recorded bool
}

// Hub owns the connected clients and the running tables. All engine
// dispatches happen on the Run goroutine.
type Hub struct {
	clients        map[*Client]bool
	tables         map[string]*table
	clientToTable  map[*Client]string
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	mu             sync.RWMutex
	rng            *rand.Rand
	results        ResultWriter
	defaultPreset  string
	roundDelay     time.Duration
}

// NewHub creates a Hub. results may be nil when no store is configured.
func NewHub(results ResultWriter, defaultPreset string, roundDelay time.Duration) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		tables:         make(map[string]*table),
		clientToTable:  make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		results:        results,
		defaultPreset:  defaultPreset,
		roundDelay:     roundDelay,
	}
}

// generateGameCode creates a unique alphanumeric game code.
func (h *Hub) generateGameCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < gameCodeLength; i++ {
			sb.WriteByte(letters[h.rng.IntN(len(letters))])
		}
		code := sb.String()

		h.mu.RLock()
		_, exists := h.tables[code]
		h.mu.RUnlock()
		if !exists {
			return code
		}
		log.Debugf("Generated game code %s collided, retrying...", code)
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	client.ID = uuid.NewString()
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	log.Infof("Client %s connected", client.ID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if !h.clients[client] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	code, seated := h.clientToTable[client]
	delete(h.clientToTable, client)
	t := h.tables[code]
	h.mu.Unlock()

	if seated && t != nil {
		t.mu.Lock()
		delete(t.clients, client.ID)
		empty := len(t.clients) == 0
		t.mu.Unlock()

		t.engine.Dispatch(game.Action{Type: game.ActionLeaveGame, PlayerID: client.ID})
		if empty {
			h.closeTable(t)
		}
	}
	close(client.send)
	log.Infof("Client %s (%s) disconnected", client.ID, client.Name)
}

func (h *Hub) closeTable(t *table) {
	t.engine.Close()
	h.mu.Lock()
	delete(h.tables, t.code)
	h.mu.Unlock()
	log.Infof("Table %s closed", t.code)
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch {
	case msg.Type == "create_game":
		h.handleCreateGame(client, msg)
	case msg.Type == "join_game":
		h.handleJoinGame(client, msg)
	case msg.Type == "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		h.sendToClient(client, pongMsg)
	case protocol.IsGameAction(msg.Type):
		h.handleGameAction(client, msg)
	default:
		log.Warnf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendError(client, "error", "Unknown message type.")
	}
}

func (h *Hub) tableOf(client *Client) *table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	code, ok := h.clientToTable[client]
	if !ok {
		return nil
	}
	return h.tables[code]
}

// handleCreateGame opens a new table and seats the creator.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	if h.tableOf(client) != nil {
		h.sendError(client, "error", "Already in a game.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Warnf("Error unmarshalling create_game payload from client %s: %v", client.ID, err)
		h.sendError(client, "error", "Invalid create_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendError(client, "error", "Name cannot be empty.")
		return
	}
	preset := payload.Preset
	if preset == "" {
		preset = h.defaultPreset
	}
	cfg := config.ResolvePreset(preset)

	code := h.generateGameCode()
	engine, err := game.New(cfg,
		game.WithRoundDelay(h.roundDelay),
		game.WithLogger(log.WithField("code", code)),
	)
	if err != nil {
		log.Errorf("Could not create game for preset %s: %v", preset, err)
		h.sendError(client, "error", "Could not create game.")
		return
	}

	t := &table{code: code, engine: engine, clients: make(map[string]*Client)}
	engine.AddListener(func(ev game.Event) { h.relay(t, ev) })

	h.mu.Lock()
	h.tables[code] = t
	h.mu.Unlock()
	log.Infof("Client %s (%s) created table %s with preset %s", client.ID, payload.Name, code, preset)

	createdMsg, _ := protocol.NewMessage("game_created", protocol.GameCreatedPayload{GameCode: code, Preset: preset, Config: cfg})
	h.sendToClient(client, createdMsg)
	h.seat(client, t, payload.Name)
}

// handleJoinGame seats a client at an existing table.
func (h *Hub) handleJoinGame(client *Client, msg protocol.Message) {
	if h.tableOf(client) != nil {
		h.sendError(client, "join_error", "Already in a game.")
		return
	}

	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.sendError(client, "join_error", "Invalid join_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendError(client, "join_error", "Name cannot be empty.")
		return
	}

	h.mu.RLock()
	t, ok := h.tables[strings.ToUpper(payload.GameCode)]
	h.mu.RUnlock()
	if !ok {
		h.sendError(client, "join_error", "Game code not found.")
		return
	}
	h.seat(client, t, payload.Name)
}

func (h *Hub) seat(client *Client, t *table, name string) {
	client.Name = name
	t.mu.Lock()
	t.clients[client.ID] = client
	t.mu.Unlock()

	t.engine.Dispatch(game.Action{Type: game.ActionJoinGame, PlayerID: client.ID, Name: name})

	state := t.engine.State()
	if state.Player(client.ID) == nil {
		t.mu.Lock()
		delete(t.clients, client.ID)
		empty := len(t.clients) == 0
		t.mu.Unlock()
		h.sendError(client, "join_error", "Could not join game.")
		if empty {
			h.closeTable(t)
		}
		return
	}

	h.mu.Lock()
	h.clientToTable[client] = t.code
	h.mu.Unlock()

	joinedMsg, _ := protocol.NewMessage("joined", protocol.JoinedPayload{GameCode: t.code, PlayerID: client.ID})
	h.sendToClient(client, joinedMsg)
	h.sendState(t, state)
}

// handleGameAction forwards an engine action to the client's table.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	t := h.tableOf(client)
	if t == nil {
		h.sendError(client, "error", "You are not in a game.")
		return
	}
	action, err := protocol.ToAction(client.ID, msg)
	if err != nil {
		log.Warnf("Bad '%s' from client %s: %v", msg.Type, client.ID, err)
		h.sendError(client, "error", "Invalid "+msg.Type+" message.")
		return
	}
	t.engine.Dispatch(action)
}

// relay forwards an engine event to the table. Errors only go to the player
// who caused them.
func (h *Hub) relay(t *table, ev game.Event) {
	msg, err := protocol.NewEventMessage(ev)
	if err != nil {
		log.Errorf("Table %s: could not encode %s: %v", t.code, ev.Type, err)
		return
	}

	t.mu.RLock()
	if ev.Type == game.EventGameError {
		if c, ok := t.clients[ev.PlayerID]; ok {
			h.sendToClient(c, msg)
		}
	} else {
		for _, c := range t.clients {
			h.sendToClient(c, msg)
		}
	}
	t.mu.RUnlock()

	switch ev.Type {
	case game.EventTurnChanged, game.EventRoundCompleted:
		h.sendState(t, t.engine.State())
	case game.EventGameEnded:
		state := t.engine.State()
		h.sendState(t, state)
		h.recordResult(t, state, ev)
	}
}

// sendState sends every seated client its own view of state.
func (h *Hub) sendState(t *table, state game.GameState) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for id, c := range t.clients {
		msg, err := protocol.NewStateMessage(state, id)
		if err != nil {
			log.Errorf("Table %s: could not encode state: %v", t.code, err)
			return
		}
		h.sendToClient(c, msg)
	}
}

func (h *Hub) recordResult(t *table, state game.GameState, ev game.Event) {
	t.mu.Lock()
	if t.recorded || h.results == nil {
		t.mu.Unlock()
		return
	}
	t.recorded = true
	t.mu.Unlock()

	ended, _ := ev.Payload.(game.GameEndedPayload)
	result := database.GameResult{
		ID:        state.ID,
		GameCode:  t.code,
		CreatedAt: state.CreatedAt,
		WinnerID:  ended.WinnerID,
		Reason:    ended.Reason,
		Rounds:    len(state.Rounds),
	}
	for seat, s := range ended.FinalScores {
		if s.PlayerID == ended.WinnerID {
			result.WinnerName = s.Name
		}
		result.Players = append(result.Players, database.PlayerResult{Seat: seat, PlayerID: s.PlayerID, PlayerName: s.Name, Score: s.Score})
	}
	if err := h.results.Insert(result); err != nil {
		log.Errorf("Table %s: failed to record result: %v", t.code, err)
		return
	}
	log.Infof("Table %s: result %s recorded", t.code, result.ID)
}

// sendToClient does a non-blocking send; a full buffer drops the client.
func (h *Hub) sendToClient(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		log.Warnf("Failed to send message to client %s (channel full), initiating cleanup.", client.ID)
		go func() { h.unregister <- client }()
	}
}

func (h *Hub) sendError(client *Client, msgType, errorMsg string) {
	msgBytes, err := protocol.NewMessage(msgType, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Errorf("Error creating %s message for client %s: %v", msgType, client.ID, err)
		return
	}
	h.sendToClient(client, msgBytes)
}
