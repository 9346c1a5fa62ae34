package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"truco-game/internal/config"
	"truco-game/internal/shared"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultRoundDelay is the pause between a completed round and the next deal.
const DefaultRoundDelay = 2 * time.Second

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Engine runs one Truco game. Dispatch is the only way to change its state.
// Calls are expected to be serialized by the caller; the engine only guards
// itself against the round timer firing concurrently.
type Engine struct {
	mu         sync.Mutex
	config     config.GameConfig
	state      GameState
	listeners  []listenerEntry
	nextID     ListenerID
	pending    []Event
	rng        *rand.Rand
	now        func() time.Time
	log        *log.Entry
	roundDelay time.Duration
	roundTimer *time.Timer
	timerGen   uint64
	closed     bool
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed makes shuffling reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithRoundDelay overrides the pause before the next round is dealt.
func WithRoundDelay(d time.Duration) Option {
	return func(e *Engine) { e.roundDelay = d }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger; the game ID is added as a field.
func WithLogger(l *log.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine in the WAITING phase. An invalid config is returned as an error.
func New(cfg config.GameConfig, opts ...Option) (*Engine, error) {
	if err := config.ValidateGameConfig(cfg).Err(); err != nil {
		return nil, err
	}

	e := &Engine{
		config:     cfg,
		now:        time.Now,
		log:        log.NewEntry(log.StandardLogger()),
		roundDelay: DefaultRoundDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}

	created := e.now()
	e.state = GameState{
		ID:        uuid.NewString(),
		Phase:     PhaseWaiting,
		Players:   []*shared.Player{},
		Deck:      []shared.Card{},
		Rounds:    []*shared.Round{},
		MaxScore:  cfg.MaxScore,
		CreatedAt: created,
		UpdatedAt: created,
	}
	e.recomputeTeams()
	e.log = e.log.WithField("game", e.state.ID)
	e.log.Infof("Game created (max %d players, target %d points)", cfg.MaxPlayers, cfg.MaxScore)
	return e, nil
}

// ID returns the game's identifier.
func (e *Engine) ID() string {
	return e.state.ID
}

// Config returns the rules the engine was built with.
func (e *Engine) Config() config.GameConfig {
	return e.config
}

// State returns a deep copy of the current game state.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// AddListener subscribes fn to every future event.
func (e *Engine) AddListener(fn Listener) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.listeners = append(e.listeners, listenerEntry{id: e.nextID, fn: fn})
	return e.nextID
}

// RemoveListener unsubscribes a listener. Unknown IDs are ignored.
func (e *Engine) RemoveListener(id ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Dispatch validates and applies an action, then delivers the resulting events
// before returning. A rejected action leaves the state untouched and produces
// a single game_error event.
func (e *Engine) Dispatch(a Action) {
	e.mu.Lock()
	err := e.safeApply(a)
	if err != nil {
		e.pending = nil
		e.rejectAction(a, err)
	} else {
		e.state.UpdatedAt = e.now()
	}
	e.flushLocked()
}

// Close stops the pending round timer. The engine rejects every later action.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.stopRoundTimer()
	e.log.Debug("Engine closed")
}

func (e *Engine) safeApply(a Action) (err error) {
	if e.closed {
		return newError(CodeEngineClosed, a.PlayerID, "engine is closed")
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("Panic while applying %s: %v", a.Type, r)
			err = newError(CodeInternal, a.PlayerID, "internal error: %v", r)
		}
	}()
	return e.apply(a)
}

func (e *Engine) rejectAction(a Action, err error) {
	var ge *Error
	if !errors.As(err, &ge) {
		ge = &Error{Code: CodeInternal, Message: err.Error(), PlayerID: a.PlayerID}
	}
	e.log.WithField("player", a.PlayerID).Warnf("Rejected %s: %s", a.Type, ge.Message)
	e.emit(EventGameError, ge.PlayerID, GameErrorPayload{Code: ge.Code, Message: ge.Message, PlayerID: ge.PlayerID})
}

func (e *Engine) emit(t EventType, playerID string, payload any) {
	e.pending = append(e.pending, Event{Type: t, Payload: payload, Timestamp: e.now(), PlayerID: playerID})
}

// flushLocked releases the lock and delivers queued events. Listeners run
// without the lock held, so one may call Dispatch again.
func (e *Engine) flushLocked() {
	events := e.pending
	e.pending = nil
	listeners := append([]listenerEntry(nil), e.listeners...)
	e.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			l.fn(ev)
		}
	}
}

func (e *Engine) recomputeTeams() {
	if !e.config.UseTeams {
		e.state.Teams = nil
		return
	}
	e.state.Teams = shared.BuildTeams(e.state.Players)
}

func (e *Engine) deal() ([][]shared.Card, []shared.Card, error) {
	hands, rest, err := shared.DealCards(shared.CreateDeck(e.config.DeckType), len(e.state.Players), e.config.HandSize, e.rng)
	if err != nil {
		return nil, nil, newError(CodeDealFailed, "", "dealing round: %v", err)
	}
	return hands, rest, nil
}
