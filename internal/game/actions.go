package game

import "truco-game/internal/shared"

// ActionType tags what an Action asks the engine to do.
type ActionType string

const (
	ActionJoinGame    ActionType = "JOIN_GAME"
	ActionLeaveGame   ActionType = "LEAVE_GAME"
	ActionReadyPlayer ActionType = "READY_PLAYER"
	ActionStartGame   ActionType = "START_GAME"
	ActionPlayCard    ActionType = "PLAY_CARD"
	ActionCallTruco   ActionType = "CALL_TRUCO"
	ActionAcceptTruco ActionType = "ACCEPT_TRUCO"
	ActionRejectTruco ActionType = "REJECT_TRUCO"
)

// Action is a single request submitted to Dispatch. Only the fields relevant
// to Type are read: Name for JOIN_GAME, CardID for PLAY_CARD, Call for CALL_TRUCO.
type Action struct {
	Type     ActionType       `json:"type"`
	PlayerID string           `json:"player_id"`
	Name     string           `json:"name,omitempty"`
	CardID   string           `json:"card_id,omitempty"`
	Call     shared.TrucoCall `json:"call,omitempty"`
}

// RejectedTrucoPoints is awarded to the caller when a truco call is refused.
const RejectedTrucoPoints = 1

func (e *Engine) apply(a Action) error {
	switch a.Type {
	case ActionJoinGame:
		return e.joinGame(a)
	case ActionLeaveGame:
		return e.leaveGame(a)
	case ActionReadyPlayer:
		return e.readyPlayer(a)
	case ActionStartGame:
		return e.startGame(a)
	case ActionPlayCard:
		return e.playCard(a)
	case ActionCallTruco:
		return e.callTruco(a)
	case ActionAcceptTruco:
		return e.acceptTruco(a)
	case ActionRejectTruco:
		return e.rejectTruco(a)
	default:
		return newError(CodeInvalidAction, a.PlayerID, "unknown action type '%s'", a.Type)
	}
}

func (e *Engine) joinGame(a Action) error {
	s := &e.state
	if s.Phase != PhaseWaiting {
		return newError(CodeGameInProgress, a.PlayerID, "game already started")
	}
	if len(s.Players) >= e.config.MaxPlayers {
		return newError(CodeGameFull, a.PlayerID, "game is full (%d players)", e.config.MaxPlayers)
	}
	if a.PlayerID == "" {
		return newError(CodeInvalidAction, a.PlayerID, "player id is required")
	}
	if s.PlayerIndex(a.PlayerID) >= 0 {
		return newError(CodePlayerExists, a.PlayerID, "player already joined")
	}

	p := shared.NewPlayer(a.PlayerID, a.Name)
	s.Players = append(s.Players, p)
	e.recomputeTeams()
	e.log.Infof("Player %s (%s) joined. Players: %d", p.ID, p.Name, len(s.Players))

	e.emit(EventPlayerJoined, p.ID, PlayerJoinedPayload{
		PlayerID:    p.ID,
		Name:        p.Name,
		Seat:        len(s.Players) - 1,
		PlayerCount: len(s.Players),
	})
	return nil
}

func (e *Engine) leaveGame(a Action) error {
	s := &e.state
	seat := s.PlayerIndex(a.PlayerID)
	if seat < 0 {
		return newError(CodePlayerNotFound, a.PlayerID, "player not in game")
	}

	wasActive := s.Players[seat].IsActive
	s.Players = append(s.Players[:seat], s.Players[seat+1:]...)
	switch {
	case len(s.Players) == 0:
		s.CurrentPlayerIndex = 0
	case seat < s.CurrentPlayerIndex:
		s.CurrentPlayerIndex--
	case s.CurrentPlayerIndex >= len(s.Players):
		s.CurrentPlayerIndex = 0
	}
	e.recomputeTeams()
	e.log.Infof("Player %s left. Players: %d", a.PlayerID, len(s.Players))
	e.emit(EventPlayerLeft, a.PlayerID, PlayerLeftPayload{PlayerID: a.PlayerID, PlayerCount: len(s.Players)})

	inRound := s.Phase == PhasePlaying || s.Phase == PhaseRoundEnd
	if inRound && len(s.Players) < e.config.MinPlayers {
		e.endGame("Not enough players")
		return nil
	}
	if s.Phase != PhasePlaying {
		return nil
	}

	trick := s.CurrentRound.CurrentTrick()
	if trick == nil {
		return nil
	}
	if e.trickFull(trick) {
		e.completeTrick(trick)
		return nil
	}
	if wasActive {
		e.setActive(e.nextToPlay(s.CurrentPlayerIndex, trick))
	}
	return nil
}

func (e *Engine) readyPlayer(a Action) error {
	p := e.state.Player(a.PlayerID)
	if p == nil {
		return newError(CodePlayerNotFound, a.PlayerID, "player not in game")
	}
	p.IsReady = !p.IsReady
	e.emit(EventPlayerReadyChanged, p.ID, PlayerReadyChangedPayload{PlayerID: p.ID, IsReady: p.IsReady})
	return nil
}

func (e *Engine) startGame(a Action) error {
	s := &e.state
	if s.Phase != PhaseWaiting {
		return newError(CodeGameInProgress, a.PlayerID, "game already started")
	}
	if len(s.Players) < e.config.MinPlayers {
		return newError(CodeNotEnoughPlayers, a.PlayerID, "need at least %d players, have %d", e.config.MinPlayers, len(s.Players))
	}
	for _, p := range s.Players {
		if !p.IsReady {
			return newError(CodePlayersNotReady, a.PlayerID, "player %s is not ready", p.ID)
		}
	}

	hands, rest, err := e.deal()
	if err != nil {
		return err
	}

	ids := make([]string, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.ID
	}
	e.log.Infof("Game started with players %v", ids)
	e.emit(EventGameStarted, a.PlayerID, GameStartedPayload{PlayerIDs: ids, MaxScore: s.MaxScore})
	e.startNewRound(hands, rest)
	return nil
}

func (e *Engine) playCard(a Action) error {
	s := &e.state
	if s.Phase != PhasePlaying {
		return newError(CodeInvalidPhase, a.PlayerID, "cannot play a card during %s", s.Phase)
	}
	seat := s.PlayerIndex(a.PlayerID)
	if seat < 0 {
		return newError(CodePlayerNotFound, a.PlayerID, "player not in game")
	}
	p := s.Players[seat]
	if !p.IsActive {
		return newError(CodeNotYourTurn, a.PlayerID, "not your turn")
	}
	card, ok := shared.FindCard(p.Hand, a.CardID)
	if !ok {
		return newError(CodeInvalidCard, a.PlayerID, "card %s not in hand", a.CardID)
	}
	trick := s.CurrentRound.CurrentTrick()
	if trick == nil {
		return newError(CodeNoActiveTrick, a.PlayerID, "no trick in progress")
	}

	trick.AddCard(card, p.ID, e.now())
	p.RemoveCard(card.ID)
	p.IsActive = false
	e.log.Debugf("Player %s played %s in trick %d", p.ID, card, trick.Number)
	e.emit(EventCardPlayed, p.ID, CardPlayedPayload{PlayerID: p.ID, Card: card, TrickNumber: trick.Number})

	if e.trickFull(trick) {
		e.completeTrick(trick)
		return nil
	}
	e.setActive(e.nextToPlay((seat+1)%len(s.Players), trick))
	return nil
}

func (e *Engine) callTruco(a Action) error {
	s := &e.state
	round := s.CurrentRound
	if round == nil {
		return newError(CodeNoActiveRound, a.PlayerID, "no round in progress")
	}
	if s.Phase != PhasePlaying {
		return newError(CodeInvalidPhase, a.PlayerID, "cannot call truco during %s", s.Phase)
	}
	if s.PlayerIndex(a.PlayerID) < 0 {
		return newError(CodePlayerNotFound, a.PlayerID, "player not in game")
	}
	next, ok := round.TrucoCall.Next()
	if !ok || a.Call != next {
		return newError(CodeInvalidTrucoCall, a.PlayerID, "cannot call %s after %s", a.Call, round.TrucoCall)
	}

	round.TrucoCall = next
	round.TrucoValue = next.Value()
	round.CalledBy = a.PlayerID
	round.AcceptedBy = ""
	e.log.Infof("Player %s called %s (worth %d)", a.PlayerID, next, round.TrucoValue)
	e.emit(EventTrucoCalled, a.PlayerID, TrucoCalledPayload{Call: next, Value: round.TrucoValue, CalledBy: a.PlayerID})
	return nil
}

// checkTrucoAnswer validates ACCEPT_TRUCO and REJECT_TRUCO.
func (e *Engine) checkTrucoAnswer(a Action) (*shared.Round, error) {
	s := &e.state
	round := s.CurrentRound
	if round == nil {
		return nil, newError(CodeNoActiveRound, a.PlayerID, "no round in progress")
	}
	if s.Phase != PhasePlaying {
		return nil, newError(CodeInvalidPhase, a.PlayerID, "cannot answer truco during %s", s.Phase)
	}
	if s.PlayerIndex(a.PlayerID) < 0 {
		return nil, newError(CodePlayerNotFound, a.PlayerID, "player not in game")
	}
	if round.TrucoCall == shared.CallNone || round.AcceptedBy != "" || !e.seated(round.CalledBy) {
		return nil, newError(CodeNoPendingTruco, a.PlayerID, "no truco call to answer")
	}
	if round.CalledBy == a.PlayerID {
		return nil, newError(CodeCannotAnswerOwnCall, a.PlayerID, "cannot answer your own call")
	}
	return round, nil
}

func (e *Engine) acceptTruco(a Action) error {
	round, err := e.checkTrucoAnswer(a)
	if err != nil {
		return err
	}
	round.AcceptedBy = a.PlayerID
	e.log.Infof("Player %s accepted %s", a.PlayerID, round.TrucoCall)
	e.emit(EventTrucoAccepted, a.PlayerID, TrucoAnsweredPayload{Call: round.TrucoCall, CalledBy: round.CalledBy, AnsweredBy: a.PlayerID})
	return nil
}

func (e *Engine) rejectTruco(a Action) error {
	round, err := e.checkTrucoAnswer(a)
	if err != nil {
		return err
	}
	round.RejectedBy = a.PlayerID
	e.log.Infof("Player %s rejected %s from %s", a.PlayerID, round.TrucoCall, round.CalledBy)
	e.emit(EventTrucoRejected, a.PlayerID, TrucoAnsweredPayload{Call: round.TrucoCall, CalledBy: round.CalledBy, AnsweredBy: a.PlayerID})
	e.completeRound(round.CalledBy, RejectedTrucoPoints)
	return nil
}
