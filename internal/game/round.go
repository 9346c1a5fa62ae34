package game

import (
	"time"

	"truco-game/internal/shared"
)

// startNewRound installs freshly dealt hands and opens the first trick.
func (e *Engine) startNewRound(hands [][]shared.Card, rest []shared.Card) {
	s := &e.state
	s.Phase = PhaseDealing

	round := shared.NewRound(len(s.Rounds) + 1)
	for i, p := range s.Players {
		p.Hand = hands[i]
		p.TricksWon = 0
		p.IsActive = false
	}
	s.Deck = rest
	s.Rounds = append(s.Rounds, round)
	s.CurrentRound = round
	if s.CurrentPlayerIndex >= len(s.Players) {
		s.CurrentPlayerIndex = 0
	}

	s.Phase = PhasePlaying
	e.log.Infof("Round %d started", round.Number)
	e.emit(EventRoundStarted, "", RoundStartedPayload{RoundID: round.ID, RoundNumber: round.Number, HandSize: e.config.HandSize})
	e.startNewTrick()
}

// startNewTrick opens a trick led by the player at CurrentPlayerIndex.
func (e *Engine) startNewTrick() {
	s := &e.state
	trick := s.CurrentRound.StartTrick()
	leader := s.Players[s.CurrentPlayerIndex]
	e.emit(EventTrickStarted, leader.ID, TrickStartedPayload{
		RoundNumber: s.CurrentRound.Number,
		TrickNumber: trick.Number,
		LeaderID:    leader.ID,
	})
	e.setActive(s.CurrentPlayerIndex)
}

// setActive hands the turn to the player at seat.
func (e *Engine) setActive(seat int) {
	s := &e.state
	for _, p := range s.Players {
		p.IsActive = false
	}
	s.CurrentPlayerIndex = seat
	p := s.Players[seat]
	p.IsActive = true
	e.emit(EventTurnChanged, p.ID, TurnChangedPayload{PlayerID: p.ID, PlayerIndex: seat})
}

// trickFull reports whether every seated player has a card in trick.
func (e *Engine) trickFull(trick *shared.Trick) bool {
	for _, p := range e.state.Players {
		if !trick.HasPlayed(p.ID) {
			return false
		}
	}
	return true
}

// nextToPlay returns the first seat from start, in seat order, that has not played in trick.
func (e *Engine) nextToPlay(start int, trick *shared.Trick) int {
	n := len(e.state.Players)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if !trick.HasPlayed(e.state.Players[seat].ID) {
			return seat
		}
	}
	return start % n
}

// completeTrick scores a full trick and either opens the next one or ends the round.
func (e *Engine) completeTrick(trick *shared.Trick) {
	s := &e.state
	round := s.CurrentRound

	winning := trick.DetermineWinnerAmong(e.seated)
	round.CurrentTrickIndex = -1
	if winning == nil {
		e.completeRound("", round.TrucoValue)
		return
	}
	seat := s.PlayerIndex(winning.PlayerID)
	s.Players[seat].TricksWon++
	s.CurrentPlayerIndex = seat
	e.log.Debugf("Trick %d won by %s with %s", trick.Number, winning.PlayerID, winning.Card)
	e.emit(EventTrickCompleted, winning.PlayerID, TrickCompletedPayload{
		TrickNumber: trick.Number,
		WinnerID:    winning.PlayerID,
		WinningCard: winning.Card,
	})

	leader, _ := round.LeaderAmong(e.seated)
	if round.TrickWins()[leader] >= 2 || len(round.CompletedTricks()) >= shared.MaxTricksPerRound || e.handsEmpty() {
		e.completeRound(leader, round.TrucoValue)
		return
	}
	e.startNewTrick()
}

// seated reports whether playerID still holds a seat.
func (e *Engine) seated(playerID string) bool {
	return e.state.PlayerIndex(playerID) >= 0
}

func (e *Engine) handsEmpty() bool {
	for _, p := range e.state.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// completeRound awards points to winnerID and either ends the game or
// schedules the next round. A winnerID that is empty or no longer seated
// falls back to the lowest seat.
func (e *Engine) completeRound(winnerID string, points int) {
	s := &e.state
	round := s.CurrentRound
	s.Phase = PhaseRoundEnd
	round.CurrentTrickIndex = -1
	for _, p := range s.Players {
		p.IsActive = false
	}

	if !e.seated(winnerID) && len(s.Players) > 0 {
		winnerID = s.Players[0].ID
	}
	awarded := 0
	if p := s.Player(winnerID); p != nil {
		p.Score += points
		awarded = points
	}
	round.Winner = winnerID
	e.recomputeTeams()

	e.log.Infof("Round %d won by %s for %d point(s)", round.Number, winnerID, awarded)
	e.emit(EventRoundCompleted, winnerID, RoundCompletedPayload{
		RoundNumber: round.Number,
		WinnerID:    winnerID,
		Points:      awarded,
		TrickWins:   round.TrickWins(),
		Scores:      s.scores(),
	})

	for _, p := range s.Players {
		if p.Score >= s.MaxScore {
			e.endGame("")
			return
		}
	}
	e.scheduleNextRound()
}

// endGame moves to the terminal phase and announces the final scores.
func (e *Engine) endGame(reason string) {
	s := &e.state
	s.Phase = PhaseGameEnd
	e.stopRoundTimer()
	for _, p := range s.Players {
		p.IsActive = false
	}
	if s.CurrentRound != nil {
		s.CurrentRound.CurrentTrickIndex = -1
	}

	var winner *shared.Player
	for _, p := range s.Players {
		if winner == nil || p.Score > winner.Score {
			winner = p
		}
	}
	payload := GameEndedPayload{FinalScores: s.scores(), Reason: reason}
	if winner != nil {
		payload.WinnerID = winner.ID
	}
	for _, t := range s.Teams {
		payload.Teams = append(payload.Teams, t.Clone())
	}

	e.log.Infof("Game over. Winner: %s. Reason: %q", payload.WinnerID, reason)
	e.emit(EventGameEnded, payload.WinnerID, payload)
}

// scheduleNextRound deals the next round after roundDelay. The timer is
// owned by the engine and does nothing once stopped, replaced or closed.
func (e *Engine) scheduleNextRound() {
	e.stopRoundTimer()
	e.timerGen++
	gen := e.timerGen
	e.roundTimer = time.AfterFunc(e.roundDelay, func() { e.onRoundTimer(gen) })
}

func (e *Engine) stopRoundTimer() {
	if e.roundTimer != nil {
		e.roundTimer.Stop()
		e.roundTimer = nil
	}
	e.timerGen++
}

func (e *Engine) onRoundTimer(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.timerGen || e.state.Phase != PhaseRoundEnd {
		e.mu.Unlock()
		return
	}
	e.roundTimer = nil

	hands, rest, err := e.deal()
	if err != nil {
		e.log.Errorf("Could not deal round %d: %v", len(e.state.Rounds)+1, err)
		e.emit(EventGameError, "", GameErrorPayload{Code: CodeDealFailed, Message: err.Error()})
	} else {
		e.startNewRound(hands, rest)
		e.state.UpdatedAt = e.now()
	}
	e.flushLocked()
}
