package shared

import "github.com/google/uuid"

// TrucoCall is the escalation level of a round's bet.
type TrucoCall string

const (
	CallNone       TrucoCall = "NONE"
	CallTruco      TrucoCall = "TRUCO"
	CallRetruco    TrucoCall = "RETRUCO"
	CallValeCuatro TrucoCall = "VALE_CUATRO"
)

var trucoOrder = []TrucoCall{CallNone, CallTruco, CallRetruco, CallValeCuatro}

// Level returns the call's position in the escalation order, or -1 if unknown.
func (c TrucoCall) Level() int {
	for i, call := range trucoOrder {
		if call == c {
			return i
		}
	}
	return -1
}

// Value is the number of points a round is worth at this call.
func (c TrucoCall) Value() int {
	if l := c.Level(); l > 0 {
		return l + 1
	}
	return 1
}

// Next returns the call one step above c.
func (c TrucoCall) Next() (TrucoCall, bool) {
	l := c.Level()
	if l < 0 || l+1 >= len(trucoOrder) {
		return "", false
	}
	return trucoOrder[l+1], true
}

// MaxTricksPerRound caps how many tricks a round can hold.
const MaxTricksPerRound = 3

// Round is a best-of-three-tricks unit of play.
type Round struct {
	ID                string    `json:"id"`
	Number            int       `json:"number"`
	Tricks            []*Trick  `json:"tricks"`
	CurrentTrickIndex int       `json:"current_trick_index"` // -1 when no trick accepts plays
	TrucoCall         TrucoCall `json:"truco_call"`
	TrucoValue        int       `json:"truco_value"`
	CalledBy          string    `json:"called_by,omitempty"`
	AcceptedBy        string    `json:"accepted_by,omitempty"`
	RejectedBy        string    `json:"rejected_by,omitempty"`
	Winner            string    `json:"winner,omitempty"`
}

// NewRound creates a round with no tricks and no truco call.
func NewRound(number int) *Round {
	return &Round{
		ID:                uuid.NewString(),
		Number:            number,
		Tricks:            []*Trick{},
		CurrentTrickIndex: -1,
		TrucoCall:         CallNone,
		TrucoValue:        CallNone.Value(),
	}
}

// CurrentTrick returns the trick accepting plays, if any.
func (r *Round) CurrentTrick() *Trick {
	if r.CurrentTrickIndex < 0 || r.CurrentTrickIndex >= len(r.Tricks) {
		return nil
	}
	return r.Tricks[r.CurrentTrickIndex]
}

// StartTrick appends a new trick and makes it current.
func (r *Round) StartTrick() *Trick {
	t := NewTrick(len(r.Tricks) + 1)
	r.Tricks = append(r.Tricks, t)
	r.CurrentTrickIndex = len(r.Tricks) - 1
	return t
}

// CompletedTricks returns the tricks that have a winner, in play order.
func (r *Round) CompletedTricks() []*Trick {
	var done []*Trick
	for _, t := range r.Tricks {
		if t.IsComplete {
			done = append(done, t)
		}
	}
	return done
}

// TrickWins counts completed tricks per player.
func (r *Round) TrickWins() map[string]int {
	wins := make(map[string]int)
	for _, t := range r.CompletedTricks() {
		wins[t.Winner]++
	}
	return wins
}

// Leader returns the player who first reached the highest trick count.
// Ties at the top go to whoever got there earlier in trick order.
func (r *Round) Leader() (string, bool) {
	return r.LeaderAmong(nil)
}

// LeaderAmong is Leader counting only tricks won by players that seated
// accepts. A nil seated accepts every winner.
func (r *Round) LeaderAmong(seated func(playerID string) bool) (string, bool) {
	counts := make(map[string]int)
	leader, best := "", 0
	for _, t := range r.CompletedTricks() {
		if seated != nil && !seated(t.Winner) {
			continue
		}
		counts[t.Winner]++
		if counts[t.Winner] > best {
			leader, best = t.Winner, counts[t.Winner]
		}
	}
	return leader, best > 0
}

// Clone returns a copy that shares nothing with r.
func (r *Round) Clone() *Round {
	c := *r
	c.Tricks = make([]*Trick, len(r.Tricks))
	for i, t := range r.Tricks {
		c.Tricks[i] = t.Clone()
	}
	return &c
}
