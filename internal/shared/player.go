package shared

// Player represents a seated player in a Truco game.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Hand      []Card `json:"hand"`
	Score     int    `json:"score"`
	IsReady   bool   `json:"is_ready"`
	IsActive  bool   `json:"is_active"`
	TricksWon int    `json:"tricks_won"` // Tricks won in the current round
}

// NewPlayer creates a player with an empty hand. An empty name falls back to the ID.
func NewPlayer(id, name string) *Player {
	if name == "" {
		name = id
	}
	return &Player{
		ID:   id,
		Name: name,
		Hand: []Card{},
	}
}

// RemoveCard removes the card with the given ID from the hand.
func (p *Player) RemoveCard(id string) (Card, bool) {
	card, ok := FindCard(p.Hand, id)
	if !ok {
		return Card{}, false
	}
	p.Hand = RemoveCardFromHand(card, p.Hand)
	return card, true
}

// Clone returns a copy that shares nothing with p.
func (p *Player) Clone() *Player {
	c := *p
	c.Hand = append([]Card(nil), p.Hand...)
	return &c
}
