package shared

import "fmt"

// Suit represents the suit of a card.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists every suit in deck-building order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank is the face of a card.
type Rank string

const (
	Rank4 Rank = "4"
	Rank5 Rank = "5"
	Rank6 Rank = "6"
	Rank7 Rank = "7"
	RankQ Rank = "Q"
	RankJ Rank = "J"
	RankK Rank = "K"
	RankA Rank = "A"
	Rank2 Rank = "2"
	Rank3 Rank = "3"
)

// Ranks is the rank set shared by both deck types, weakest first.
var Ranks = []Rank{Rank4, Rank5, Rank6, Rank7, RankQ, RankJ, RankK, RankA, Rank2, Rank3}

// DeckType selects which card set a game is played with.
type DeckType string

const (
	Spanish DeckType = "spanish"
	French  DeckType = "french"
)

// Card is an immutable playing card. ID is derived from Rank and Suit.
type Card struct {
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
	ID   string `json:"id"`
}

// NewCard builds a card with its derived ID.
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, ID: CardID(suit, rank)}
}

// CardID returns the deterministic identifier for a suit/rank pair.
func CardID(suit Suit, rank Rank) string {
	return fmt.Sprintf("%s-%s", rank, suit)
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Plain card strength, 3 is the strongest.
var cardPower = map[Rank]int{
	Rank4: 1,
	Rank5: 2,
	Rank6: 3,
	Rank7: 4,
	RankQ: 5,
	RankJ: 6,
	RankK: 7,
	RankA: 8,
	Rank2: 9,
	Rank3: 10,
}

// Manilha tier, above every plain card. Nothing assigns these yet: the
// turned card (vira) is not part of this ruleset.
const (
	ManilhaDiamondsPower = 11
	ManilhaSpadesPower   = 12
	ManilhaHeartsPower   = 13
	ManilhaClubsPower    = 14
)
