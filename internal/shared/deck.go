package shared

import (
	"errors"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
)

// ErrNotEnoughCards is returned when a deal needs more cards than the deck holds.
var ErrNotEnoughCards = errors.New("not enough cards in deck")

// CreateDeck returns one card per suit and rank for the given deck type, unshuffled.
// Both deck types currently share the same ten ranks.
func CreateDeck(deckType DeckType) []Card {
	cards := make([]Card, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range ranksFor(deckType) {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

func ranksFor(deckType DeckType) []Rank {
	switch deckType {
	case Spanish, French:
		return Ranks
	default:
		log.Warnf("Unknown deck type '%s', using spanish ranks.", deckType)
		return Ranks
	}
}

// DeckSize is the number of cards CreateDeck produces for deckType. The
// french deck reuses the Spanish ranks, so it holds 40 cards rather than 52,
// and configs are validated against that real size.
func DeckSize(deckType DeckType) int {
	return len(Suits) * len(ranksFor(deckType))
}

// KnownDeckType reports whether deckType is supported.
func KnownDeckType(deckType DeckType) bool {
	return deckType == Spanish || deckType == French
}

// ShuffleDeck returns a uniformly shuffled copy of deck. The input is left untouched.
// A nil rng falls back to the package-level source.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(shuffled) - 1; i > 0; i-- {
		j := intN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// DealCards shuffles deck and deals cardsPerPlayer cards to each of numPlayers
// players round-robin. It returns the hands in seat order and the undealt rest.
func DealCards(deck []Card, numPlayers, cardsPerPlayer int, rng *rand.Rand) ([][]Card, []Card, error) {
	needed := numPlayers * cardsPerPlayer
	if numPlayers <= 0 || cardsPerPlayer <= 0 || len(deck) < needed {
		log.Warnf("Cannot deal %d cards to %d players from a deck of %d.", cardsPerPlayer, numPlayers, len(deck))
		return nil, nil, ErrNotEnoughCards
	}

	shuffled := ShuffleDeck(deck, rng)
	hands := make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = make([]Card, 0, cardsPerPlayer)
	}
	for i := 0; i < needed; i++ {
		seat := i % numPlayers
		hands[seat] = append(hands[seat], shuffled[i])
	}

	rest := make([]Card, len(shuffled)-needed)
	copy(rest, shuffled[needed:])
	return hands, rest, nil
}

// GetCardPower returns the trick-taking strength of a card.
func GetCardPower(card Card) int {
	return cardPower[card.Rank]
}

// CompareCards returns -1, 0 or 1 as a is weaker than, equal to or stronger than b.
func CompareCards(a, b Card) int {
	pa, pb := GetCardPower(a), GetCardPower(b)
	switch {
	case pa > pb:
		return 1
	case pa < pb:
		return -1
	default:
		return 0
	}
}

// FindWinningCard returns the strongest play. The earlier play keeps ties.
func FindWinningCard(played []PlayedCard) *PlayedCard {
	if len(played) == 0 {
		return nil
	}
	best := played[0]
	for _, pc := range played[1:] {
		if CompareCards(pc.Card, best.Card) > 0 {
			best = pc
		}
	}
	return &best
}

// RemoveCardFromHand returns a new hand without the first card matching card.ID.
func RemoveCardFromHand(card Card, hand []Card) []Card {
	result := make([]Card, 0, len(hand))
	removed := false
	for _, c := range hand {
		if !removed && c.ID == card.ID {
			removed = true
			continue
		}
		result = append(result, c)
	}
	return result
}

// IsValidPlay reports whether hand holds a card with card's ID.
func IsValidPlay(card Card, hand []Card) bool {
	_, ok := FindCard(hand, card.ID)
	return ok
}

// FindCard looks a card up by ID.
func FindCard(hand []Card, id string) (Card, bool) {
	for _, c := range hand {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}
