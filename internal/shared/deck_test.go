package shared

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func ids(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	sort.Strings(out)
	return out
}

func TestCreateDeck(t *testing.T) {
	for _, dt := range []DeckType{Spanish, French} {
		deck := CreateDeck(dt)
		assert.Len(t, deck, 4*len(Ranks), "deck type %s", dt)
		assert.Equal(t, DeckSize(dt), len(deck))

		seen := make(map[string]bool)
		for _, c := range deck {
			assert.False(t, seen[c.ID], "duplicate card %s", c.ID)
			seen[c.ID] = true
			assert.Equal(t, CardID(c.Suit, c.Rank), c.ID)
		}
	}
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	deck := CreateDeck(Spanish)
	before := append([]Card(nil), deck...)

	shuffled := ShuffleDeck(deck, seeded(7))

	assert.Equal(t, before, deck, "input must not be mutated")
	assert.Len(t, shuffled, len(deck))
	assert.Equal(t, ids(deck), ids(shuffled))
	assert.NotEqual(t, deck, shuffled)
}

func TestShuffleDeckReproducible(t *testing.T) {
	deck := CreateDeck(Spanish)
	assert.Equal(t, ShuffleDeck(deck, seeded(42)), ShuffleDeck(deck, seeded(42)))
}

func TestShuffleDeckEmpty(t *testing.T) {
	assert.Empty(t, ShuffleDeck(nil, seeded(1)))
}

func TestDealCards(t *testing.T) {
	deck := CreateDeck(Spanish)
	hands, rest, err := DealCards(deck, 4, 3, seeded(3))
	require.NoError(t, err)
	require.Len(t, hands, 4)

	seen := make(map[string]bool)
	for _, hand := range hands {
		assert.Len(t, hand, 3)
		for _, c := range hand {
			assert.False(t, seen[c.ID], "card %s dealt twice", c.ID)
			seen[c.ID] = true
		}
	}
	for _, c := range rest {
		assert.False(t, seen[c.ID], "card %s both dealt and undealt", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, rest, len(deck)-12)
	assert.Len(t, seen, len(deck))
}

func TestDealCardsRoundRobin(t *testing.T) {
	deck := CreateDeck(Spanish)
	rng := seeded(11)
	hands, _, err := DealCards(deck, 2, 3, seeded(11))
	require.NoError(t, err)

	shuffled := ShuffleDeck(deck, rng)
	assert.Equal(t, []Card{shuffled[0], shuffled[2], shuffled[4]}, hands[0])
	assert.Equal(t, []Card{shuffled[1], shuffled[3], shuffled[5]}, hands[1])
}

func TestDealCardsNotEnough(t *testing.T) {
	hands, rest, err := DealCards(CreateDeck(Spanish), 5, 9, seeded(1))
	assert.ErrorIs(t, err, ErrNotEnoughCards)
	assert.Nil(t, hands)
	assert.Nil(t, rest)
}

func TestCardPowerOrder(t *testing.T) {
	for i := 1; i < len(Ranks); i++ {
		weaker := NewCard(Hearts, Ranks[i-1])
		stronger := NewCard(Spades, Ranks[i])
		assert.Less(t, GetCardPower(weaker), GetCardPower(stronger))
	}
	assert.Less(t, GetCardPower(NewCard(Clubs, Rank3)), ManilhaDiamondsPower)
}

func TestCompareCardsAntisymmetric(t *testing.T) {
	deck := CreateDeck(Spanish)
	for _, a := range deck {
		for _, b := range deck {
			assert.Equal(t, -CompareCards(b, a), CompareCards(a, b))
		}
	}
}

func TestFindWinningCard(t *testing.T) {
	assert.Nil(t, FindWinningCard(nil))

	played := []PlayedCard{
		{Card: NewCard(Hearts, RankK), PlayerID: "p1"},
		{Card: NewCard(Clubs, Rank3), PlayerID: "p2"},
		{Card: NewCard(Spades, Rank3), PlayerID: "p3"},
		{Card: NewCard(Hearts, Rank2), PlayerID: "p4"},
	}
	winner := FindWinningCard(played)
	require.NotNil(t, winner)
	assert.Equal(t, "p2", winner.PlayerID, "first play keeps a tie")
}

func TestRemoveCardFromHand(t *testing.T) {
	hand := []Card{NewCard(Hearts, Rank4), NewCard(Clubs, RankA), NewCard(Spades, Rank7)}
	target := hand[1]

	result := RemoveCardFromHand(target, hand)
	assert.Len(t, result, len(hand)-1)
	assert.False(t, IsValidPlay(target, result))
	assert.True(t, IsValidPlay(target, hand), "input must not be mutated")

	untouched := RemoveCardFromHand(NewCard(Diamonds, Rank3), hand)
	assert.Equal(t, hand, untouched)
}
