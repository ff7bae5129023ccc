package poker

import (
	"errors"
	"math/rand"
)

// ErrDeckExhausted is returned by Draw when fewer cards remain than were
// requested. Under correct dealing it never fires; callers treat it as an
// invariant violation and void the hand.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// Deck is the 52-card set minus dealt cards. A deck is owned by exactly one
// active hand and reshuffled at hand start.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck produces a deterministic Fisher-Yates permutation of all 52 cards
// from the given seed. The same seed and draw sequence always reproduces the
// same cards.
func NewDeck(seed int64) *Deck {
	return NewDeckRand(rand.New(rand.NewSource(seed)))
}

// NewDeckRand is NewDeck with a caller-owned RNG, for hands that share a
// session-scoped random stream.
func NewDeckRand(r *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for rk := Two; rk <= Ace; rk++ {
			cards = append(cards, Card{Rank: rk, Suit: s})
		}
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return &Deck{cards: cards}
}

// Draw removes and returns the next n cards.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 || d.Remaining() < n {
		return nil, ErrDeckExhausted
	}
	out := d.cards[d.next : d.next+n]
	d.next += n
	return out, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
