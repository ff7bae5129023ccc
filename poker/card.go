// Package poker provides cards, a seeded deck, and hand evaluation for
// Texas Hold'em showdowns.
package poker

import "fmt"

// Suit identifies one of the four card suits.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Glyph returns the suit's display glyph.
func (s Suit) Glyph() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Rank is a card rank from Two (2) to Ace (14). The Ace plays high except
// inside the wheel straight, where the evaluator counts it low.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Symbol returns the rank's display symbol ("2".."10", "J", "Q", "K", "A").
func (r Rank) Symbol() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card is an immutable rank and suit pair.
type Card struct {
	Rank Rank
	Suit Suit
}

// FaceDown is the sentinel token for a hidden card. It is distinct from
// every real card's text encoding.
const FaceDown = "🂠"

// String encodes the card as rank symbol plus suit glyph, e.g. "A♠", "10♦".
func (c Card) String() string {
	return c.Rank.Symbol() + c.Suit.Glyph()
}

// Valid reports whether the card holds a legal rank and suit.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Spades
}
