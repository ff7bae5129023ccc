// Package ai maps observable table state to betting actions. Two families
// implement the same Policy contract: gene-driven fish policies whose
// behavior follows the poker engagement trait, and fixed baseline personas
// used for benchmarking and calibration.
package ai

import (
	"fmt"

	"fishtank/poker"
	"fishtank/table"
)

// Policy decides one action from a player's view of the table. The reason
// string is free-form and only used for logging and autopilot hints.
type Policy interface {
	Name() string
	Decide(v table.View) (table.Action, string)
}

// categoryStrength maps made-hand categories to practical winning chances;
// the gap between high card and one pair matters far more than the gap
// between quads and a straight flush.
var categoryStrength = [...]float64{
	poker.HighCard:      0.10,
	poker.OnePair:       0.40,
	poker.TwoPair:       0.60,
	poker.ThreeOfAKind:  0.72,
	poker.Straight:      0.80,
	poker.Flush:         0.85,
	poker.FullHouse:     0.90,
	poker.FourOfAKind:   0.96,
	poker.StraightFlush: 0.99,
	poker.RoyalFlush:    1.0,
}

// Strength estimates winning chances on a 0..1 scale. Pre-flop it is a
// heuristic over the two hole cards; from the flop on it scores the best
// evaluated hand, category first with a small in-category nudge.
func Strength(hole, community []poker.Card) float64 {
	if len(community) == 0 {
		return preflopStrength(hole)
	}
	hand, err := poker.Evaluate(append(append([]poker.Card(nil), hole...), community...))
	if err != nil {
		return 0
	}
	s := categoryStrength[hand.Category]
	s += 0.05 * float64(hand.TieBreak[0]) / float64(poker.Ace)
	if s > 1 {
		s = 1
	}
	return s
}

// preflopStrength scores two hole cards: pairs dominate, then high cards,
// with small bonuses for suitedness and connectedness.
func preflopStrength(hole []poker.Card) float64 {
	if len(hole) != 2 {
		return 0
	}
	a, b := hole[0], hole[1]
	if a.Rank == b.Rank {
		return 0.5 + 0.5*float64(a.Rank)/float64(poker.Ace)
	}
	hi, lo := a.Rank, b.Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	s := 0.35 * (float64(hi) + 0.5*float64(lo)) / (1.5 * float64(poker.Ace))
	if a.Suit == b.Suit {
		s += 0.05
	}
	if hi-lo == 1 {
		s += 0.04
	}
	if hi == poker.Ace {
		s += 0.08
	}
	return s
}

// PotOdds is the price of continuing: call size relative to the pot after
// calling. Zero when there is nothing to call.
func PotOdds(v table.View) float64 {
	if v.ToCall <= 0 {
		return 0
	}
	return float64(v.ToCall) / float64(v.Pot+v.ToCall)
}

// checkOrFold is the zero-cost action for the current view.
func checkOrFold(v table.View) table.Action {
	if v.ToCall <= 0 {
		return table.Action{Kind: table.Check}
	}
	return table.Action{Kind: table.Fold}
}

// callOrCheck matches the bet, or checks when there is nothing to match.
func callOrCheck(v table.View) table.Action {
	if v.ToCall <= 0 {
		return table.Action{Kind: table.Check}
	}
	return table.Action{Kind: table.Call}
}

// raiseBy builds a raise of n big blinds, clamped up to the table minimum.
// The table converts an over-stack raise into an all-in.
func raiseBy(v table.View, bigBlinds int64) table.Action {
	amount := bigBlinds * v.BigBlind
	if amount < v.MinRaise {
		amount = v.MinRaise
	}
	return table.Action{Kind: table.Raise, Amount: amount}
}

func reasonf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
