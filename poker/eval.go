package poker

import (
	"errors"
	"fmt"
	"sort"
)

// Category is the standard poker hand class, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// EvaluatedHand is the comparable value of a best 5-card combination:
// category first, then the tiebreak key lexicographically. Unused tiebreak
// slots are zero.
type EvaluatedHand struct {
	Category Category
	TieBreak [5]Rank
}

// Compare returns -1, 0 or 1 as h sorts below, equal to, or above other.
func (h EvaluatedHand) Compare(other EvaluatedHand) int {
	if h.Category != other.Category {
		if h.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < 5; i++ {
		if h.TieBreak[i] != other.TieBreak[i] {
			if h.TieBreak[i] < other.TieBreak[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether h is a strictly worse hand than other.
func (h EvaluatedHand) Less(other EvaluatedHand) bool { return h.Compare(other) < 0 }

// Equal reports an exact tie.
func (h EvaluatedHand) Equal(other EvaluatedHand) bool { return h.Compare(other) == 0 }

// Describe returns a short human-readable description, e.g.
// "Pair of Ks" or "Straight (9 high)".
func (h EvaluatedHand) Describe() string {
	switch h.Category {
	case HighCard:
		return fmt.Sprintf("High Card %s", h.TieBreak[0].Symbol())
	case OnePair:
		return fmt.Sprintf("Pair of %ss", h.TieBreak[0].Symbol())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %ss and %ss", h.TieBreak[0].Symbol(), h.TieBreak[1].Symbol())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %ss", h.TieBreak[0].Symbol())
	case Straight:
		return fmt.Sprintf("Straight (%s high)", h.TieBreak[0].Symbol())
	case Flush:
		return fmt.Sprintf("Flush (%s high)", h.TieBreak[0].Symbol())
	case FullHouse:
		return fmt.Sprintf("Full House, %ss over %ss", h.TieBreak[0].Symbol(), h.TieBreak[1].Symbol())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %ss", h.TieBreak[0].Symbol())
	case StraightFlush:
		return fmt.Sprintf("Straight Flush (%s high)", h.TieBreak[0].Symbol())
	case RoyalFlush:
		return "Royal Flush"
	default:
		return h.Category.String()
	}
}

// ErrHandSize is returned by Evaluate for inputs outside 5..7 cards.
var ErrHandSize = errors.New("poker: evaluate requires 5 to 7 cards")

// Evaluate ranks the best 5-card sub-combination of 5 to 7 cards. It is a
// pure function with no table state, so high-volume synthetic play can call
// it directly. The wheel A-2-3-4-5 counts as the lowest straight; no other
// wrap-around straights exist.
func Evaluate(cards []Card) (EvaluatedHand, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return EvaluatedHand{}, ErrHandSize
	}

	var rankCount [15]int
	var suitCount [4]int
	var suitBits [4]uint16
	present := uint16(0)
	for _, c := range cards {
		rankCount[c.Rank]++
		suitCount[c.Suit]++
		suitBits[c.Suit] |= 1 << c.Rank
		present |= 1 << c.Rank
	}

	key := func(cat Category, ranks ...Rank) EvaluatedHand {
		h := EvaluatedHand{Category: cat}
		copy(h.TieBreak[:], ranks)
		return h
	}

	// Straight flush / royal flush first: they dominate everything below.
	for s := 0; s < 4; s++ {
		if suitCount[s] < 5 {
			continue
		}
		if top := straightTop(suitBits[s]); top != 0 {
			if top == Ace {
				return key(RoyalFlush, Ace), nil
			}
			return key(StraightFlush, top), nil
		}
	}

	// Group ranks by multiplicity, higher count first, then higher rank.
	type group struct {
		rank Rank
		cnt  int
	}
	var groups []group
	for r := Ace; r >= Two; r-- {
		if rankCount[r] > 0 {
			groups = append(groups, group{rank: r, cnt: rankCount[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].cnt != groups[j].cnt {
			return groups[i].cnt > groups[j].cnt
		}
		return groups[i].rank > groups[j].rank
	})

	kickers := func(n int, exclude ...Rank) []Rank {
		out := make([]Rank, 0, n)
		for r := Ace; r >= Two && len(out) < n; r-- {
			if rankCount[r] == 0 {
				continue
			}
			skip := false
			for _, ex := range exclude {
				if r == ex {
					skip = true
					break
				}
			}
			if !skip {
				out = append(out, r)
			}
		}
		return out
	}

	if groups[0].cnt == 4 {
		quad := groups[0].rank
		k := kickers(1, quad)
		return key(FourOfAKind, quad, k[0]), nil
	}

	if groups[0].cnt == 3 {
		trip := groups[0].rank
		// A second trip or any pair completes a full house.
		for _, g := range groups[1:] {
			if g.cnt >= 2 {
				return key(FullHouse, trip, g.rank), nil
			}
		}
	}

	for s := 0; s < 4; s++ {
		if suitCount[s] < 5 {
			continue
		}
		top5 := make([]Rank, 0, 5)
		for r := Ace; r >= Two && len(top5) < 5; r-- {
			if suitBits[s]&(1<<r) != 0 {
				top5 = append(top5, r)
			}
		}
		return key(Flush, top5...), nil
	}

	if top := straightTop(present); top != 0 {
		return key(Straight, top), nil
	}

	if groups[0].cnt == 3 {
		trip := groups[0].rank
		ks := kickers(2, trip)
		return key(ThreeOfAKind, trip, ks[0], ks[1]), nil
	}

	if len(groups) > 1 && groups[0].cnt == 2 && groups[1].cnt == 2 {
		hi, lo := groups[0].rank, groups[1].rank
		k := kickers(1, hi, lo)
		return key(TwoPair, hi, lo, k[0]), nil
	}

	if groups[0].cnt == 2 {
		pair := groups[0].rank
		ks := kickers(3, pair)
		return key(OnePair, pair, ks[0], ks[1], ks[2]), nil
	}

	top5 := kickers(5)
	return key(HighCard, top5...), nil
}

// straightTop returns the top rank of the highest 5-run in a rank bitset, or
// 0 if none. The wheel (A,2,3,4,5) reports Five as its top rank.
func straightTop(bits uint16) Rank {
	run := 0
	for r := Ace; r >= Two; r-- {
		if bits&(1<<r) != 0 {
			run++
			if run == 5 {
				return r + 4
			}
		} else {
			run = 0
		}
	}
	const wheel = 1<<uint(Ace) | 1<<uint(Five) | 1<<uint(Four) | 1<<uint(Three) | 1<<uint(Two)
	if bits&wheel == wheel {
		return Five
	}
	return 0
}
