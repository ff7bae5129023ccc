// Package table implements the betting state machine for one poker hand:
// phases, turn order, action legality, all-in conversion and side pots.
// It never touches real energy balances; stakes are escrowed stacks whose
// final deltas are settled by the ledger package at hand resolution.
package table

import (
	"fishtank/poker"
	"fishtank/traits"
)

// PlayerID is a stable identifier supplied by the surrounding ecosystem.
type PlayerID string

// Phase is the betting state. Showdown, HandOver and Void are terminal.
type Phase int

const (
	PreFlop Phase = iota
	Flop
	Turn
	River
	Showdown
	HandOver // all but one player folded; winner takes the pot unrevealed
	Void     // participant removed mid-hand; resolved by rollback
)

func (p Phase) String() string {
	switch p {
	case PreFlop:
		return "pre_flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case HandOver:
		return "hand_over"
	case Void:
		return "void"
	default:
		return "unknown"
	}
}

// Seat is one player's in-hand state. Stack is the escrowed stake, not the
// player's real energy balance.
type Seat struct {
	ID      PlayerID
	Species traits.Species
	Stack   int64
	Hole    []poker.Card
	Folded  bool
	AllIn   bool
	Removed bool  // left the simulation mid-hand
	Round   int64 // contribution to the current betting round
	Total   int64 // contribution to the whole hand
	acted   bool
}

// live reports whether the seat still contests the pot.
func (s *Seat) live() bool { return !s.Folded && !s.Removed }

// canAct reports whether the seat has betting decisions left.
func (s *Seat) canAct() bool { return s.live() && !s.AllIn }

// Seating describes one entrant to a new hand.
type Seating struct {
	ID      PlayerID
	Species traits.Species
	Stake   int64
}

// Table drives a single hand through its betting rounds.
type Table struct {
	Seats      []*Seat
	Community  []poker.Card
	Phase      Phase
	Dealer     int
	SmallBlind int64
	BigBlind   int64
	CurrentBet int64
	MinRaise   int64

	deck *poker.Deck
	turn int // index into Seats, valid while the hand is active
}

// New deals a fresh hand: shuffles a deck from seed, deals hole cards
// clockwise from the dealer, posts blinds and opens pre-flop action left of
// the big blind. Heads-up, the dealer posts the small blind.
func New(seatings []Seating, dealer int, smallBlind, bigBlind int64, seed int64) (*Table, error) {
	if len(seatings) < 2 || len(seatings) > 9 {
		return nil, ErrSeatCount
	}

	t := &Table{
		Seats:      make([]*Seat, len(seatings)),
		Phase:      PreFlop,
		Dealer:     dealer % len(seatings),
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		MinRaise:   bigBlind,
		deck:       poker.NewDeck(seed),
	}
	for i, st := range seatings {
		t.Seats[i] = &Seat{ID: st.ID, Species: st.Species, Stack: st.Stake}
	}

	// Two hole cards each, starting left of the dealer.
	for round := 0; round < 2; round++ {
		for i := 1; i <= len(t.Seats); i++ {
			seat := t.Seats[(t.Dealer+i)%len(t.Seats)]
			cards, err := t.deck.Draw(1)
			if err != nil {
				return nil, err
			}
			seat.Hole = append(seat.Hole, cards[0])
		}
	}

	sb, bb := t.blindSeats()
	t.post(t.Seats[sb], smallBlind)
	t.post(t.Seats[bb], bigBlind)
	t.CurrentBet = bigBlind

	t.turn = t.nextActor(bb)
	// Everyone may be all-in from the blinds already.
	t.maybeAdvance()
	return t, nil
}

// blindSeats returns the small and big blind seat indices. With more than
// two players the blinds sit left of the dealer; heads-up the dealer is the
// small blind.
func (t *Table) blindSeats() (sb, bb int) {
	n := len(t.Seats)
	if n == 2 {
		return t.Dealer, (t.Dealer + 1) % n
	}
	return (t.Dealer + 1) % n, (t.Dealer + 2) % n
}

// post escrows a forced blind, going all-in when the stake cannot cover it.
func (t *Table) post(seat *Seat, amount int64) {
	pay := amount
	if seat.Stack <= amount {
		pay = seat.Stack
		seat.AllIn = true
	}
	seat.Stack -= pay
	seat.Round += pay
	seat.Total += pay
}

// nextActor returns the index of the first seat after from (clockwise) that
// can still act, or -1 if none.
func (t *Table) nextActor(from int) int {
	n := len(t.Seats)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if t.Seats[idx].canAct() {
			return idx
		}
	}
	return -1
}

// Terminal reports whether the hand has reached a terminal phase.
func (t *Table) Terminal() bool {
	return t.Phase == Showdown || t.Phase == HandOver || t.Phase == Void
}

// TurnID returns the player whose turn it is, or "" if the hand is terminal
// or nobody can act.
func (t *Table) TurnID() PlayerID {
	if t.Terminal() || t.turn < 0 {
		return ""
	}
	return t.Seats[t.turn].ID
}

// Seat returns the seat for a player id, or nil.
func (t *Table) Seat(id PlayerID) *Seat {
	for _, s := range t.Seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// PotTotal is the sum of all hand contributions so far.
func (t *Table) PotTotal() int64 {
	var sum int64
	for _, s := range t.Seats {
		sum += s.Total
	}
	return sum
}

// MarkVoid marks the hand void after the given participant was removed from
// the simulation. The table becomes terminal; the ledger's rollback settles
// contributions.
func (t *Table) MarkVoid(removed PlayerID) {
	if seat := t.Seat(removed); seat != nil {
		seat.Removed = true
	}
	t.Phase = Void
}

// liveCount counts seats still contesting the pot.
func (t *Table) liveCount() int {
	n := 0
	for _, s := range t.Seats {
		if s.live() {
			n++
		}
	}
	return n
}

// roundClosed reports whether the current betting round is finished: every
// seat that can act has acted and matched the bet, or at most one seat can
// still act and it has nothing left to call.
func (t *Table) roundClosed() bool {
	for _, s := range t.Seats {
		if !s.canAct() {
			continue
		}
		if !s.acted || s.Round != t.CurrentBet {
			return false
		}
	}
	return true
}

// maybeAdvance moves the machine forward after an action: ends the hand
// early when one player remains, advances the street when the round is
// closed, and fast-forwards to showdown when no further betting is possible.
func (t *Table) maybeAdvance() {
	if t.Terminal() {
		return
	}

	if t.liveCount() <= 1 {
		t.Phase = HandOver
		return
	}

	for !t.Terminal() && t.roundClosed() {
		if t.Phase == River {
			t.Phase = Showdown
			return
		}
		t.dealStreet()

		// Re-open action left of the dealer.
		for _, s := range t.Seats {
			s.Round = 0
			s.acted = false
		}
		t.CurrentBet = 0
		t.MinRaise = t.BigBlind
		t.turn = t.nextActor(t.Dealer)
		if t.turn < 0 {
			// Everyone remaining is all-in; keep dealing.
			continue
		}
	}
}

// dealStreet reveals the next community cards: 3 at the flop, then 1 each
// at the turn and river.
func (t *Table) dealStreet() {
	n := 1
	if t.Phase == PreFlop {
		n = 3
	}
	cards, err := t.deck.Draw(n)
	if err != nil {
		// Cannot happen with correct dealing; treated as a fatal
		// invariant violation by voiding the hand.
		t.Phase = Void
		return
	}
	t.Community = append(t.Community, cards...)
	t.Phase++
}
