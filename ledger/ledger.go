// Package ledger settles finished hands into energy deltas. It is the only
// code path allowed to mutate player balances: betting escrows chips on the
// table, and the ledger turns the final table state into signed per-player
// deltas, a house cut and per-species book entries for reconciliation.
package ledger

import (
	"errors"
	"fmt"

	"fishtank/poker"
	"fishtank/table"
	"fishtank/traits"
)

var (
	// ErrNotTerminal is returned when resolving a hand still in progress.
	ErrNotTerminal = errors.New("ledger: hand not finished")
	// ErrVoidedHand is returned when Resolve is called on a voided table;
	// voided hands settle through Rollback instead.
	ErrVoidedHand = errors.New("ledger: hand voided, use rollback")
	// ErrConservation flags a settlement that does not conserve energy.
	// It indicates an internal fault and voids the session.
	ErrConservation = errors.New("ledger: payouts do not conserve pot")
)

// Book is one species' view of a settled hand. Transfers are recorded at
// their grossed-up pre-cut amounts so that opposing species' books cancel
// exactly; the cut appears only in the winning species' book.
type Book struct {
	In  int64
	Out int64
	Cut int64
}

// Net is the species' energy change for the hand.
func (b Book) Net() int64 { return b.In - b.Out - b.Cut }

// Outcome is a fully settled hand.
type Outcome struct {
	Deltas      map[table.PlayerID]int64
	HouseCut    int64
	Winners     []table.PlayerID
	WinningHand string
	Books       map[traits.Species]Book
	Voided      bool
}

// TotalTransacted is the gross energy that changed hands, counted once.
func (o *Outcome) TotalTransacted() int64 {
	var sum int64
	for _, d := range o.Deltas {
		if d > 0 {
			sum += d
		}
	}
	return sum + o.HouseCut
}

// Resolve settles a terminal table: winners per pot via hand evaluation over
// each pot's eligible players, even tie splits with odd chips going one each
// to winners clockwise from the dealer, then the house cut taken from each
// winner's net winnings only.
func Resolve(t *table.Table, cutRate float64) (*Outcome, error) {
	switch t.Phase {
	case table.Void:
		return nil, ErrVoidedHand
	case table.Showdown, table.HandOver:
	default:
		return nil, ErrNotTerminal
	}

	payouts := make(map[table.PlayerID]int64)
	won := make(map[table.PlayerID]bool)
	var winners []table.PlayerID
	var winningHand string

	for _, pot := range t.Pots() {
		potWinners, hand, err := potWinners(t, pot)
		if err != nil {
			return nil, err
		}
		if winningHand == "" {
			winningHand = hand
		}
		share := pot.Amount / int64(len(potWinners))
		odd := pot.Amount % int64(len(potWinners))
		for _, id := range potWinners {
			payouts[id] += share
			if odd > 0 {
				payouts[id]++
				odd--
			}
			if !won[id] {
				won[id] = true
				winners = append(winners, id)
			}
		}
	}

	out := &Outcome{
		Deltas:      make(map[table.PlayerID]int64),
		Winners:     winners,
		WinningHand: winningHand,
		Books:       make(map[traits.Species]Book),
	}
	for _, s := range t.Seats {
		payout := payouts[s.ID]
		net := payout - s.Total
		var cut int64
		if net > 0 {
			cut = int64(float64(net) * cutRate)
		}
		out.Deltas[s.ID] = payout - cut - s.Total
		out.HouseCut += cut

		book := out.Books[s.Species]
		if net > 0 {
			book.In += net
			book.Cut += cut
		} else {
			book.Out += -net
		}
		out.Books[s.Species] = book
	}

	var check int64
	for _, d := range out.Deltas {
		check += d
	}
	if check+out.HouseCut != 0 {
		return nil, fmt.Errorf("%w: deltas %d + cut %d over pot %d",
			ErrConservation, check, out.HouseCut, t.PotTotal())
	}
	return out, nil
}

// potWinners picks the winners of one pot: the sole eligible player when the
// pot is uncontested, otherwise the best evaluated hands among the eligible,
// ordered clockwise from the dealer.
func potWinners(t *table.Table, pot table.Pot) ([]table.PlayerID, string, error) {
	if len(pot.Eligible) == 0 {
		return nil, "", fmt.Errorf("%w: pot of %d with no eligible players", ErrConservation, pot.Amount)
	}
	if len(pot.Eligible) == 1 {
		return pot.Eligible, "", nil
	}

	var best poker.EvaluatedHand
	var winners []table.PlayerID
	for _, id := range pot.Eligible {
		seat := t.Seat(id)
		hand, err := poker.Evaluate(append(append([]poker.Card(nil), seat.Hole...), t.Community...))
		if err != nil {
			return nil, "", fmt.Errorf("ledger: evaluating %s: %w", id, err)
		}
		switch {
		case len(winners) == 0 || best.Less(hand):
			best = hand
			winners = winners[:0]
			winners = append(winners, id)
		case best.Equal(hand):
			winners = append(winners, id)
		}
	}
	return winners, best.Describe(), nil
}
