package ledger

import (
	"fishtank/table"
	"fishtank/traits"
)

// Rollback settles a voided hand. Contributions are returned to the players
// still in the simulation; a removed player's chips are shared among the
// remaining contributors pro-rata by their own contributions, remainder
// chips going one each clockwise from the dealer. Nothing is awarded on
// merit and the house takes no cut.
func Rollback(t *table.Table) *Outcome {
	out := &Outcome{
		Deltas: make(map[table.PlayerID]int64),
		Books:  make(map[traits.Species]Book),
		Voided: true,
	}

	var removedPool, remainingTotal int64
	var remaining []*table.Seat
	for i := range t.Seats {
		s := t.Seats[(t.Dealer+1+i)%len(t.Seats)]
		if s.Removed {
			removedPool += s.Total
			continue
		}
		remaining = append(remaining, s)
		remainingTotal += s.Total
	}

	for _, s := range remaining {
		// Own contribution always comes back.
		out.Deltas[s.ID] = 0
	}

	if removedPool > 0 && len(remaining) > 0 {
		distributed := int64(0)
		for _, s := range remaining {
			var share int64
			if remainingTotal > 0 {
				share = removedPool * s.Total / remainingTotal
			} else {
				share = removedPool / int64(len(remaining))
			}
			out.Deltas[s.ID] += share
			distributed += share
		}
		rest := removedPool - distributed
		for i := int64(0); i < rest; i++ {
			out.Deltas[remaining[i%int64(len(remaining))].ID]++
		}
	}

	for i := range t.Seats {
		s := t.Seats[i]
		if !s.Removed {
			continue
		}
		out.Deltas[s.ID] = -s.Total
		book := out.Books[s.Species]
		book.Out += s.Total
		out.Books[s.Species] = book
	}
	for _, s := range remaining {
		if d := out.Deltas[s.ID]; d > 0 {
			book := out.Books[s.Species]
			book.In += d
			out.Books[s.Species] = book
		}
	}
	return out
}
