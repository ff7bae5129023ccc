package table

import "sort"

// Pot is one contested pot. Eligible lists the players who can win it,
// in seat order clockwise from the dealer.
type Pot struct {
	Amount   int64
	Eligible []PlayerID
}

// Pots splits the total contributions into a main pot and side pots. Each
// distinct all-in contribution level caps a pot layer; folded players' chips
// stay in the layers they contributed to but folded players are never
// eligible. A player all-in for 50 against two players at 100 each yields a
// 150 main pot open to all three and a 100 side pot between the other two.
func (t *Table) Pots() []Pot {
	levels := make([]int64, 0, len(t.Seats))
	for _, s := range t.Seats {
		if s.Total > 0 {
			levels = append(levels, s.Total)
		}
	}
	if len(levels) == 0 {
		return nil
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var pots []Pot
	var prev int64
	for _, level := range levels {
		if level == prev {
			continue
		}
		pot := Pot{}
		for i := range t.Seats {
			s := t.Seats[(t.Dealer+1+i)%len(t.Seats)]
			contrib := s.Total
			if contrib > level {
				contrib = level
			}
			if contrib > prev {
				pot.Amount += contrib - prev
			}
			if s.Total >= level && s.live() {
				pot.Eligible = append(pot.Eligible, s.ID)
			}
		}
		if pot.Amount > 0 {
			if len(pot.Eligible) == 0 && len(pots) > 0 {
				// Overage from a player who later folded; no one
				// reaches this layer live, so it joins the pot below.
				pots[len(pots)-1].Amount += pot.Amount
			} else {
				pots = append(pots, pot)
			}
		}
		prev = level
	}

	return pots
}
