package session

import (
	"fishtank/ledger"
	"fishtank/table"
	"fishtank/traits"
)

// Stats aggregates play across all sessions. Voided hands only ever touch
// HandsVoided; every other counter covers settled hands.
type Stats struct {
	SessionsStarted  int
	HandsPlayed      int
	HandsVoided      int
	EnergyTransacted int64
	WinsBySpecies    map[traits.Species]int
	HandsBySpecies   map[traits.Species]int
}

func newStats() Stats {
	return Stats{
		WinsBySpecies:  make(map[traits.Species]int),
		HandsBySpecies: make(map[traits.Species]int),
	}
}

func (st *Stats) record(tbl *table.Table, out *ledger.Outcome) {
	st.HandsPlayed++
	st.EnergyTransacted += out.TotalTransacted()
	for _, seat := range tbl.Seats {
		st.HandsBySpecies[seat.Species]++
	}
	counted := make(map[traits.Species]bool)
	for _, w := range out.Winners {
		seat := tbl.Seat(w)
		if seat == nil || counted[seat.Species] {
			continue
		}
		counted[seat.Species] = true
		st.WinsBySpecies[seat.Species]++
	}
}

// WinRate is the fraction of a species' hands it won at least a pot in.
func (st Stats) WinRate(sp traits.Species) float64 {
	hands := st.HandsBySpecies[sp]
	if hands == 0 {
		return 0
	}
	return float64(st.WinsBySpecies[sp]) / float64(hands)
}

func (st Stats) clone() Stats {
	out := st
	out.WinsBySpecies = make(map[traits.Species]int, len(st.WinsBySpecies))
	out.HandsBySpecies = make(map[traits.Species]int, len(st.HandsBySpecies))
	for k, v := range st.WinsBySpecies {
		out.WinsBySpecies[k] = v
	}
	for k, v := range st.HandsBySpecies {
		out.HandsBySpecies[k] = v
	}
	return out
}
