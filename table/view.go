package table

import (
	"fishtank/poker"
	"fishtank/traits"
)

// SeatView is a seat as seen from outside. Cards renders the seat's hole
// cards, face down until showdown unless the seat belongs to the viewer.
type SeatView struct {
	ID      PlayerID
	Species traits.Species
	Stack   int64
	Round   int64
	Total   int64
	Folded  bool
	AllIn   bool
	Cards   []string
}

// View is the state one player may observe. Hole carries the viewer's own
// cards; opponents' cards are rendered face down until the hand reaches
// showdown.
type View struct {
	Viewer     PlayerID
	Phase      Phase
	Community  []poker.Card
	Pot        int64
	CurrentBet int64
	MinRaise   int64
	ToCall     int64
	BigBlind   int64
	Dealer     PlayerID
	Turn       PlayerID
	Hole       []poker.Card
	Stack      int64
	Seats      []SeatView
}

// ViewFor builds the observable state for one player. Unknown players get a
// spectator view with every hole card hidden.
func (t *Table) ViewFor(id PlayerID) View {
	v := View{
		Viewer:     id,
		Phase:      t.Phase,
		Community:  append([]poker.Card(nil), t.Community...),
		Pot:        t.PotTotal(),
		CurrentBet: t.CurrentBet,
		MinRaise:   t.MinRaise,
		BigBlind:   t.BigBlind,
		Dealer:     t.Seats[t.Dealer].ID,
		Turn:       t.TurnID(),
	}
	reveal := t.Phase == Showdown
	for _, s := range t.Seats {
		sv := SeatView{
			ID:      s.ID,
			Species: s.Species,
			Stack:   s.Stack,
			Round:   s.Round,
			Total:   s.Total,
			Folded:  s.Folded,
			AllIn:   s.AllIn,
		}
		open := s.ID == id || (reveal && s.live())
		for _, c := range s.Hole {
			if open {
				sv.Cards = append(sv.Cards, c.String())
			} else {
				sv.Cards = append(sv.Cards, poker.FaceDown)
			}
		}
		if s.ID == id {
			v.Hole = append([]poker.Card(nil), s.Hole...)
			v.Stack = s.Stack
			v.ToCall = t.CurrentBet - s.Round
		}
		v.Seats = append(v.Seats, sv)
	}
	return v
}
