package table

// ActionKind enumerates the legal betting moves.
type ActionKind string

const (
	Fold  ActionKind = "fold"
	Check ActionKind = "check"
	Call  ActionKind = "call"
	Raise ActionKind = "raise"
)

// Action is one player's move. Amount is the raise increment above the
// current bet-to-match and is ignored for the other kinds.
type Action struct {
	Kind   ActionKind
	Amount int64
}

// Apply validates and applies one action for the player whose turn it is.
// An illegal action is rejected with an IllegalActionError and no state
// mutation.
func (t *Table) Apply(id PlayerID, act Action) error {
	if t.Phase == Void {
		return ErrVoided
	}
	if t.Terminal() {
		return ErrHandFinished
	}
	seat := t.Seat(id)
	if seat == nil {
		return ErrUnknownPlayer
	}
	if t.TurnID() != id {
		return ErrNotPlayersTurn
	}

	switch act.Kind {
	case Fold:
		seat.Folded = true
		seat.acted = true

	case Check:
		if seat.Round != t.CurrentBet {
			return illegal(Check, "facing a bet of %d with only %d contributed", t.CurrentBet, seat.Round)
		}
		seat.acted = true

	case Call:
		need := t.CurrentBet - seat.Round
		if need <= 0 {
			return illegal(Call, "nothing to call; check instead")
		}
		t.commit(seat, need)
		seat.acted = true

	case Raise:
		if act.Amount < t.MinRaise {
			return illegal(Raise, "raise %d below minimum %d", act.Amount, t.MinRaise)
		}
		target := t.CurrentBet + act.Amount
		need := target - seat.Round
		if need <= 0 {
			return illegal(Raise, "raise target %d already matched", target)
		}
		short := need > seat.Stack
		t.commit(seat, need)
		seat.acted = true
		if seat.Round > t.CurrentBet {
			if !short {
				// A full raise re-opens action and sets the new
				// minimum to its increment.
				t.MinRaise = act.Amount
				for _, s := range t.Seats {
					if s != seat && s.canAct() {
						s.acted = false
					}
				}
			}
			t.CurrentBet = seat.Round
		}

	default:
		return illegal(act.Kind, "unknown action")
	}

	t.turn = t.nextActor(t.turn)
	t.maybeAdvance()
	return nil
}

// commit escrows up to amount from the seat's stack, converting an over-bet
// into an all-in so a contribution can never exceed the escrowed stake.
func (t *Table) commit(seat *Seat, amount int64) {
	if amount >= seat.Stack {
		amount = seat.Stack
		seat.AllIn = true
	}
	seat.Stack -= amount
	seat.Round += amount
	seat.Total += amount
}
