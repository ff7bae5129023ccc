package table

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPlayer is returned for actions by players not seated at
	// the table.
	ErrUnknownPlayer = errors.New("table: unknown player")
	// ErrNotPlayersTurn is returned when a player acts out of turn. The
	// table state is unchanged.
	ErrNotPlayersTurn = errors.New("table: not player's turn")
	// ErrHandFinished is returned for actions on a terminal hand.
	ErrHandFinished = errors.New("table: hand already finished")
	// ErrSeatCount is returned by New for fewer than 2 or more than 9 seats.
	ErrSeatCount = errors.New("table: need 2 to 9 seated players")
	// ErrVoided is returned for actions on a voided hand.
	ErrVoided = errors.New("table: hand voided")
)

// IllegalActionError rejects an action with a human-readable reason. The
// table state is unchanged when it is returned.
type IllegalActionError struct {
	Kind   ActionKind
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("table: illegal %s: %s", e.Kind, e.Reason)
}

func illegal(kind ActionKind, format string, args ...any) error {
	return &IllegalActionError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
