// Package session orchestrates concurrent poker tables inside the
// simulation loop. Each tick advances every active table by at most one
// decision, so no table can stall the frame. Human seats are driven by an
// out-of-band command slot; everything else is decided by an ai.Policy.
package session

import (
	"errors"

	"github.com/google/uuid"

	"fishtank/ai"
	"fishtank/ledger"
	"fishtank/table"
	"fishtank/traits"
)

var (
	// ErrSessionNotFound rejects commands for unknown or closed sessions.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrInsufficientStake rejects session creation when a player cannot
	// cover the stake.
	ErrInsufficientStake = errors.New("session: stake exceeds player balance")
	// ErrTableLimit rejects session creation above the configured table cap.
	ErrTableLimit = errors.New("session: table limit reached")
	// ErrHandInProgress rejects starting a new hand before the current one
	// is settled.
	ErrHandInProgress = errors.New("session: hand still in progress")
)

// Economy is the ecosystem's view of player balances. Balances are only
// mutated through Credit at hand resolution; betting escrows chips on the
// table without touching them.
type Economy interface {
	Balance(id table.PlayerID) (int64, bool)
	Credit(id table.PlayerID, delta int64)
}

// PlayerSpec seats one player. A nil Policy marks a human-controlled seat
// fed through SubmitAction.
type PlayerSpec struct {
	ID      table.PlayerID
	Species traits.Species
	Policy  ai.Policy
}

// EventType tags entries in the outcome feed.
type EventType string

const (
	EventOutcome EventType = "outcome"
	EventVoided  EventType = "voided"
)

// Event is one settled hand, voided or not, for the surrounding system.
type Event struct {
	Session uuid.UUID
	Hand    int
	Type    EventType
	Outcome *ledger.Outcome
}

// Session is one table plus its roster across consecutive hands.
type Session struct {
	ID    uuid.UUID
	Stake int64

	players []PlayerSpec
	tbl     *table.Table
	dealer  int
	hands   int

	pending    *table.Action
	pendingFor table.PlayerID
	waiting    int
}

// Table exposes the current hand, nil between hands.
func (s *Session) Table() *table.Table { return s.tbl }

// Hands is the number of hands settled so far in this session.
func (s *Session) Hands() int { return s.hands }

func (s *Session) spec(id table.PlayerID) *PlayerSpec {
	for i := range s.players {
		if s.players[i].ID == id {
			return &s.players[i]
		}
	}
	return nil
}

func (s *Session) dropPlayer(id table.PlayerID) {
	for i := range s.players {
		if s.players[i].ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return
		}
	}
}
