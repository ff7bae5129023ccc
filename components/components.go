// Package components defines the ECS components for the poker-playing
// population.
package components

import "fishtank/traits"

// Identity names an entity towards the poker subsystem.
type Identity struct {
	ID      string
	Species traits.Species
}

// Purse is the entity's energy balance. Only the ledger settlement path may
// change it once a hand is underway.
type Purse struct {
	Energy int64
}

// Genes carries the heritable poker traits. Aggression in [0,1] maps to the
// discrete engagement levels.
type Genes struct {
	Aggression float64
}

// PlayStats accumulates an entity's poker career.
type PlayStats struct {
	HandsPlayed int
	HandsWon    int
	NetEnergy   int64
	Elo         float64
}
