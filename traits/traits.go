// Package traits defines species tags and the gene-derived poker engagement
// trait shared by the poker subsystem.
package traits

// Species tags the economy a participant belongs to.
type Species uint8

const (
	Fish Species = iota
	Plant
	Human
	Persona // fixed baseline opponent, outside any species economy
)

// SpeciesName returns a human-readable name for a species.
func SpeciesName(s Species) string {
	switch s {
	case Fish:
		return "fish"
	case Plant:
		return "plant"
	case Human:
		return "human"
	case Persona:
		return "persona"
	default:
		return "unknown"
	}
}

// Engagement is the discrete poker engagement trait expressed by an
// organism's strategy genes.
type Engagement uint8

const (
	Avoid Engagement = iota
	Passive
	Opportunistic
	Aggressive
)

// EngagementName returns a human-readable name for an engagement level.
func EngagementName(e Engagement) string {
	switch e {
	case Avoid:
		return "avoid"
	case Passive:
		return "passive"
	case Opportunistic:
		return "opportunistic"
	case Aggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// Engagement thresholds over the continuous aggression gene in [0,1].
const (
	avoidBelow         = 0.15
	passiveBelow       = 0.45
	opportunisticBelow = 0.75
)

// EngagementFromGene maps a continuous aggression gene value to the discrete
// engagement trait.
func EngagementFromGene(aggression float64) Engagement {
	switch {
	case aggression < avoidBelow:
		return Avoid
	case aggression < passiveBelow:
		return Passive
	case aggression < opportunisticBelow:
		return Opportunistic
	default:
		return Aggressive
	}
}

// Engagements lists all engagement levels in ascending aggression order.
var Engagements = []Engagement{Avoid, Passive, Opportunistic, Aggressive}
