package ai

// Tier groups baseline personas into calibration difficulty levels. Elo is
// the tier's fixed anchor rating; benchmark updates move the population's
// ratings against these, never the other way round.
type Tier struct {
	Name     string
	Elo      float64
	Personas []string
}

// Tiers is the calibration ladder, weakest first.
var Tiers = []Tier{
	{Name: "trivial", Elo: 800, Personas: []string{"always_fold", "random"}},
	{Name: "weak", Elo: 1000, Personas: []string{"loose_passive", "maniac"}},
	{Name: "moderate", Elo: 1200, Personas: []string{"tight_passive", "loose_aggressive"}},
	{Name: "strong", Elo: 1400, Personas: []string{"tight_aggressive"}},
	{Name: "expert", Elo: 1600, Personas: []string{"balanced"}},
}

// TierByName returns the tier with the given name, or false.
func TierByName(name string) (Tier, bool) {
	for _, t := range Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}
