package ai

import (
	"fmt"
	"math/rand"
	"sort"

	"fishtank/table"
)

// persona is a fixed baseline rule. Personas never evolve; they exist so
// population skill can be measured against stable opposition.
type persona struct {
	name string
	rng  *rand.Rand
	fn   func(p *persona, v table.View) (table.Action, string)
}

func (p *persona) Name() string { return p.name }

func (p *persona) Decide(v table.View) (table.Action, string) { return p.fn(p, v) }

var personaRules = map[string]func(p *persona, v table.View) (table.Action, string){
	"always_fold": func(_ *persona, v table.View) (table.Action, string) {
		return checkOrFold(v), "never plays a hand"
	},
	"random": func(p *persona, v table.View) (table.Action, string) {
		switch p.rng.Intn(3) {
		case 0:
			return checkOrFold(v), "coin flip"
		case 1:
			return callOrCheck(v), "coin flip"
		default:
			return raiseBy(v, 2), "coin flip"
		}
	},
	"loose_passive": func(p *persona, v table.View) (table.Action, string) {
		// The calling station: sees nearly every showdown, almost
		// never applies pressure.
		if p.rng.Float64() < 0.03 {
			return raiseBy(v, 2), "rare stab"
		}
		return callOrCheck(v), "calls anything"
	},
	"tight_passive": func(p *persona, v table.View) (table.Action, string) {
		s := Strength(v.Hole, v.Community)
		if s < 0.45 {
			return checkOrFold(v), reasonf("rock folds %.2f", s)
		}
		return callOrCheck(v), reasonf("rock calls %.2f", s)
	},
	"tight_aggressive": func(p *persona, v table.View) (table.Action, string) {
		s := Strength(v.Hole, v.Community)
		switch {
		case s < 0.45:
			return checkOrFold(v), reasonf("below range at %.2f", s)
		case s >= 0.6:
			return raiseBy(v, 3), reasonf("value bet at %.2f", s)
		default:
			return callOrCheck(v), reasonf("marginal call at %.2f", s)
		}
	},
	"loose_aggressive": func(p *persona, v table.View) (table.Action, string) {
		s := Strength(v.Hole, v.Community)
		switch {
		case s < 0.2:
			return checkOrFold(v), reasonf("giving up at %.2f", s)
		case s >= 0.45 || p.rng.Float64() < 0.25:
			return raiseBy(v, 3), reasonf("pressure at %.2f", s)
		default:
			return callOrCheck(v), reasonf("floating at %.2f", s)
		}
	},
	"balanced": func(p *persona, v table.View) (table.Action, string) {
		s := Strength(v.Hole, v.Community)
		odds := PotOdds(v)
		switch {
		case s >= 0.6 && p.rng.Float64() < 0.6:
			return raiseBy(v, 3), reasonf("value raise at %.2f", s)
		case p.rng.Float64() < 0.05:
			return raiseBy(v, 2), "balancing bluff"
		case s+0.05 >= odds && s >= 0.3:
			return callOrCheck(v), reasonf("strength %.2f covers odds %.2f", s, odds)
		default:
			return checkOrFold(v), reasonf("strength %.2f under odds %.2f", s, odds)
		}
	},
	"maniac": func(p *persona, v table.View) (table.Action, string) {
		if p.rng.Float64() < 0.85 {
			return raiseBy(v, 4), "maximum pressure"
		}
		return callOrCheck(v), "briefly calms down"
	},
}

// NewPersona builds a baseline persona by name. The seed drives any random
// mixing the persona does, so a fixed seed reproduces its play exactly.
func NewPersona(name string, seed int64) (Policy, error) {
	fn, ok := personaRules[name]
	if !ok {
		return nil, fmt.Errorf("ai: unknown persona %q", name)
	}
	return &persona{name: name, rng: rand.New(rand.NewSource(seed)), fn: fn}, nil
}

// PersonaNames lists every baseline persona in stable order.
func PersonaNames() []string {
	names := make([]string, 0, len(personaRules))
	for name := range personaRules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest is the autopilot hint for a human seat: the balanced persona's
// choice for the given view, non-binding.
func Suggest(v table.View, seed int64) (table.Action, string) {
	p, _ := NewPersona("balanced", seed)
	return p.Decide(v)
}
