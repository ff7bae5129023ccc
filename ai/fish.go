package ai

import (
	"math/rand"

	"fishtank/table"
	"fishtank/traits"
)

// fishParams tunes the stochastic policy per engagement level.
type fishParams struct {
	playThreshold  float64 // minimum strength to put chips in voluntarily
	raiseThreshold float64 // minimum strength to consider raising
	raiseChance    float64
	bluffChance    float64
	oddsSlack      float64 // how far strength may trail pot odds and still call
	raiseBB        int64
}

var engagementParams = map[traits.Engagement]fishParams{
	traits.Avoid: {
		playThreshold: 2, // never voluntarily plays
	},
	traits.Passive: {
		playThreshold:  0.35,
		raiseThreshold: 2, // never raises
		oddsSlack:      0,
	},
	traits.Opportunistic: {
		playThreshold:  0.3,
		raiseThreshold: 0.65,
		raiseChance:    0.5,
		bluffChance:    0.03,
		oddsSlack:      0.05,
		raiseBB:        3,
	},
	traits.Aggressive: {
		playThreshold:  0.25,
		raiseThreshold: 0.55,
		raiseChance:    0.75,
		bluffChance:    0.12,
		oddsSlack:      0.12,
		raiseBB:        4,
	},
}

// Fish is the gene-driven policy. The engagement trait decides how much of
// the strength/odds tradeoff the fish respects; the rng drives its mixed
// decisions and must be owned by the caller for reproducibility.
type Fish struct {
	Engagement traits.Engagement
	rng        *rand.Rand
}

func NewFish(engagement traits.Engagement, rng *rand.Rand) *Fish {
	return &Fish{Engagement: engagement, rng: rng}
}

// NewFishFromGene derives the engagement level from the raw aggression gene.
func NewFishFromGene(aggression float64, rng *rand.Rand) *Fish {
	return NewFish(traits.EngagementFromGene(aggression), rng)
}

func (f *Fish) Name() string { return "fish_" + traits.EngagementName(f.Engagement) }

func (f *Fish) Decide(v table.View) (table.Action, string) {
	p := engagementParams[f.Engagement]
	strength := Strength(v.Hole, v.Community)
	odds := PotOdds(v)

	if strength < p.playThreshold {
		if p.bluffChance > 0 && f.rng.Float64() < p.bluffChance {
			return raiseBy(v, p.raiseBB), reasonf("bluff at strength %.2f", strength)
		}
		return checkOrFold(v), reasonf("strength %.2f below %.2f", strength, p.playThreshold)
	}
	if strength >= p.raiseThreshold && f.rng.Float64() < p.raiseChance {
		return raiseBy(v, p.raiseBB), reasonf("value raise at strength %.2f", strength)
	}
	if strength+p.oddsSlack >= odds {
		return callOrCheck(v), reasonf("strength %.2f covers pot odds %.2f", strength, odds)
	}
	return checkOrFold(v), reasonf("pot odds %.2f too steep for strength %.2f", odds, strength)
}
