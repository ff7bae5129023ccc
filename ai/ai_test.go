package ai

import (
	"math/rand"
	"testing"

	"fishtank/poker"
	"fishtank/table"
	"fishtank/traits"
)

// sampleView deals a random hole (and optionally a flop) into a view facing
// a pot-sized bet.
func sampleView(t *testing.T, rng *rand.Rand, communityCards int) table.View {
	t.Helper()
	deck := poker.NewDeckRand(rng)
	hole, err := deck.Draw(2)
	if err != nil {
		t.Fatal(err)
	}
	community, err := deck.Draw(communityCards)
	if err != nil {
		t.Fatal(err)
	}
	return table.View{
		Phase:      table.Flop,
		Hole:       hole,
		Community:  community,
		Pot:        20,
		CurrentBet: 10,
		ToCall:     10,
		MinRaise:   10,
		BigBlind:   2,
		Stack:      200,
	}
}

func raiseRate(t *testing.T, p Policy, seed int64, n int) float64 {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	raises := 0
	for i := 0; i < n; i++ {
		act, _ := p.Decide(sampleView(t, rng, 3))
		if act.Kind == table.Raise {
			raises++
		}
	}
	return float64(raises) / float64(n)
}

func TestDecisionsAlwaysLegal(t *testing.T) {
	policies := []Policy{
		NewFish(traits.Avoid, rand.New(rand.NewSource(1))),
		NewFish(traits.Passive, rand.New(rand.NewSource(2))),
		NewFish(traits.Opportunistic, rand.New(rand.NewSource(3))),
		NewFish(traits.Aggressive, rand.New(rand.NewSource(4))),
	}
	for _, name := range PersonaNames() {
		p, err := NewPersona(name, 99)
		if err != nil {
			t.Fatal(err)
		}
		policies = append(policies, p)
	}

	for _, p := range policies {
		t.Run(p.Name(), func(t *testing.T) {
			for hand := 0; hand < 50; hand++ {
				tbl, err := table.New([]table.Seating{
					{ID: "a", Species: traits.Fish, Stake: 200},
					{ID: "b", Species: traits.Fish, Stake: 200},
				}, hand%2, 1, 2, int64(hand))
				if err != nil {
					t.Fatal(err)
				}
				for steps := 0; !tbl.Terminal() && steps < 500; steps++ {
					id := tbl.TurnID()
					act, reason := p.Decide(tbl.ViewFor(id))
					if err := tbl.Apply(id, act); err != nil {
						t.Fatalf("hand %d: %s decided illegal %s (%s): %v",
							hand, p.Name(), act.Kind, reason, err)
					}
				}
				if !tbl.Terminal() {
					t.Fatalf("hand %d never terminated", hand)
				}
			}
		})
	}
}

func TestAlwaysFoldNeverInvests(t *testing.T) {
	p, err := NewPersona("always_fold", 1)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(5))

	v := sampleView(t, rng, 3)
	if act, _ := p.Decide(v); act.Kind != table.Fold {
		t.Errorf("facing a bet: %s, want fold", act.Kind)
	}
	v.ToCall = 0
	if act, _ := p.Decide(v); act.Kind != table.Check {
		t.Errorf("free to play: %s, want check", act.Kind)
	}
}

func TestPersonaAggressionOrdering(t *testing.T) {
	rates := make(map[string]float64)
	for _, name := range []string{"tight_passive", "tight_aggressive", "maniac"} {
		p, err := NewPersona(name, 7)
		if err != nil {
			t.Fatal(err)
		}
		rates[name] = raiseRate(t, p, 11, 600)
	}
	if rates["tight_passive"] != 0 {
		t.Errorf("tight_passive raise rate = %.2f, want 0", rates["tight_passive"])
	}
	if rates["tight_aggressive"] <= rates["tight_passive"] {
		t.Errorf("tight_aggressive %.2f not above tight_passive %.2f",
			rates["tight_aggressive"], rates["tight_passive"])
	}
	if rates["maniac"] <= rates["tight_aggressive"] {
		t.Errorf("maniac %.2f not above tight_aggressive %.2f",
			rates["maniac"], rates["tight_aggressive"])
	}
	if rates["maniac"] < 0.7 {
		t.Errorf("maniac raise rate = %.2f, want most of the time", rates["maniac"])
	}
}

func TestFishEngagementShapesPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	avoid := NewFish(traits.Avoid, rand.New(rand.NewSource(22)))
	for i := 0; i < 100; i++ {
		v := sampleView(t, rng, 3)
		if act, _ := avoid.Decide(v); act.Kind != table.Fold {
			t.Fatalf("avoid fish %s facing a bet, want fold", act.Kind)
		}
	}

	passive := NewFish(traits.Passive, rand.New(rand.NewSource(23)))
	aggressive := NewFish(traits.Aggressive, rand.New(rand.NewSource(24)))
	if r := raiseRate(t, passive, 31, 600); r != 0 {
		t.Errorf("passive fish raise rate = %.2f, want 0", r)
	}
	if r := raiseRate(t, aggressive, 31, 600); r < 0.05 {
		t.Errorf("aggressive fish raise rate = %.2f, want substantial", r)
	}
}

func TestFishFromGene(t *testing.T) {
	cases := []struct {
		gene float64
		want traits.Engagement
	}{
		{0.05, traits.Avoid},
		{0.3, traits.Passive},
		{0.6, traits.Opportunistic},
		{0.9, traits.Aggressive},
	}
	for _, tc := range cases {
		f := NewFishFromGene(tc.gene, rand.New(rand.NewSource(1)))
		if f.Engagement != tc.want {
			t.Errorf("gene %.2f: engagement %v, want %v", tc.gene, f.Engagement, tc.want)
		}
	}
}

func TestStrengthHeuristics(t *testing.T) {
	aces := []poker.Card{
		{Rank: poker.Ace, Suit: poker.Spades},
		{Rank: poker.Ace, Suit: poker.Hearts},
	}
	junk := []poker.Card{
		{Rank: poker.Seven, Suit: poker.Clubs},
		{Rank: poker.Two, Suit: poker.Diamonds},
	}
	if Strength(aces, nil) <= Strength(junk, nil) {
		t.Error("pocket aces not stronger than 7-2 offsuit pre-flop")
	}

	board := []poker.Card{
		{Rank: poker.Ace, Suit: poker.Diamonds},
		{Rank: poker.Ace, Suit: poker.Clubs},
		{Rank: poker.Nine, Suit: poker.Hearts},
	}
	if got := Strength(aces, board); got < 0.6 {
		t.Errorf("quad aces strength = %.2f, want high", got)
	}
	for _, hole := range [][]poker.Card{aces, junk} {
		for _, community := range [][]poker.Card{nil, board} {
			if s := Strength(hole, community); s < 0 || s > 1 {
				t.Errorf("strength %.2f out of range", s)
			}
		}
	}
}

func TestSuggestDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	v := sampleView(t, rng, 3)

	a1, r1 := Suggest(v, 5)
	a2, r2 := Suggest(v, 5)
	if a1 != a2 || r1 != r2 {
		t.Errorf("same seed gave %v/%q then %v/%q", a1.Kind, r1, a2.Kind, r2)
	}
}

func TestTierLadder(t *testing.T) {
	seen := map[string]bool{}
	var prevElo float64
	for i, tier := range Tiers {
		if i > 0 && tier.Elo <= prevElo {
			t.Errorf("tier %s Elo %.0f not above previous %.0f", tier.Name, tier.Elo, prevElo)
		}
		prevElo = tier.Elo
		if len(tier.Personas) == 0 {
			t.Errorf("tier %s has no personas", tier.Name)
		}
		for _, name := range tier.Personas {
			if seen[name] {
				t.Errorf("persona %s in more than one tier", name)
			}
			seen[name] = true
			if _, err := NewPersona(name, 1); err != nil {
				t.Errorf("tier %s: %v", tier.Name, err)
			}
		}
	}
	if _, err := NewPersona("nope", 1); err == nil {
		t.Error("unknown persona accepted")
	}
}
