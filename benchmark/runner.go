package benchmark

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"fishtank/ai"
	"fishtank/config"
	"fishtank/ledger"
	"fishtank/table"
	"fishtank/traits"
)

// Individual is one sampled population member.
type Individual struct {
	ID         table.PlayerID
	Aggression float64 // raw gene, mapped to an engagement level
	Elo        float64
}

// Population is the benchmark's view of the live ecosystem.
type Population interface {
	SampleForBenchmark(n int, rng *rand.Rand) []Individual
	SetElo(id table.PlayerID, elo float64)
}

// Runner plays headless calibration batches and appends the results to its
// store. It shares the table and ledger code with live play but skips all
// pacing; a run is one self-contained batch.
type Runner struct {
	log   *slog.Logger
	store Store
	out   *OutputManager // optional CSV mirror
	rng   *rand.Rand
	now   func() time.Time
}

func NewRunner(store Store, out *OutputManager, seed int64, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		log:   log,
		store: store,
		out:   out,
		rng:   rand.New(rand.NewSource(seed)),
		now:   time.Now,
	}
}

// ShouldRun reports whether a benchmark is due at the given tick.
func (r *Runner) ShouldRun(tick int64) bool {
	interval := config.Cfg().Benchmark.IntervalTicks
	return interval > 0 && tick > 0 && tick%interval == 0
}

// Run samples the population, plays every individual against every baseline
// tier and appends one snapshot. Elo updates flow back into the population.
func (r *Runner) Run(tick int64, pop Population) (Snapshot, error) {
	cfg := config.Cfg().Benchmark
	sample := pop.SampleForBenchmark(cfg.SampleSize, r.rng)
	if len(sample) == 0 {
		return Snapshot{}, ErrEmptySample
	}

	snap := Snapshot{
		Tick:       tick,
		Time:       r.now(),
		SampleSize: len(sample),
		Tiers:      make(map[string]TierStats, len(ai.Tiers)),
	}
	tierBB := make(map[string]float64, len(ai.Tiers))
	tierConf := make(map[string]float64, len(ai.Tiers))
	engagements := make(map[traits.Engagement]int)

	for _, ind := range sample {
		engagement := traits.EngagementFromGene(ind.Aggression)
		engagements[engagement]++
		policy := ai.NewFish(engagement, rand.New(rand.NewSource(r.rng.Int63())))

		elo := ind.Elo
		var indBB100 float64
		for _, tier := range ai.Tiers {
			bbs, err := r.playTier(policy, ind.ID, tier)
			if err != nil {
				return Snapshot{}, err
			}
			snap.HandsPlayed += len(bbs)
			var mean, std float64
			if len(bbs) > 1 {
				mean, std = stat.MeanStdDev(bbs, nil)
			} else if len(bbs) == 1 {
				mean = bbs[0]
			}
			conf := confidence(mean, std, len(bbs))
			tierBB[tier.Name] += mean * 100
			tierConf[tier.Name] += conf
			indBB100 += mean * 100

			elo += cfg.EloK * (matchScore(bbs) - expectedScore(elo, tier.Elo))
		}
		pop.SetElo(ind.ID, elo)
		snap.MeanBB100 += indBB100 / float64(len(ai.Tiers))
		snap.MeanElo += elo
	}

	n := float64(len(sample))
	snap.MeanBB100 /= n
	snap.MeanElo /= n
	snap.Dominant = dominantEngagement(engagements)
	for _, tier := range ai.Tiers {
		stats := TierStats{
			BB100:      tierBB[tier.Name] / n,
			Confidence: tierConf[tier.Name] / n,
		}
		stats.CanBeat = stats.Confidence >= cfg.CanBeat
		snap.Tiers[tier.Name] = stats
	}

	if err := r.store.Append(snap); err != nil {
		return Snapshot{}, err
	}
	if err := r.out.WriteSnapshot(snap); err != nil {
		r.log.Warn("benchmark csv write failed", "err", err)
	}
	r.log.Info("benchmark snapshot",
		"tick", tick, "sample", snap.SampleSize, "hands", snap.HandsPlayed,
		"bb100", snap.MeanBB100, "elo", snap.MeanElo, "dominant", snap.Dominant)
	return snap, nil
}

// playTier plays the configured number of hands against one tier, cycling
// through its personas, and returns the per-hand big-blind results.
func (r *Runner) playTier(policy ai.Policy, id table.PlayerID, tier ai.Tier) ([]float64, error) {
	cfg := config.Cfg().Benchmark
	personas := make([]ai.Policy, len(tier.Personas))
	for i, name := range tier.Personas {
		p, err := ai.NewPersona(name, r.rng.Int63())
		if err != nil {
			return nil, err
		}
		personas[i] = p
	}

	const opponentID table.PlayerID = "baseline"
	bbs := make([]float64, 0, cfg.HandsPerTier)
	for hand := 0; hand < cfg.HandsPerTier; hand++ {
		opponent := personas[hand%len(personas)]
		tbl, err := table.New([]table.Seating{
			{ID: id, Species: traits.Fish, Stake: cfg.BenchStake},
			{ID: opponentID, Species: traits.Persona, Stake: cfg.BenchStake},
		}, hand%2, cfg.BenchSmallBlind, cfg.BenchBigBlind, r.rng.Int63())
		if err != nil {
			return nil, err
		}

		for steps := 0; !tbl.Terminal(); steps++ {
			if steps > 1000 {
				tbl.MarkVoid("")
				break
			}
			turn := tbl.TurnID()
			actor := policy
			if turn == opponentID {
				actor = opponent
			}
			act, _ := actor.Decide(tbl.ViewFor(turn))
			if err := tbl.Apply(turn, act); err != nil {
				tbl.Apply(turn, table.Action{Kind: table.Fold})
			}
		}
		if tbl.Phase == table.Void {
			continue
		}
		out, err := ledger.Resolve(tbl, 0)
		if err != nil {
			return nil, err
		}
		bbs = append(bbs, float64(out.Deltas[id])/float64(cfg.BenchBigBlind))
	}
	return bbs, nil
}

// confidence is a one-sided z-test that the true per-hand bb mean is
// positive: Phi(mean / (std/sqrt(n))) on the unit normal. The method is
// fixed; can-beat thresholds depend on its exact behavior.
func confidence(mean, std float64, n int) float64 {
	if n == 0 {
		return 0.5
	}
	if std == 0 {
		switch {
		case mean > 0:
			return 1
		case mean < 0:
			return 0
		default:
			return 0.5
		}
	}
	z := mean / (std / math.Sqrt(float64(n)))
	return distuv.UnitNormal.CDF(z)
}

// matchScore condenses a tier batch into a win/draw/loss score for Elo.
func matchScore(bbs []float64) float64 {
	var total float64
	for _, bb := range bbs {
		total += bb
	}
	switch {
	case total > 0:
		return 1
	case total < 0:
		return 0
	default:
		return 0.5
	}
}

// expectedScore is the standard logistic Elo expectation.
func expectedScore(rating, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-rating)/400))
}

func dominantEngagement(counts map[traits.Engagement]int) string {
	best, bestCount := traits.Avoid, -1
	for _, e := range traits.Engagements {
		if counts[e] > bestCount {
			best, bestCount = e, counts[e]
		}
	}
	return traits.EngagementName(best)
}
