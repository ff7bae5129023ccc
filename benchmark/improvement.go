package benchmark

import (
	"gonum.org/v1/gonum/stat"

	"fishtank/config"
)

// Status tags benchmark query results.
type Status string

const (
	StatusOK Status = "ok"
	// StatusInsufficientData marks queries made before min_snapshots
	// runs have accumulated. It is a status, not an error.
	StatusInsufficientData Status = "insufficient_data"
)

// Trend is the direction of the bb/100 history.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendFlat      Trend = "flat"
)

// trendEpsilon is the slope, in bb/100 per snapshot, below which the
// history counts as flat.
const trendEpsilon = 0.1

// Improvement is the derived view over the snapshot history.
type Improvement struct {
	Status     Status
	Trend      Trend
	Slope      float64 // bb/100 per snapshot
	DeltaBB100 float64 // change since the first retained snapshot
	CanBeat    map[string]bool
	Latest     *Snapshot
}

// ComputeImprovement derives trend metrics from an ordered history. Fewer
// snapshots than the configured minimum yield StatusInsufficientData with
// everything else zeroed.
func ComputeImprovement(history []Snapshot) Improvement {
	if len(history) < config.Cfg().Benchmark.MinSnapshots {
		return Improvement{Status: StatusInsufficientData}
	}

	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, snap := range history {
		xs[i] = float64(i)
		ys[i] = snap.MeanBB100
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)

	latest := history[len(history)-1]
	imp := Improvement{
		Status:     StatusOK,
		Slope:      slope,
		DeltaBB100: latest.MeanBB100 - history[0].MeanBB100,
		CanBeat:    make(map[string]bool, len(latest.Tiers)),
		Latest:     &latest,
	}
	switch {
	case slope > trendEpsilon:
		imp.Trend = TrendImproving
	case slope < -trendEpsilon:
		imp.Trend = TrendDeclining
	default:
		imp.Trend = TrendFlat
	}
	for name, tier := range latest.Tiers {
		imp.CanBeat[name] = tier.CanBeat
	}
	return imp
}

// Latest returns the newest snapshot from a store, with an insufficient
// data status when the history is still too short.
func Latest(store Store) (Snapshot, Status, error) {
	history, err := store.History()
	if err != nil {
		return Snapshot{}, StatusOK, err
	}
	if len(history) < config.Cfg().Benchmark.MinSnapshots {
		return Snapshot{}, StatusInsufficientData, nil
	}
	return history[len(history)-1], StatusOK, nil
}
