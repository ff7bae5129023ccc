// Package benchmark measures how well the evolving population actually
// plays. It periodically samples live individuals, runs headless hand
// batches against fixed baseline personas and appends the aggregated
// results to an ordered history, from which improvement metrics derive.
package benchmark

import (
	"errors"
	"time"
)

// ErrEmptySample is returned when a benchmark run finds nobody to measure.
var ErrEmptySample = errors.New("benchmark: empty population sample")

// TierStats is the population's aggregate result against one baseline tier.
type TierStats struct {
	BB100      float64 `json:"bb100"`
	Confidence float64 `json:"confidence"` // P(true per-hand bb > 0)
	CanBeat    bool    `json:"can_beat"`
}

// Snapshot is one benchmark run over a population sample. Snapshots are
// append-only and never partially visible: a run builds the whole snapshot
// and appends it to the store in one step.
type Snapshot struct {
	Tick        int64                `json:"tick"`
	Time        time.Time            `json:"time"`
	SampleSize  int                  `json:"sample_size"`
	HandsPlayed int                  `json:"hands_played"`
	MeanBB100   float64              `json:"mean_bb100"`
	MeanElo     float64              `json:"mean_elo"`
	Dominant    string               `json:"dominant"` // most common engagement in the sample
	Tiers       map[string]TierStats `json:"tiers"`
}

// Store is the longitudinal snapshot history. Append is atomic: a snapshot
// is fully visible to History or not at all.
type Store interface {
	Append(Snapshot) error
	History() ([]Snapshot, error)
	Close() error
}

// MemoryStore keeps the history in process, trimmed to limit when positive.
type MemoryStore struct {
	limit int
	snaps []Snapshot
}

func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: limit}
}

func (s *MemoryStore) Append(snap Snapshot) error {
	s.snaps = append(s.snaps, snap)
	if s.limit > 0 && len(s.snaps) > s.limit {
		s.snaps = s.snaps[len(s.snaps)-s.limit:]
	}
	return nil
}

func (s *MemoryStore) History() ([]Snapshot, error) {
	return append([]Snapshot(nil), s.snaps...), nil
}

func (s *MemoryStore) Close() error { return nil }
