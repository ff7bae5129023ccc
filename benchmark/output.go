package benchmark

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"fishtank/config"
)

// snapshotRow flattens a Snapshot into fixed CSV columns, one per tier.
type snapshotRow struct {
	Tick        int64   `csv:"tick"`
	Time        string  `csv:"time"`
	SampleSize  int     `csv:"sample"`
	HandsPlayed int     `csv:"hands"`
	MeanBB100   float64 `csv:"bb100"`
	MeanElo     float64 `csv:"elo"`
	Dominant    string  `csv:"dominant"`

	TrivialBB100  float64 `csv:"trivial_bb100"`
	TrivialConf   float64 `csv:"trivial_conf"`
	WeakBB100     float64 `csv:"weak_bb100"`
	WeakConf      float64 `csv:"weak_conf"`
	ModerateBB100 float64 `csv:"moderate_bb100"`
	ModerateConf  float64 `csv:"moderate_conf"`
	StrongBB100   float64 `csv:"strong_bb100"`
	StrongConf    float64 `csv:"strong_conf"`
	ExpertBB100   float64 `csv:"expert_bb100"`
	ExpertConf    float64 `csv:"expert_conf"`
}

// OutputManager mirrors the snapshot history to CSV for offline analysis.
type OutputManager struct {
	dir          string
	snapshotFile *os.File

	headerWritten bool
}

// NewOutputManager creates the output directory and snapshot CSV. Returns
// nil if dir is empty (output disabled); a nil manager ignores all writes.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "benchmark.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating benchmark.csv: %w", err)
	}
	return &OutputManager{dir: dir, snapshotFile: f}, nil
}

// WriteConfig saves the active configuration next to the history.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSnapshot appends one snapshot row to benchmark.csv.
func (om *OutputManager) WriteSnapshot(snap Snapshot) error {
	if om == nil {
		return nil
	}
	row := snapshotRow{
		Tick:        snap.Tick,
		Time:        snap.Time.UTC().Format("2006-01-02T15:04:05Z"),
		SampleSize:  snap.SampleSize,
		HandsPlayed: snap.HandsPlayed,
		MeanBB100:   snap.MeanBB100,
		MeanElo:     snap.MeanElo,
		Dominant:    snap.Dominant,

		TrivialBB100:  snap.Tiers["trivial"].BB100,
		TrivialConf:   snap.Tiers["trivial"].Confidence,
		WeakBB100:     snap.Tiers["weak"].BB100,
		WeakConf:      snap.Tiers["weak"].Confidence,
		ModerateBB100: snap.Tiers["moderate"].BB100,
		ModerateConf:  snap.Tiers["moderate"].Confidence,
		StrongBB100:   snap.Tiers["strong"].BB100,
		StrongConf:    snap.Tiers["strong"].Confidence,
		ExpertBB100:   snap.Tiers["expert"].BB100,
		ExpertConf:    snap.Tiers["expert"].Confidence,
	}

	records := []snapshotRow{row}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.snapshotFile); err != nil {
			return fmt.Errorf("writing benchmark csv: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.snapshotFile); err != nil {
		return fmt.Errorf("writing benchmark csv: %w", err)
	}
	return nil
}

// Close flushes and closes the CSV file.
func (om *OutputManager) Close() error {
	if om == nil || om.snapshotFile == nil {
		return nil
	}
	return om.snapshotFile.Close()
}
