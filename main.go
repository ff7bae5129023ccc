package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"fishtank/benchmark"
	"fishtank/config"
	"fishtank/metrics"
	"fishtank/session"
	"fishtank/table"
	"fishtank/traits"
	"fishtank/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 20000, "Stop after N ticks")
	fishCount := flag.Int("fish", 24, "Fish spawned into the population")
	plantCount := flag.Int("plants", 8, "Plants spawned into the population")
	startEnergy := flag.Int64("energy", 500, "Starting energy per entity")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	benchDB := flag.String("bench-db", "", "SQLite path for benchmark history (empty = use config)")
	metricsAddr := flag.String("metrics-addr", "", "Listen address for Prometheus metrics (empty = disabled)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	outDir := cfg.Output.Dir
	if *outputDir != "" {
		outDir = *outputDir
	}
	out, err := benchmark.NewOutputManager(outDir)
	if err != nil {
		logger.Error("failed to init output", "error", err, "dir", outDir)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	dbPath := cfg.Output.BenchDB
	if *benchDB != "" {
		dbPath = *benchDB
	}
	var store benchmark.Store
	if dbPath != "" {
		s, err := benchmark.OpenSQLiteStore(dbPath, cfg.Benchmark.HistoryLimit)
		if err != nil {
			logger.Error("failed to open benchmark db", "error", err, "path", dbPath)
			os.Exit(1)
		}
		store = s
	} else {
		store = benchmark.NewMemoryStore(cfg.Benchmark.HistoryLimit)
	}
	defer store.Close()

	met := metrics.New()
	if *metricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(*metricsAddr, met.Handler()); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	pop := world.New(rngSeed)
	mgr := session.NewManager(pop, met, rngSeed+1, logger)
	runner := benchmark.NewRunner(store, out, rngSeed+2, logger)

	seedPopulation(pop, *fishCount, *plantCount, *startEnergy)
	seatTables(pop, mgr, logger)

	logger.Info("starting simulation",
		"seed", rngSeed,
		"ticks", *maxTicks,
		"fish", *fishCount,
		"plants", *plantCount)

	start := time.Now()
	for tick := int64(1); tick <= *maxTicks; tick++ {
		mgr.Tick()
		for _, ev := range mgr.Events() {
			if ev.Type == session.EventOutcome {
				pop.RecordHand(ev.Outcome)
			}
		}
		if mgr.Active() == 0 {
			seatTables(pop, mgr, logger)
		}
		if runner.ShouldRun(tick) {
			if _, err := runner.Run(tick, pop); err != nil {
				logger.Error("benchmark run failed", "error", err, "tick", tick)
			}
		}
	}

	st := mgr.Stats()
	history, err := store.History()
	if err != nil {
		logger.Error("failed to read benchmark history", "error", err)
	}
	imp := benchmark.ComputeImprovement(history)
	logger.Info("simulation finished",
		"elapsed", time.Since(start).String(),
		"hands", st.HandsPlayed,
		"voided", st.HandsVoided,
		"energy_transacted", st.EnergyTransacted,
		"fish_win_rate", st.WinRate(traits.Fish),
		"plant_win_rate", st.WinRate(traits.Plant),
		"benchmark_status", string(imp.Status),
		"benchmark_trend", string(imp.Trend),
		"benchmark_delta_bb100", imp.DeltaBB100)
}

// seedPopulation fills the world with fish on an aggression gradient so
// every engagement level is represented, plus a few plants.
func seedPopulation(pop *world.World, fish, plants int, energy int64) {
	for i := 0; i < fish; i++ {
		id := table.PlayerID("fish-" + strconv.Itoa(i))
		pop.Spawn(id, traits.Fish, energy, float64(i)/float64(fish))
	}
	for i := 0; i < plants; i++ {
		id := table.PlayerID("plant-" + strconv.Itoa(i))
		pop.Spawn(id, traits.Plant, energy, 0.5)
	}
}

// seatTables groups whoever can afford a buy-in into fresh sessions.
func seatTables(pop *world.World, mgr *session.Manager, logger *slog.Logger) {
	cfg := config.Cfg()
	stake := cfg.Economy.MinStake * 5

	var specs []session.PlayerSpec
	for _, id := range pop.IDs() {
		balance, ok := pop.Balance(id)
		if !ok || balance < stake {
			continue
		}
		spec, ok := pop.SpecFor(id)
		if !ok || spec.Policy == nil {
			continue
		}
		specs = append(specs, spec)
		if len(specs) == cfg.Poker.MaxPlayers {
			if _, err := mgr.StartSession(specs, stake); err != nil {
				logger.Warn("could not start session", "error", err)
			}
			specs = nil
		}
	}
	if len(specs) >= cfg.Poker.MinPlayers {
		if _, err := mgr.StartSession(specs, stake); err != nil {
			logger.Warn("could not start session", "error", err)
		}
	}
}
