// Package main plays calibration matches between the baseline personas and
// reports per-matchup win rates in big blinds per 100 hands. Useful for
// checking that the benchmark tier ladder actually orders the personas by
// strength before trusting population ratings built on top of it.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"fishtank/ai"
	"fishtank/config"
	"fishtank/ledger"
	"fishtank/table"
	"fishtank/traits"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	hands := flag.Int("hands", 2000, "Hands per matchup")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	personaList := flag.String("personas", "", "Comma-separated persona names (empty = all)")
	outputPath := flag.String("output", "", "CSV file for the matchup matrix (empty = stdout only)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	names := ai.PersonaNames()
	if *personaList != "" {
		names = strings.Split(*personaList, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
	}
	for _, name := range names {
		if _, err := ai.NewPersona(name, 0); err != nil {
			log.Fatalf("unknown persona %q (known: %s)", name, strings.Join(ai.PersonaNames(), ", "))
		}
	}

	fmt.Printf("Matchups: %d personas, %d hands each, seed %d\n\n", len(names), *hands, rngSeed)

	start := time.Now()
	rng := rand.New(rand.NewSource(rngSeed))
	matrix := make(map[string]map[string]float64, len(names))
	for _, hero := range names {
		matrix[hero] = make(map[string]float64, len(names))
		for _, villain := range names {
			if hero == villain {
				continue
			}
			matrix[hero][villain] = playMatchup(hero, villain, *hands, rng)
		}
	}

	printMatrix(names, matrix)
	fmt.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))

	if *outputPath != "" {
		if err := writeMatrix(*outputPath, names, matrix); err != nil {
			log.Fatalf("failed to write %s: %v", *outputPath, err)
		}
		fmt.Printf("Wrote %s\n", *outputPath)
	}
}

// playMatchup runs heads-up hands between two personas and returns the
// hero's big blinds won per 100 hands.
func playMatchup(hero, villain string, hands int, rng *rand.Rand) float64 {
	cfg := config.Cfg()
	heroPolicy, _ := ai.NewPersona(hero, rng.Int63())
	villainPolicy, _ := ai.NewPersona(villain, rng.Int63())

	heroID := table.PlayerID("hero")
	var net int64
	for hand := 0; hand < hands; hand++ {
		seatings := []table.Seating{
			{ID: heroID, Species: traits.Persona, Stake: cfg.Benchmark.BenchStake},
			{ID: "villain", Species: traits.Persona, Stake: cfg.Benchmark.BenchStake},
		}
		tbl, err := table.New(seatings, hand%2, cfg.Benchmark.BenchSmallBlind, cfg.Benchmark.BenchBigBlind, rng.Int63())
		if err != nil {
			log.Fatalf("failed to deal: %v", err)
		}

		for steps := 0; !tbl.Terminal(); steps++ {
			if steps > 1000 {
				tbl.MarkVoid("")
				break
			}
			id := tbl.TurnID()
			policy := heroPolicy
			if id != heroID {
				policy = villainPolicy
			}
			act, _ := policy.Decide(tbl.ViewFor(id))
			if err := tbl.Apply(id, act); err != nil {
				if err := tbl.Apply(id, table.Action{Kind: table.Fold}); err != nil {
					tbl.MarkVoid("")
					break
				}
			}
		}

		out, err := ledger.Resolve(tbl, 0)
		if err != nil {
			continue
		}
		net += out.Deltas[heroID]
	}
	return float64(net) / float64(cfg.Benchmark.BenchBigBlind) / float64(hands) * 100
}

func printMatrix(names []string, matrix map[string]map[string]float64) {
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	fmt.Printf("%-*s", width+2, "bb/100")
	for _, villain := range names {
		fmt.Printf("%*s", width+2, villain)
	}
	fmt.Println()
	totals := make(map[string]float64, len(names))
	for _, hero := range names {
		fmt.Printf("%-*s", width+2, hero)
		for _, villain := range names {
			if hero == villain {
				fmt.Printf("%*s", width+2, "-")
				continue
			}
			bb := matrix[hero][villain]
			totals[hero] += bb
			fmt.Printf("%*.1f", width+2, bb)
		}
		fmt.Println()
	}

	ranked := append([]string(nil), names...)
	sort.Slice(ranked, func(i, j int) bool { return totals[ranked[i]] > totals[ranked[j]] })
	fmt.Println("\nRanking by total bb/100:")
	for i, name := range ranked {
		fmt.Printf("  %d. %-*s %8.1f\n", i+1, width, name, totals[name])
	}
}

func writeMatrix(path string, names []string, matrix map[string]map[string]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"hero"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, hero := range names {
		row := []string{hero}
		for _, villain := range names {
			if hero == villain {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", matrix[hero][villain]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
