// Command ecosim runs the marine ecosystem simulation headlessly and prints a
// periodic population summary, optionally exporting the full history to CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/ecosimocean/config"
	"github.com/pthm-cable/ecosimocean/sim"
	"github.com/pthm-cable/ecosimocean/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config overriding the embedded defaults")
	seed := flag.Int64("seed", 42, "PRNG seed")
	ticks := flag.Int("ticks", 0, "tick count; 0 uses simulation_ticks from config")
	csvPath := flag.String("csv", "", "optional path to write the full history as CSV")
	flag.Parse()

	if err := run(*configPath, *seed, *ticks, *csvPath); err != nil {
		slog.Error("ecosim failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, ticks int, csvPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()
	engine, err := sim.Create(cfg, seed, logger)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	if ticks <= 0 {
		ticks = cfg.Sim.SimulationTicks
	}

	history, err := sim.RunHeadless(context.Background(), engine, ticks)
	if err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	for _, tc := range history {
		if tc.Tick%10 != 0 {
			continue
		}
		fmt.Printf("tick %4d | zoo %5d | fish %4d | crab %4d | seal %3d | turtle %3d\n",
			tc.Tick, tc.Zooplankton, tc.SmallFish, tc.Crab, tc.Seal, tc.SeaTurtle)
	}

	summary := telemetry.Summarize(history)
	for _, name := range []string{"zooplankton", "smallfish", "crab", "seal", "seaturtle"} {
		s := summary[name]
		fmt.Printf("%-12s mean=%.1f stddev=%.1f min=%.0f max=%.0f\n", name, s.Mean, s.StdDev, s.Min, s.Max)
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating csv file: %w", err)
		}
		defer f.Close()
		if err := telemetry.WriteHistoryCSV(history, f); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}

	return nil
}
