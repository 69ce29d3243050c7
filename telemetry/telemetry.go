// Package telemetry provides optional, external-facing reporting over a completed
// run_headless history: CSV export and summary statistics. Nothing here feeds back
// into the simulation core.
package telemetry

import (
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosimocean/sim"
)

// WriteHistoryCSV marshals a run_headless history to CSV, one row per tick.
func WriteHistoryCSV(history []sim.TickCounts, w io.Writer) error {
	return gocsv.Marshal(history, w)
}

// SpeciesSummary holds running statistics for one species' population series
// across a completed history.
type SpeciesSummary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes per-species summary statistics over the full history using
// gonum's stat package, rather than hand-rolled accumulation.
func Summarize(history []sim.TickCounts) map[string]SpeciesSummary {
	series := map[string][]float64{
		"zooplankton": make([]float64, len(history)),
		"smallfish":   make([]float64, len(history)),
		"crab":        make([]float64, len(history)),
		"seal":        make([]float64, len(history)),
		"seaturtle":   make([]float64, len(history)),
	}
	for i, tc := range history {
		series["zooplankton"][i] = float64(tc.Zooplankton)
		series["smallfish"][i] = float64(tc.SmallFish)
		series["crab"][i] = float64(tc.Crab)
		series["seal"][i] = float64(tc.Seal)
		series["seaturtle"][i] = float64(tc.SeaTurtle)
	}

	out := make(map[string]SpeciesSummary, len(series))
	for name, values := range series {
		if len(values) == 0 {
			continue
		}
		mean, variance := stat.MeanVariance(values, nil)
		lo, hi := values[0], values[0]
		for _, v := range values {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		out[name] = SpeciesSummary{Mean: mean, StdDev: math.Sqrt(variance), Min: lo, Max: hi}
	}
	return out
}
