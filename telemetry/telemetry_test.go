package telemetry

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosimocean/sim"
)

func sampleHistory() []sim.TickCounts {
	return []sim.TickCounts{
		{Tick: 0, Zooplankton: 100, SmallFish: 10, Crab: 5, Seal: 1, SeaTurtle: 2},
		{Tick: 1, Zooplankton: 120, SmallFish: 8, Crab: 5, Seal: 1, SeaTurtle: 2},
		{Tick: 2, Zooplankton: 80, SmallFish: 12, Crab: 4, Seal: 1, SeaTurtle: 2},
	}
}

func TestSummarize_ComputesMeanMinMax(t *testing.T) {
	summary := Summarize(sampleHistory())

	tests := []struct {
		name string
		want SpeciesSummary
	}{
		{"zooplankton", SpeciesSummary{Mean: 100, Min: 80, Max: 120}},
		{"crab", SpeciesSummary{Mean: (5.0 + 5.0 + 4.0) / 3.0, Min: 4, Max: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summary[tt.name]
			if math.Abs(got.Mean-tt.want.Mean) > 1e-9 {
				t.Errorf("Mean = %v, want %v", got.Mean, tt.want.Mean)
			}
			if got.Min != tt.want.Min {
				t.Errorf("Min = %v, want %v", got.Min, tt.want.Min)
			}
			if got.Max != tt.want.Max {
				t.Errorf("Max = %v, want %v", got.Max, tt.want.Max)
			}
			if got.StdDev < 0 {
				t.Errorf("StdDev = %v, want >= 0", got.StdDev)
			}
		})
	}
}

func TestSummarize_EmptyHistory(t *testing.T) {
	summary := Summarize(nil)
	if len(summary) != 0 {
		t.Errorf("Summarize(nil) returned %d entries, want 0", len(summary))
	}
}

func TestWriteHistoryCSV_WritesOneRowPerTick(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHistoryCSV(sampleHistory(), &buf); err != nil {
		t.Fatalf("WriteHistoryCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(sampleHistory())+1 { // header + one row per tick
		t.Errorf("got %d lines, want %d (header + %d rows)", len(lines), len(sampleHistory())+1, len(sampleHistory()))
	}
}
