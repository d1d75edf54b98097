package strategy

import (
	"testing"
	"time"

	"github.com/birddograbbit/magic8-companion/internal/gex"
)

func availableResult(regime gex.Regime, expectedMove float64, deltas map[gex.Strategy]int) *gex.AnalysisResult {
	return &gex.AnalysisResult{
		Symbol:     "SPX",
		ComputedAt: time.Now(),
		SpotPrice:  5000,
		Multiplier: 10,
		Available:  true,
		Profile:    &gex.Profile{TotalNetGEX: 1e9},
		Levels: gex.Levels{
			GammaFlip:       4980,
			CallWall:        5050,
			PutWall:         4950,
			ExpectedMovePct: expectedMove,
		},
		Assessment: gex.Assessment{Regime: regime, Magnitude: gex.MagnitudeHigh},
		Adjustment: gex.Adjustment{
			Available: true,
			Deltas:    deltas,
			Signals:   gex.Signals{Regime: regime},
		},
	}
}

func TestRecommendCoversEveryStrategy(t *testing.T) {
	result := availableResult(gex.RegimePositive, 0.02, map[gex.Strategy]int{
		gex.Butterfly:  15,
		gex.IronCondor: 10,
		gex.Vertical:   0,
	})

	rec := Recommend(result)

	for _, s := range gex.Strategies {
		if _, ok := rec.Scores[s.String()]; !ok {
			t.Errorf("missing score for %s", s)
		}
		if _, ok := rec.Breakdown[s.String()]; !ok {
			t.Errorf("missing breakdown for %s", s)
		}
	}
	if !rec.GammaApplied {
		t.Error("gamma should be applied for an available result")
	}
}

func TestRecommendPicksHighestScore(t *testing.T) {
	result := availableResult(gex.RegimePositive, 0.03, map[gex.Strategy]int{
		gex.Butterfly:  0,
		gex.IronCondor: 0,
		gex.Vertical:   20,
	})

	rec := Recommend(result)

	// Vertical: base 50 + structure 10 (wide move) + delta 20 = 80
	if rec.Best != "Vertical" {
		t.Errorf("best = %s, want Vertical", rec.Best)
	}
	if rec.Scores["Vertical"] != 80 {
		t.Errorf("Vertical score = %d, want 80", rec.Scores["Vertical"])
	}
}

func TestRecommendBreakdownSums(t *testing.T) {
	result := availableResult(gex.RegimePositive, 0.005, map[gex.Strategy]int{
		gex.Butterfly:  15,
		gex.IronCondor: 10,
		gex.Vertical:   -5,
	})

	rec := Recommend(result)

	for name, b := range rec.Breakdown {
		if b.Base+b.GammaDelta != b.Total {
			t.Errorf("%s breakdown %d+%d != %d", name, b.Base, b.GammaDelta, b.Total)
		}
		if rec.Scores[name] != b.Total {
			t.Errorf("%s score %d != breakdown total %d", name, rec.Scores[name], b.Total)
		}
	}
}

func TestRecommendUnavailableUsesZeroDeltas(t *testing.T) {
	result := gex.Unavailable("SPX", time.Now())

	rec := Recommend(result)

	if rec.GammaApplied {
		t.Error("gamma must be flagged as skipped for unavailable data")
	}
	for name, b := range rec.Breakdown {
		if b.GammaDelta != 0 {
			t.Errorf("%s gamma delta = %d, want 0", name, b.GammaDelta)
		}
		if b.Base == 0 {
			t.Errorf("%s base score missing; the cycle must still proceed", name)
		}
	}
}

func TestRecommendStructureBands(t *testing.T) {
	result := availableResult(gex.RegimeNegative, 0.018, map[gex.Strategy]int{
		gex.Butterfly:  0,
		gex.IronCondor: 0,
		gex.Vertical:   0,
	})

	// Expected move 0.018: butterfly misses its band, condor gains +10,
	// vertical misses. Condor should win outright here.
	rec := Recommend(result)
	if rec.Best != "Iron_Condor" {
		t.Errorf("best = %s, want Iron_Condor", rec.Best)
	}
}
