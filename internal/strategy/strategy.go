// Package strategy combines rule-based structure scores with the bounded
// gamma deltas from the analysis engine and picks the favorable 0-DTE
// structure for the cycle.
package strategy

import (
	"sort"

	"github.com/birddograbbit/magic8-companion/internal/gex"
)

const baseScore = 50

// Recommendation is the scored outcome for one symbol and cycle.
type Recommendation struct {
	Symbol       string               `json:"symbol"`
	Best         string               `json:"best"`
	Scores       map[string]int       `json:"scores"`
	GammaApplied bool                 `json:"gamma_applied"`
	Signals      gex.Signals          `json:"signals"`
	Breakdown    map[string]Breakdown `json:"breakdown"`
}

// Breakdown shows how a single strategy score was assembled.
type Breakdown struct {
	Base       int `json:"base"`
	GammaDelta int `json:"gamma_delta"`
	Total      int `json:"total"`
}

// baseFunc computes the structure-only score for one strategy. One function
// per variant, dispatched through a table keyed by the closed enumeration.
type baseFunc func(result *gex.AnalysisResult) int

var baseScorers = map[gex.Strategy]baseFunc{
	gex.Butterfly:  baseButterfly,
	gex.IronCondor: baseIronCondor,
	gex.Vertical:   baseVertical,
}

// Recommend scores every strategy for the analysis result. When the result
// is unavailable the gamma deltas are zero and GammaApplied is false; the
// recommendation still proceeds so one symbol's missing data never blocks
// the cycle.
func Recommend(result *gex.AnalysisResult) Recommendation {
	rec := Recommendation{
		Symbol:       result.Symbol,
		Scores:       make(map[string]int, len(gex.Strategies)),
		Breakdown:    make(map[string]Breakdown, len(gex.Strategies)),
		GammaApplied: result.Available,
	}
	if result.Available {
		rec.Signals = result.Adjustment.Signals
	}

	for _, s := range gex.Strategies {
		base := baseScorers[s](result)
		delta := result.Adjustment.Delta(s)
		total := base + delta

		name := s.String()
		rec.Scores[name] = total
		rec.Breakdown[name] = Breakdown{
			Base:       base,
			GammaDelta: delta,
			Total:      total,
		}
	}

	rec.Best = bestStrategy(rec.Scores)
	return rec
}

// bestStrategy picks the highest score, breaking ties by name for a stable
// outcome.
func bestStrategy(scores map[string]int) string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if scores[name] > scores[best] {
			best = name
		}
	}
	return best
}

func baseButterfly(result *gex.AnalysisResult) int {
	score := baseScore
	if !result.Available {
		return score
	}
	// Tight expected range favors a pinned butterfly
	if result.Levels.ExpectedMovePct < 0.015 {
		score += 10
	}
	return score
}

func baseIronCondor(result *gex.AnalysisResult) int {
	score := baseScore
	if !result.Available {
		return score
	}
	em := result.Levels.ExpectedMovePct
	if em >= 0.01 && em <= 0.025 {
		score += 10
	}
	return score
}

func baseVertical(result *gex.AnalysisResult) int {
	score := baseScore
	if !result.Available {
		return score
	}
	if result.Levels.ExpectedMovePct > 0.02 {
		score += 10
	}
	return score
}
