package gex

import (
	"encoding/json"
	"time"
)

// AnalysisResult aggregates one full pipeline run for a symbol. It is
// immutable once constructed and safe to share read-only across goroutines.
// Available is false when no usable chain data existed; every numeric field
// is then zero-valued and the adjustment carries no deltas.
type AnalysisResult struct {
	Symbol     string
	ComputedAt time.Time
	SpotPrice  float64
	Multiplier float64
	Available  bool

	Profile    *Profile
	Levels     Levels
	Assessment Assessment
	Adjustment Adjustment
}

// Unavailable builds the typed no-data result for a symbol. The scorer must
// proceed with zero gamma adjustment when it sees one of these.
func Unavailable(symbol string, computedAt time.Time) *AnalysisResult {
	return &AnalysisResult{
		Symbol:     symbol,
		ComputedAt: computedAt,
		Available:  false,
		Adjustment: UnavailableAdjustment(),
	}
}

// Export is the stable JSON contract read by schedulers and dashboards.
type Export struct {
	Symbol            string         `json:"symbol"`
	Available         bool           `json:"available"`
	Spot              float64        `json:"spot"`
	NetGEX            float64        `json:"net_gex"`
	Regime            Regime         `json:"regime,omitempty"`
	Magnitude         Magnitude      `json:"magnitude,omitempty"`
	Bias              Bias           `json:"bias,omitempty"`
	GammaFlip         float64        `json:"gamma_flip"`
	CallWall          float64        `json:"call_wall"`
	PutWall           float64        `json:"put_wall"`
	CallWallDefaulted bool           `json:"call_wall_defaulted"`
	PutWallDefaulted  bool           `json:"put_wall_defaulted"`
	ExpectedMovePct   float64        `json:"expected_move_pct"`
	ScoreAdjustments  map[string]int `json:"score_adjustments"`
	ComputedAt        time.Time      `json:"computed_at"`
}

// Export renders the stable outbound representation of the result.
func (r *AnalysisResult) Export() Export {
	adjustments := make(map[string]int, len(Strategies))
	for _, s := range Strategies {
		adjustments[s.String()] = r.Adjustment.Delta(s)
	}

	exp := Export{
		Symbol:           r.Symbol,
		Available:        r.Available,
		Spot:             r.SpotPrice,
		ScoreAdjustments: adjustments,
		ComputedAt:       r.ComputedAt,
	}

	if r.Available {
		exp.NetGEX = r.Profile.TotalNetGEX
		exp.Regime = r.Assessment.Regime
		exp.Magnitude = r.Assessment.Magnitude
		exp.Bias = r.Assessment.Bias
		exp.GammaFlip = r.Levels.GammaFlip
		exp.CallWall = r.Levels.CallWall
		exp.PutWall = r.Levels.PutWall
		exp.CallWallDefaulted = r.Levels.CallWallDefaulted
		exp.PutWallDefaulted = r.Levels.PutWallDefaulted
		exp.ExpectedMovePct = r.Levels.ExpectedMovePct
	}

	return exp
}

// ExportJSON marshals the stable representation.
func (r *AnalysisResult) ExportJSON() ([]byte, error) {
	return json.Marshal(r.Export())
}
