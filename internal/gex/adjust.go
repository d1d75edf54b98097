package gex

import "math"

// AdjustOptions tune the score adjuster. Zero values fall back to the
// documented defaults.
type AdjustOptions struct {
	ScoreCap           int     // per-strategy clamp, default 20
	StrengthMultiplier float64 // applied on HIGH/EXTREME before clamping, default 1.5
	PinProximityPct    float64 // wall pinning band, default 0.01
	FlipProximityPct   float64 // gamma flip band, default 0.005
	LowMovementPct     float64 // expected-move band, default 0.01
}

func (o AdjustOptions) withDefaults() AdjustOptions {
	if o.ScoreCap <= 0 {
		o.ScoreCap = 20
	}
	if o.StrengthMultiplier <= 0 {
		o.StrengthMultiplier = 1.5
	}
	if o.PinProximityPct <= 0 {
		o.PinProximityPct = 0.01
	}
	if o.FlipProximityPct <= 0 {
		o.FlipProximityPct = 0.005
	}
	if o.LowMovementPct <= 0 {
		o.LowMovementPct = 0.01
	}
	return o
}

// Signals summarize the structure that justified an adjustment, for human
// readable alerts and the export payload.
type Signals struct {
	Regime          Regime    `json:"regime"`
	Magnitude       Magnitude `json:"magnitude"`
	Bias            Bias      `json:"bias"`
	CallWallDistPct float64   `json:"call_wall_dist_pct"`
	PutWallDistPct  float64   `json:"put_wall_dist_pct"`
	ExpectedMovePct float64   `json:"expected_move_pct"`
}

// Adjustment carries the bounded per-strategy score deltas. Available is
// false when the engine had no usable chain data; deltas are then all zero
// so the scorer is never biased by a fabricated POSITIVE/LOW default.
type Adjustment struct {
	Available bool             `json:"available"`
	Deltas    map[Strategy]int `json:"-"`
	Signals   Signals          `json:"signals"`
}

// Delta returns the bounded delta for one strategy, zero when unavailable.
func (a Adjustment) Delta(s Strategy) int {
	if !a.Available {
		return 0
	}
	return a.Deltas[s]
}

// UnavailableAdjustment is the all-zero adjustment used when the engine had
// no chain data to work from.
func UnavailableAdjustment() Adjustment {
	deltas := make(map[Strategy]int, len(Strategies))
	for _, s := range Strategies {
		deltas[s] = 0
	}
	return Adjustment{Available: false, Deltas: deltas}
}

// adjustFunc computes the raw (pre-strength, pre-clamp) delta for one
// strategy. One function per variant keeps dispatch compile-time checked.
type adjustFunc func(ctx adjustContext) float64

type adjustContext struct {
	assessment Assessment
	levels     Levels
	spot       float64
	opts       AdjustOptions
}

var adjusters = map[Strategy]adjustFunc{
	Butterfly:  adjustButterfly,
	IronCondor: adjustIronCondor,
	Vertical:   adjustVertical,
}

// Adjust converts the regime assessment and levels into bounded per-strategy
// deltas. The strength multiplier applies before clamping.
func Adjust(assessment Assessment, levels Levels, spotPrice float64, opts AdjustOptions) Adjustment {
	opts = opts.withDefaults()

	ctx := adjustContext{
		assessment: assessment,
		levels:     levels,
		spot:       spotPrice,
		opts:       opts,
	}

	strength := 1.0
	if assessment.Magnitude == MagnitudeHigh || assessment.Magnitude == MagnitudeExtreme {
		strength = opts.StrengthMultiplier
	}

	deltas := make(map[Strategy]int, len(Strategies))
	for _, s := range Strategies {
		raw := adjusters[s](ctx) * strength
		deltas[s] = clampInt(int(math.Round(raw)), opts.ScoreCap)
	}

	return Adjustment{
		Available: true,
		Deltas:    deltas,
		Signals: Signals{
			Regime:          assessment.Regime,
			Magnitude:       assessment.Magnitude,
			Bias:            assessment.Bias,
			CallWallDistPct: math.Abs(spotPrice-levels.CallWall) / spotPrice,
			PutWallDistPct:  math.Abs(spotPrice-levels.PutWall) / spotPrice,
			ExpectedMovePct: levels.ExpectedMovePct,
		},
	}
}

func adjustButterfly(ctx adjustContext) float64 {
	delta := 0.0
	if ctx.assessment.Regime == RegimePositive {
		delta += 15
	} else {
		delta -= 5
	}
	if dist, ok := nearestWallDistPct(ctx.levels, ctx.spot); ok && dist < ctx.opts.PinProximityPct {
		delta += 10
	}
	return delta
}

func adjustIronCondor(ctx adjustContext) float64 {
	delta := 0.0
	if ctx.assessment.Regime == RegimePositive {
		delta += 10
	}
	// No regime penalty: condors are regime-neutral relative to butterflies
	if ctx.levels.ExpectedMovePct < ctx.opts.LowMovementPct {
		delta += 15
	}
	return delta
}

func adjustVertical(ctx adjustContext) float64 {
	delta := 0.0
	if ctx.assessment.Regime == RegimeNegative {
		delta += 10
	}
	if math.Abs(ctx.spot-ctx.levels.GammaFlip)/ctx.spot < ctx.opts.FlipProximityPct {
		delta += 15
	}
	if ctx.assessment.Regime == RegimePositive && ctx.levels.ExpectedMovePct < ctx.opts.LowMovementPct {
		delta -= 5
	}
	return delta
}

// nearestWallDistPct returns the relative distance to the closest computed
// wall. Defaulted walls are synthetic levels and never count as pins.
func nearestWallDistPct(levels Levels, spot float64) (float64, bool) {
	best := math.MaxFloat64
	found := false
	if !levels.CallWallDefaulted {
		best = math.Abs(spot-levels.CallWall) / spot
		found = true
	}
	if !levels.PutWallDefaulted {
		if d := math.Abs(spot-levels.PutWall) / spot; d < best {
			best = d
		}
		found = true
	}
	return best, found
}

func clampInt(v, limit int) int {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
