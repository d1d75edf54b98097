package gex

import "math"

// Regime is the sign of aggregate dealer gamma. POSITIVE means dealers
// dampen volatility (mean-reverting, range-bound expectation); NEGATIVE
// means dealer hedging amplifies moves (trending, higher realized vol).
type Regime string

const (
	RegimePositive Regime = "POSITIVE"
	RegimeNegative Regime = "NEGATIVE"
)

// Magnitude buckets the absolute aggregate exposure.
type Magnitude string

const (
	MagnitudeLow      Magnitude = "LOW"
	MagnitudeModerate Magnitude = "MODERATE"
	MagnitudeHigh     Magnitude = "HIGH"
	MagnitudeExtreme  Magnitude = "EXTREME"
)

// Bias describes where spot sits inside the wall range.
type Bias string

const (
	BiasNeutral        Bias = "NEUTRAL"
	BiasBearish        Bias = "BEARISH"
	BiasBullish        Bias = "BULLISH"
	BiasSupportTest    Bias = "SUPPORT_TEST"
	BiasResistanceTest Bias = "RESISTANCE_TEST"
)

// Thresholds are the USD cutoffs for magnitude buckets, low to high.
type Thresholds struct {
	Moderate float64
	High     float64
	Extreme  float64
}

// DefaultThresholds match index-scale aggregate exposure.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Moderate: 500e6,
		High:     1e9,
		Extreme:  5e9,
	}
}

// Assessment is the regime classification for one analysis cycle.
type Assessment struct {
	Regime      Regime    `json:"regime"`
	Magnitude   Magnitude `json:"magnitude"`
	Bias        Bias      `json:"bias"`
	NetGEXValue float64   `json:"net_gex_value"`
}

// Classify derives regime, magnitude and bias from the aggregate exposure
// and levels. Bias requires both walls to be computed; a defaulted wall
// carries no structural information and forces NEUTRAL.
func Classify(totalNetGEX float64, levels Levels, spotPrice float64, th Thresholds) Assessment {
	assessment := Assessment{
		Regime:      RegimeNegative,
		Bias:        BiasNeutral,
		NetGEXValue: totalNetGEX,
	}
	if totalNetGEX > 0 {
		assessment.Regime = RegimePositive
	}

	abs := math.Abs(totalNetGEX)
	switch {
	case abs >= th.Extreme:
		assessment.Magnitude = MagnitudeExtreme
	case abs >= th.High:
		assessment.Magnitude = MagnitudeHigh
	case abs >= th.Moderate:
		assessment.Magnitude = MagnitudeModerate
	default:
		assessment.Magnitude = MagnitudeLow
	}

	if !levels.CallWallDefaulted && !levels.PutWallDefaulted {
		assessment.Bias = wallBias(assessment.Regime, levels, spotPrice)
	}

	return assessment
}

func wallBias(regime Regime, levels Levels, spotPrice float64) Bias {
	span := levels.CallWall - levels.PutWall
	if span == 0 {
		return BiasNeutral
	}

	position := (spotPrice - levels.PutWall) / span
	if position < 0 {
		position = 0
	} else if position > 1 {
		position = 1
	}

	switch {
	case position < 0.3:
		if regime == RegimePositive {
			return BiasSupportTest
		}
		return BiasBearish
	case position > 0.7:
		if regime == RegimePositive {
			return BiasResistanceTest
		}
		return BiasBullish
	default:
		return BiasNeutral
	}
}
