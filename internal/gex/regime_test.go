package gex

import "testing"

func computedLevels(flip, callWall, putWall, spot float64) Levels {
	return Levels{
		GammaFlip:       flip,
		CallWall:        callWall,
		PutWall:         putWall,
		ExpectedMovePct: (callWall - putWall) / spot,
	}
}

func TestClassifyRegimeSign(t *testing.T) {
	th := DefaultThresholds()
	levels := computedLevels(5000, 5050, 4950, 5000)

	if a := Classify(50e6, levels, 5000, th); a.Regime != RegimePositive {
		t.Errorf("regime = %v, want POSITIVE", a.Regime)
	}
	if a := Classify(-50e6, levels, 5000, th); a.Regime != RegimeNegative {
		t.Errorf("regime = %v, want NEGATIVE", a.Regime)
	}
	// Zero total is not positive
	if a := Classify(0, levels, 5000, th); a.Regime != RegimeNegative {
		t.Errorf("regime = %v, want NEGATIVE for zero total", a.Regime)
	}
}

func TestClassifyMagnitudeThresholds(t *testing.T) {
	th := DefaultThresholds()
	levels := computedLevels(5000, 5050, 4950, 5000)

	cases := []struct {
		total float64
		want  Magnitude
	}{
		{50e6, MagnitudeLow},
		{-50e6, MagnitudeLow},
		{499e6, MagnitudeLow},
		{500e6, MagnitudeModerate},
		{-750e6, MagnitudeModerate},
		{1e9, MagnitudeHigh},
		{-2e9, MagnitudeHigh},
		{5e9, MagnitudeExtreme},
		{-9e9, MagnitudeExtreme},
	}

	for _, tc := range cases {
		if a := Classify(tc.total, levels, 5000, th); a.Magnitude != tc.want {
			t.Errorf("Classify(%v) magnitude = %v, want %v", tc.total, a.Magnitude, tc.want)
		}
	}
}

func TestClassifyBiasBands(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		name  string
		spot  float64
		total float64
		want  Bias
	}{
		// range 4950..5050: position = (spot-4950)/100
		{"low position positive regime", 4960, 1e9, BiasSupportTest},
		{"low position negative regime", 4960, -1e9, BiasBearish},
		{"high position positive regime", 5040, 1e9, BiasResistanceTest},
		{"high position negative regime", 5040, -1e9, BiasBullish},
		{"mid position", 5000, 1e9, BiasNeutral},
		{"clamped below zero", 4900, 1e9, BiasSupportTest},
		{"clamped above one", 5100, -1e9, BiasBullish},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			levels := computedLevels(5000, 5050, 4950, tc.spot)
			if a := Classify(tc.total, levels, tc.spot, th); a.Bias != tc.want {
				t.Errorf("bias = %v, want %v", a.Bias, tc.want)
			}
		})
	}
}

func TestClassifyDefaultedWallForcesNeutralBias(t *testing.T) {
	th := DefaultThresholds()

	levels := computedLevels(5000, 5050, 4950, 4960)
	levels.CallWallDefaulted = true

	if a := Classify(1e9, levels, 4960, th); a.Bias != BiasNeutral {
		t.Errorf("bias = %v, want NEUTRAL when a wall is defaulted", a.Bias)
	}

	levels = computedLevels(5000, 5050, 4950, 5040)
	levels.PutWallDefaulted = true

	if a := Classify(-1e9, levels, 5040, th); a.Bias != BiasNeutral {
		t.Errorf("bias = %v, want NEUTRAL when a wall is defaulted", a.Bias)
	}
}

func TestClassifyKeepsNetValue(t *testing.T) {
	levels := computedLevels(5000, 5050, 4950, 5000)
	a := Classify(-123e6, levels, 5000, DefaultThresholds())
	if a.NetGEXValue != -123e6 {
		t.Errorf("net value = %v, want -123e6", a.NetGEXValue)
	}
}
