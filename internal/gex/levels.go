package gex

import "math"

// DefaultWallWidth is the fallback wall offset from spot when no strike
// qualifies. It is a configured width, not a computed level.
const DefaultWallWidth = 50.0

// Levels are the structural prices derived from the exposure profile.
// CallWallDefaulted/PutWallDefaulted distinguish a computed wall from the
// fallback width; consumers must never treat the two as interchangeable.
type Levels struct {
	GammaFlip         float64 `json:"gamma_flip"`
	CallWall          float64 `json:"call_wall"`
	PutWall           float64 `json:"put_wall"`
	CallWallDefaulted bool    `json:"call_wall_defaulted"`
	PutWallDefaulted  bool    `json:"put_wall_defaulted"`
	ExpectedMovePct   float64 `json:"expected_move_pct"`
}

// FindLevels locates the gamma flip, call wall and put wall for a profile.
//
// Wall selection operates on NET gex per strike, calls and puts combined,
// and selects by sign-correct magnitude: the largest positive net GEX above
// spot for the call wall, the most negative net GEX below spot for the put
// wall. Selecting on the isolated call side would almost always miss, since
// short-call dealer gamma is negative at every strike, and would silently
// collapse every wall to the fallback width.
func FindLevels(profile *Profile, spotPrice, fallbackWidth float64) Levels {
	if fallbackWidth <= 0 {
		fallbackWidth = DefaultWallWidth
	}

	levels := Levels{
		GammaFlip:         spotPrice,
		CallWall:          spotPrice + fallbackWidth,
		PutWall:           spotPrice - fallbackWidth,
		CallWallDefaulted: true,
		PutWallDefaulted:  true,
	}

	if !profile.Empty() {
		levels.GammaFlip = findGammaFlip(profile, spotPrice)

		if wall, ok := findCallWall(profile, spotPrice); ok {
			levels.CallWall = wall
			levels.CallWallDefaulted = false
		}
		if wall, ok := findPutWall(profile, spotPrice); ok {
			levels.PutWall = wall
			levels.PutWallDefaulted = false
		}
	}

	levels.ExpectedMovePct = math.Abs(levels.CallWall-levels.PutWall) / spotPrice
	return levels
}

// findGammaFlip walks the cumulative net GEX sum across ascending strikes
// and returns the strike nearest the zero crossing. No crossing means no
// flip inside the chain; spot is the only sensible default.
func findGammaFlip(profile *Profile, spotPrice float64) float64 {
	cumulative := make([]float64, len(profile.Strikes))
	sum := 0.0
	for i, strike := range profile.Strikes {
		sum += profile.Exposures[strike].NetGEX
		cumulative[i] = sum
	}

	for i := 1; i < len(cumulative); i++ {
		prev, cur := cumulative[i-1], cumulative[i]
		crossed := (prev < 0 && cur >= 0) || (prev > 0 && cur <= 0)
		if !crossed {
			continue
		}
		// Flip is whichever side of the crossing sits closer to zero
		if math.Abs(cur) <= math.Abs(prev) {
			return profile.Strikes[i]
		}
		return profile.Strikes[i-1]
	}

	return spotPrice
}

func findCallWall(profile *Profile, spotPrice float64) (float64, bool) {
	var wall float64
	best := 0.0
	found := false
	for _, strike := range profile.Strikes {
		if strike <= spotPrice {
			continue
		}
		net := profile.Exposures[strike].NetGEX
		if net > 0 && (!found || net > best) {
			wall = strike
			best = net
			found = true
		}
	}
	return wall, found
}

func findPutWall(profile *Profile, spotPrice float64) (float64, bool) {
	var wall float64
	best := 0.0
	found := false
	for _, strike := range profile.Strikes {
		if strike >= spotPrice {
			continue
		}
		net := profile.Exposures[strike].NetGEX
		if net < 0 && (!found || net < best) {
			wall = strike
			best = net
			found = true
		}
	}
	return wall, found
}
