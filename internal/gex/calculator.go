package gex

import (
	"fmt"
	"sort"

	"github.com/birddograbbit/magic8-companion/internal/chain"
)

// StrikeExposure is the dealer gamma exposure aggregated at one strike.
// Sign convention: dealers are modeled net short calls (negative call GEX)
// and net short puts (positive put GEX).
type StrikeExposure struct {
	Strike  float64 `json:"strike"`
	CallGEX float64 `json:"call_gex"`
	PutGEX  float64 `json:"put_gex"`
	NetGEX  float64 `json:"net_gex"`
}

// Profile is the per-strike exposure map plus the aggregate, computed once
// per snapshot and reused by every downstream stage.
type Profile struct {
	Strikes     []float64 // ascending; cumulative-sum math depends on order
	Exposures   map[float64]StrikeExposure
	TotalNetGEX float64
}

// Empty reports whether the profile has no strikes. Callers must treat this
// as "no data", never as a valid zero-gamma regime.
func (p *Profile) Empty() bool {
	return p == nil || len(p.Strikes) == 0
}

// Compute converts a contract sequence into a per-strike exposure profile.
// Strikes missing one side contribute zero for that side. An empty contract
// sequence yields an empty profile with TotalNetGEX 0.
func Compute(spotPrice float64, contracts []chain.ContractQuote, multiplier float64) (*Profile, error) {
	if spotPrice <= 0 {
		return nil, fmt.Errorf("%w: spot price %.4f must be positive", chain.ErrInvalidInput, spotPrice)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("%w: contract multiplier %.4f must be positive", chain.ErrInvalidInput, multiplier)
	}

	exposures := make(map[float64]StrikeExposure, len(contracts))
	for _, c := range contracts {
		exp := exposures[c.Strike]
		exp.Strike = c.Strike

		notional := c.Gamma * float64(c.OpenInterest) * multiplier * spotPrice
		switch c.Side {
		case chain.Call:
			exp.CallGEX -= notional
		case chain.Put:
			exp.PutGEX += notional
		}
		exposures[c.Strike] = exp
	}

	profile := &Profile{
		Strikes:   make([]float64, 0, len(exposures)),
		Exposures: exposures,
	}

	for strike, exp := range exposures {
		exp.NetGEX = exp.CallGEX + exp.PutGEX
		exposures[strike] = exp
		profile.Strikes = append(profile.Strikes, strike)
		profile.TotalNetGEX += exp.NetGEX
	}
	sort.Float64s(profile.Strikes)

	return profile, nil
}
