package chain

import "time"

// Side identifies the option side of a contract quote.
type Side string

const (
	Call Side = "CALL"
	Put  Side = "PUT"
)

// ContractQuote is a single strike/side quote from a 0-DTE option chain.
// Gamma is the per-share Black-Scholes gamma; OpenInterest is contracts.
type ContractQuote struct {
	Strike       float64 `json:"strike"`
	Side         Side    `json:"side"`
	Gamma        float64 `json:"gamma"`
	OpenInterest int64   `json:"open_interest"`
}

// Snapshot is one option chain capture for a single symbol and expiration
// cohort. It is created once per fetch and never mutated afterwards.
type Snapshot struct {
	Symbol    string          `json:"symbol"`
	SpotPrice float64         `json:"spot"`
	AsOf      time.Time       `json:"as_of"`
	Contracts []ContractQuote `json:"contracts"`
}

// Empty reports whether the snapshot carries no usable contracts.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Contracts) == 0
}
