package gex

// Strategy is the closed set of 0-DTE structures the scorer knows about.
// Adding a variant requires touching the dispatch tables in adjust.go, which
// keeps the extension compile-time checked instead of string-matched.
type Strategy int

const (
	Butterfly Strategy = iota
	IronCondor
	Vertical
)

// Strategies lists every variant in a stable order.
var Strategies = []Strategy{Butterfly, IronCondor, Vertical}

func (s Strategy) String() string {
	switch s {
	case Butterfly:
		return "Butterfly"
	case IronCondor:
		return "Iron_Condor"
	case Vertical:
		return "Vertical"
	}
	return "Unknown"
}
