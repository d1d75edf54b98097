package chain

import "errors"

var (
	ErrDataUnavailable = errors.New("option chain data unavailable")
	ErrInvalidInput    = errors.New("invalid market input")
	ErrRateLimited     = errors.New("rate limited by data vendor")
)
