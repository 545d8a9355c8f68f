package rates

import "errors"

// Errors returned by the rate oracle.
var (
	ErrOwnerOnly      = errors.New("rates: owner only")
	ErrNotFound       = errors.New("rates: rate not found")
	ErrStalePrice     = errors.New("rates: quote older than max rate age")
	ErrInvalidRate    = errors.New("rates: rate out of bounds")
	ErrUnauthorized   = errors.New("rates: caller not authorized")
	ErrInvalidPair    = errors.New("rates: invalid currency pair")
	ErrOracleInactive = errors.New("rates: oracle paused")
	ErrOracleActive   = errors.New("rates: oracle not paused")
)
