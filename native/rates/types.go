package rates

import (
	"math/big"
	"strings"
)

const (
	// RateDecimals fixes the scale of every stored rate: a quote of
	// 15_050_000_000 encodes 150.5.
	RateDecimals = 8

	// MaxRateAge bounds how old a quote may be before the strict read path
	// rejects it, in seconds.
	MaxRateAge int64 = 86_400

	maxPairLen = 32
)

// ModuleName identifies the oracle in the shared pause registry.
const ModuleName = "rates"

// Rate bounds, in RateDecimals scale. MaxRate admits quotes up to ten
// million whole units per base unit.
var (
	MinRate = big.NewInt(1)
	MaxRate = new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil)
)

// ExchangeRate is the stored quote for one currency pair. Every update
// overwrites the record in full; no history is retained.
type ExchangeRate struct {
	Pair      string
	Rate      *big.Int
	UpdatedAt int64
	Updater   [20]byte
}

// Clone returns a deep copy so callers can mutate the result safely.
func (r *ExchangeRate) Clone() *ExchangeRate {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Rate != nil {
		clone.Rate = new(big.Int).Set(r.Rate)
	} else {
		clone.Rate = big.NewInt(0)
	}
	return &clone
}

// NormalizePair trims and upper-cases a currency pair identifier. The
// content is otherwise opaque to the oracle.
func NormalizePair(pair string) string {
	return strings.ToUpper(strings.TrimSpace(pair))
}
