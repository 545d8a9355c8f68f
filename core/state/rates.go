package state

import (
	"fmt"
	"math/big"

	"remitpool/native/rates"
)

type storedRate struct {
	Pair      string
	Rate      *big.Int
	UpdatedAt uint64
	Updater   [20]byte
}

// RatePut persists the quote for a currency pair, overwriting any prior
// record.
func (m *Manager) RatePut(r *rates.ExchangeRate) error {
	if r == nil {
		return fmt.Errorf("state: exchange rate must not be nil")
	}
	pair := rates.NormalizePair(r.Pair)
	if pair == "" {
		return fmt.Errorf("state: exchange rate pair required")
	}
	rate := cloneOrZero(r.Rate)
	if rate.Sign() <= 0 {
		return fmt.Errorf("state: exchange rate must be positive")
	}
	stored := storedRate{
		Pair:      pair,
		Rate:      rate,
		UpdatedAt: uint64(r.UpdatedAt),
		Updater:   r.Updater,
	}
	return m.kvPut(rateQuoteKey(pair), stored)
}

// RateGet loads the quote for a currency pair.
func (m *Manager) RateGet(pair string) (*rates.ExchangeRate, bool, error) {
	var stored storedRate
	ok, err := m.kvGet(rateQuoteKey(rates.NormalizePair(pair)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rates.ExchangeRate{
		Pair:      stored.Pair,
		Rate:      cloneOrZero(stored.Rate),
		UpdatedAt: int64(stored.UpdatedAt),
		Updater:   stored.Updater,
	}, true, nil
}

// SetRateUpdater stores the authorization flag for an updater identity.
// Revocation writes false instead of deleting the entry.
func (m *Manager) SetRateUpdater(updater [20]byte, authorized bool) error {
	return m.kvPut(rateUpdaterKey(updater), authorized)
}

// RateUpdaterAuthorized reports whether the identity holds a stored grant.
// Absent entries default to false.
func (m *Manager) RateUpdaterAuthorized(updater [20]byte) (bool, error) {
	var authorized bool
	ok, err := m.kvGet(rateUpdaterKey(updater), &authorized)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return authorized, nil
}
