package rates

import (
	"errors"
	"math/big"
	"time"

	"remitpool/core/events"
	"remitpool/native/common"
)

var errNilState = errors.New("rates oracle: state not configured")

// oracleState is the slice of state-manager functionality the oracle relies
// on.
type oracleState interface {
	RatePut(*ExchangeRate) error
	RateGet(pair string) (*ExchangeRate, bool, error)
	SetRateUpdater(updater [20]byte, authorized bool) error
	RateUpdaterAuthorized(updater [20]byte) (bool, error)
	IsPaused(module string) bool
	SetPaused(module string, paused bool) error
}

// Oracle maintains authenticated, time-bounded exchange-rate quotes. It is a
// single-writer-per-pair map with a staleness check on the strict read path;
// it never feeds back into the escrow ledger on-chain.
type Oracle struct {
	state   oracleState
	emitter events.Emitter
	owner   [20]byte
	nowFn   func() int64
}

// NewOracle creates a rate oracle with a no-op emitter.
func NewOracle() *Oracle {
	return &Oracle{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the oracle.
func (o *Oracle) SetState(state oracleState) { o.state = state }

// SetOwner configures the administrative owner. The owner is implicitly an
// authorized updater without a stored entry.
func (o *Oracle) SetOwner(owner [20]byte) { o.owner = owner }

// SetNowFunc overrides the time source, primarily for tests.
func (o *Oracle) SetNowFunc(now func() int64) {
	if now == nil {
		o.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	o.nowFn = now
}

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
func (o *Oracle) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		o.emitter = events.NoopEmitter{}
		return
	}
	o.emitter = emitter
}

func (o *Oracle) emit(evt events.Event) {
	if o == nil || o.emitter == nil || evt == nil {
		return
	}
	o.emitter.Emit(evt)
}

func (o *Oracle) now() int64 {
	if o == nil || o.nowFn == nil {
		return time.Now().Unix()
	}
	return o.nowFn()
}

func (o *Oracle) requireOwner(caller [20]byte) error {
	if caller != o.owner || o.owner == ([20]byte{}) {
		return ErrOwnerOnly
	}
	return nil
}

// IsAuthorized reports whether the identity may write quotes. The owner is
// always authorized; everyone else needs a stored grant.
func (o *Oracle) IsAuthorized(updater [20]byte) (bool, error) {
	if o == nil || o.state == nil {
		return false, errNilState
	}
	if o.owner != ([20]byte{}) && updater == o.owner {
		return true, nil
	}
	return o.state.RateUpdaterAuthorized(updater)
}

// UpdateRate upserts the quote for a currency pair, overwriting the prior
// rate, updater and timestamp unconditionally. Rates may move in either
// direction between successive updates.
func (o *Oracle) UpdateRate(caller [20]byte, pair string, rate *big.Int) error {
	if o == nil || o.state == nil {
		return errNilState
	}
	if err := common.Guard(o.state, ModuleName); err != nil {
		return ErrOracleInactive
	}
	authorized, err := o.IsAuthorized(caller)
	if err != nil {
		return err
	}
	if !authorized {
		return ErrUnauthorized
	}
	normalized := NormalizePair(pair)
	if normalized == "" || len(normalized) > maxPairLen {
		return ErrInvalidPair
	}
	if rate == nil || rate.Cmp(MinRate) < 0 || rate.Cmp(MaxRate) > 0 {
		return ErrInvalidRate
	}
	record := &ExchangeRate{
		Pair:      normalized,
		Rate:      new(big.Int).Set(rate),
		UpdatedAt: o.now(),
		Updater:   caller,
	}
	if err := o.state.RatePut(record); err != nil {
		return err
	}
	o.emit(events.RateUpdated{
		Pair:      record.Pair,
		Rate:      new(big.Int).Set(record.Rate),
		Updater:   record.Updater,
		UpdatedAt: record.UpdatedAt,
	})
	return nil
}

// Rate returns the stored quote regardless of age.
func (o *Oracle) Rate(pair string) (*ExchangeRate, error) {
	if o == nil || o.state == nil {
		return nil, errNilState
	}
	normalized := NormalizePair(pair)
	if normalized == "" {
		return nil, ErrInvalidPair
	}
	record, ok, err := o.state.RateGet(normalized)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

// FreshRate returns the stored quote only when it is at most MaxRateAge
// seconds old.
func (o *Oracle) FreshRate(pair string) (*ExchangeRate, error) {
	record, err := o.Rate(pair)
	if err != nil {
		return nil, err
	}
	if o.now()-record.UpdatedAt > MaxRateAge {
		return nil, ErrStalePrice
	}
	return record, nil
}

// AddUpdater grants quote-write access to an identity.
func (o *Oracle) AddUpdater(caller, updater [20]byte) error {
	if o == nil || o.state == nil {
		return errNilState
	}
	if err := o.requireOwner(caller); err != nil {
		return err
	}
	if err := o.state.SetRateUpdater(updater, true); err != nil {
		return err
	}
	o.emit(events.RateUpdaterAdded{Updater: updater})
	return nil
}

// RemoveUpdater revokes quote-write access. The stored flag is set to false
// rather than deleted, so removal is idempotent.
func (o *Oracle) RemoveUpdater(caller, updater [20]byte) error {
	if o == nil || o.state == nil {
		return errNilState
	}
	if err := o.requireOwner(caller); err != nil {
		return err
	}
	if err := o.state.SetRateUpdater(updater, false); err != nil {
		return err
	}
	o.emit(events.RateUpdaterRemoved{Updater: updater})
	return nil
}

// PauseOracle freezes the write path. Reads remain available while paused.
func (o *Oracle) PauseOracle(caller [20]byte) error {
	if o == nil || o.state == nil {
		return errNilState
	}
	if err := o.requireOwner(caller); err != nil {
		return err
	}
	if o.state.IsPaused(ModuleName) {
		return ErrOracleInactive
	}
	if err := o.state.SetPaused(ModuleName, true); err != nil {
		return err
	}
	o.emit(events.RateOraclePaused{})
	return nil
}

// UnpauseOracle reopens the write path.
func (o *Oracle) UnpauseOracle(caller [20]byte) error {
	if o == nil || o.state == nil {
		return errNilState
	}
	if err := o.requireOwner(caller); err != nil {
		return err
	}
	if !o.state.IsPaused(ModuleName) {
		return ErrOracleActive
	}
	if err := o.state.SetPaused(ModuleName, false); err != nil {
		return err
	}
	o.emit(events.RateOracleUnpaused{})
	return nil
}

// Active reports whether the write path currently accepts updates.
func (o *Oracle) Active() bool {
	if o == nil || o.state == nil {
		return false
	}
	return !o.state.IsPaused(ModuleName)
}
