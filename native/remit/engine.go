package remit

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"remitpool/core/events"
	"remitpool/core/types"
	"remitpool/native/common"
)

var (
	errNilState = errors.New("remit engine: state not configured")
	errNilOwner = errors.New("remit engine: platform owner not configured")
)

// engineState is the slice of state-manager functionality the escrow ledger
// relies on. The host serializes all mutating calls, so no locking happens
// at this level.
type engineState interface {
	RemittancePut(*Remittance) error
	RemittanceGet(id uint64) (*Remittance, bool, error)
	RemitCounter() (uint64, error)
	SetRemitCounter(next uint64) error
	ContributionPut(id uint64, contributor [20]byte, c *Contribution) error
	ContributionGet(id uint64, contributor [20]byte) (*Contribution, bool, error)
	RosterAppend(id uint64, contributor [20]byte) error
	Roster(id uint64) ([][20]byte, error)
	PlatformFeeBps() (uint32, error)
	SetPlatformFeeBps(bps uint32) error
	IsPaused(module string) bool
	SetPaused(module string, paused bool) error
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// Engine implements the pooled remittance escrow ledger: campaign lifecycle,
// contribution accounting, fee computation, atomic multi-party refunds and
// the owner-gated admin surface.
type Engine struct {
	state   engineState
	emitter events.Emitter
	owner   [20]byte
	nowFn   func() int64
}

// NewEngine creates an escrow engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetOwner configures the platform owner: the only identity allowed to use
// the admin surface, and the account that receives release fees.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

// SetNowFunc overrides the time source used by the engine. Primarily
// intended for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func (e *Engine) requireOwner(caller [20]byte) error {
	if e.owner == ([20]byte{}) {
		return errNilOwner
	}
	if caller != e.owner {
		return ErrOwnerOnly
	}
	return nil
}

func (e *Engine) loadRemittance(id uint64) (*Remittance, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	r, ok, err := e.state.RemittanceGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (e *Engine) storeRemittance(r *Remittance) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	return e.state.RemittancePut(r)
}

// ledgerView stages balance mutations for one logical operation so compound
// transfers commit all-or-nothing. Every failure path leaves the persisted
// accounts untouched.
type ledgerView struct {
	state    engineState
	accounts map[[20]byte]*types.Account
}

func newLedgerView(state engineState) *ledgerView {
	return &ledgerView{state: state, accounts: make(map[[20]byte]*types.Account)}
}

func (v *ledgerView) account(addr [20]byte) (*types.Account, error) {
	if acc, ok := v.accounts[addr]; ok {
		return acc, nil
	}
	acc, err := v.state.GetAccount(addr[:])
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = &types.Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	v.accounts[addr] = acc
	return acc, nil
}

func (v *ledgerView) transfer(from, to [20]byte, amount *big.Int) error {
	amt := cloneBigInt(amount)
	if amt.Sign() < 0 {
		return fmt.Errorf("remit: negative transfer amount")
	}
	if amt.Sign() == 0 {
		return nil
	}
	fromAcc, err := v.account(from)
	if err != nil {
		return err
	}
	toAcc, err := v.account(to)
	if err != nil {
		return err
	}
	if fromAcc.Balance.Cmp(amt) < 0 {
		return ErrInsufficientBalance
	}
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amt)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
	return nil
}

func (v *ledgerView) commit() error {
	addrs := make([][20]byte, 0, len(v.accounts))
	for addr := range v.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	for _, addr := range addrs {
		if err := v.state.PutAccount(addr[:], v.accounts[addr]); err != nil {
			return err
		}
	}
	return nil
}

// Create registers a new remittance campaign and assigns the next dense id.
// No value moves at creation time.
func (e *Engine) Create(caller, recipient [20]byte, target *big.Int, deadline int64, description, currencyPair string) (*Remittance, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, ModuleName); err != nil {
		return nil, ErrPaused
	}
	if recipient == caller {
		return nil, ErrInvalidRecipient
	}
	amt := cloneBigInt(target)
	if amt.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	now := e.now()
	if deadline <= now {
		return nil, ErrInvalidDeadline
	}
	if len(description) > maxDescriptionLen || len(currencyPair) > maxCurrencyPairLen {
		return nil, ErrMetadataTooLong
	}
	id, err := e.state.RemitCounter()
	if err != nil {
		return nil, err
	}
	r := &Remittance{
		ID:           id,
		Creator:      caller,
		Recipient:    recipient,
		TargetAmount: amt,
		TotalRaised:  big.NewInt(0),
		Deadline:     deadline,
		Description:  description,
		CurrencyPair: currencyPair,
		Status:       StatusActive,
		CreatedAt:    now,
	}
	if err := e.storeRemittance(r); err != nil {
		return nil, err
	}
	if err := e.state.SetRemitCounter(id + 1); err != nil {
		return nil, err
	}
	e.emit(events.RemitCreated{
		ID:        r.ID,
		Creator:   r.Creator,
		Recipient: r.Recipient,
		Target:    cloneBigInt(r.TargetAmount),
		Deadline:  r.Deadline,
		Pair:      r.CurrencyPair,
		CreatedAt: r.CreatedAt,
	})
	return r.Clone(), nil
}

// Contribute moves amount from the caller into the custodial pool and
// accumulates it against the remittance. Crossing the target flips the
// status to funded; overshoot is permitted and retained.
func (e *Engine) Contribute(caller [20]byte, id uint64, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.state, ModuleName); err != nil {
		return ErrPaused
	}
	r, err := e.loadRemittance(id)
	if err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if amt.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if r.Status != StatusActive {
		return ErrInvalidStatus
	}
	now := e.now()
	if now >= r.Deadline {
		return ErrDeadlinePassed
	}
	prior, havePrior, err := e.state.ContributionGet(id, caller)
	if err != nil {
		return err
	}
	accumulated := big.NewInt(0)
	if havePrior && prior != nil && prior.Amount != nil {
		accumulated = prior.Amount
	}
	// First-time contributors are detected by a zero accumulated amount,
	// not by roster membership.
	firstTime := accumulated.Sign() == 0
	if firstTime {
		roster, err := e.state.Roster(id)
		if err != nil {
			return err
		}
		if len(roster) >= MaxRosterSize {
			return ErrRosterFull
		}
	}
	// The transfer happens only after every other precondition holds; a
	// failed transfer leaves no state behind.
	view := newLedgerView(e.state)
	if err := view.transfer(caller, PoolAddress(), amt); err != nil {
		return err
	}
	if err := view.commit(); err != nil {
		return err
	}
	updated := &Contribution{
		Amount:        new(big.Int).Add(accumulated, amt),
		ContributedAt: now,
	}
	if err := e.state.ContributionPut(id, caller, updated); err != nil {
		return err
	}
	if firstTime {
		if err := e.state.RosterAppend(id, caller); err != nil {
			return err
		}
	}
	r.TotalRaised = new(big.Int).Add(r.TotalRaised, amt)
	crossed := false
	if r.TotalRaised.Cmp(r.TargetAmount) >= 0 {
		r.Status = StatusFunded
		crossed = true
	}
	if err := e.storeRemittance(r); err != nil {
		return err
	}
	e.emit(events.RemitContributed{
		ID:          id,
		Contributor: caller,
		Amount:      amt,
		TotalRaised: cloneBigInt(r.TotalRaised),
	})
	if crossed {
		e.emit(events.RemitFunded{
			ID:          id,
			Target:      cloneBigInt(r.TargetAmount),
			TotalRaised: cloneBigInt(r.TotalRaised),
		})
	}
	return nil
}

// Release settles a funded remittance: the recipient receives the raised
// total minus the platform fee, the fee goes to the owner, both as one
// atomic group. The deadline is irrelevant here.
func (e *Engine) Release(caller [20]byte, id uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	r, err := e.loadRemittance(id)
	if err != nil {
		return err
	}
	if caller != r.Recipient {
		return ErrUnauthorized
	}
	if r.Status != StatusFunded {
		return ErrInvalidStatus
	}
	if e.owner == ([20]byte{}) {
		return errNilOwner
	}
	feeBps, err := e.state.PlatformFeeBps()
	if err != nil {
		return err
	}
	total := cloneBigInt(r.TotalRaised)
	fee := new(big.Int).Mul(total, new(big.Int).SetUint64(uint64(feeBps)))
	fee.Div(fee, big.NewInt(feeDenominator))
	net := new(big.Int).Sub(total, fee)
	view := newLedgerView(e.state)
	pool := PoolAddress()
	if err := view.transfer(pool, r.Recipient, net); err != nil {
		return err
	}
	if err := view.transfer(pool, e.owner, fee); err != nil {
		return err
	}
	if err := view.commit(); err != nil {
		return err
	}
	r.Status = StatusCompleted
	r.ReleasedAt = e.now()
	if err := e.storeRemittance(r); err != nil {
		return err
	}
	e.emit(events.RemitReleased{
		ID:         id,
		Recipient:  r.Recipient,
		Net:        net,
		Fee:        fee,
		ReleasedAt: r.ReleasedAt,
	})
	return nil
}

// Cancel refunds every contributor their exact accumulated amount and
// terminates the remittance. The refund pass is staged in full before any
// balance is persisted, so it either commits for everyone or for no one.
func (e *Engine) Cancel(caller [20]byte, id uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	r, err := e.loadRemittance(id)
	if err != nil {
		return err
	}
	if caller != r.Creator {
		return ErrUnauthorized
	}
	if r.Status != StatusActive && r.Status != StatusFunded {
		return ErrInvalidStatus
	}
	roster, err := e.state.Roster(id)
	if err != nil {
		return err
	}
	view := newLedgerView(e.state)
	pool := PoolAddress()
	refunded := big.NewInt(0)
	payouts := 0
	for _, contributor := range roster {
		c, ok, err := e.state.ContributionGet(id, contributor)
		if err != nil {
			return err
		}
		if !ok || c == nil || c.Amount == nil {
			return fmt.Errorf("%w: remittance %d contributor %x", errCorruptRoster, id, contributor)
		}
		if c.Amount.Sign() == 0 {
			continue
		}
		if err := view.transfer(pool, contributor, c.Amount); err != nil {
			return err
		}
		refunded.Add(refunded, c.Amount)
		payouts++
	}
	if err := view.commit(); err != nil {
		return err
	}
	r.Status = StatusCancelled
	if err := e.storeRemittance(r); err != nil {
		return err
	}
	e.emit(events.RemitCancelled{ID: id, Refunded: refunded, Payouts: payouts})
	return nil
}

// Pause freezes campaign creation and contributions. Release and Cancel stay
// available so funds are never trapped by an admin freeze.
func (e *Engine) Pause(caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if e.state.IsPaused(ModuleName) {
		return ErrPaused
	}
	if err := e.state.SetPaused(ModuleName, true); err != nil {
		return err
	}
	e.emit(events.RemitPaused{})
	return nil
}

// Unpause lifts a ledger-wide freeze.
func (e *Engine) Unpause(caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if !e.state.IsPaused(ModuleName) {
		return ErrNotPaused
	}
	if err := e.state.SetPaused(ModuleName, false); err != nil {
		return err
	}
	e.emit(events.RemitUnpaused{})
	return nil
}

// SetPlatformFee updates the fee rate applied at release time, bounded to
// [0, MaxFeeBps].
func (e *Engine) SetPlatformFee(caller [20]byte, bps uint32) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if bps > MaxFeeBps {
		return ErrInvalidAmount
	}
	old, err := e.state.PlatformFeeBps()
	if err != nil {
		return err
	}
	if err := e.state.SetPlatformFeeBps(bps); err != nil {
		return err
	}
	e.emit(events.RemitFeeUpdated{OldBps: old, NewBps: bps})
	return nil
}

// EmergencyWithdraw moves value from the pool to an arbitrary recipient with
// no tie to any remittance or contributor. It exists purely as a stuck-fund
// recovery hatch for the platform owner and is never part of the normal
// flow.
func (e *Engine) EmergencyWithdraw(caller [20]byte, amount *big.Int, recipient [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	amt := cloneBigInt(amount)
	if amt.Sign() <= 0 {
		return ErrInvalidAmount
	}
	view := newLedgerView(e.state)
	if err := view.transfer(PoolAddress(), recipient, amt); err != nil {
		return err
	}
	if err := view.commit(); err != nil {
		return err
	}
	e.emit(events.RemitEmergencyWithdraw{Recipient: recipient, Amount: amt})
	return nil
}

// Remittance returns the stored campaign record.
func (e *Engine) Remittance(id uint64) (*Remittance, error) {
	return e.loadRemittance(id)
}

// Contribution returns the accumulated contribution of one contributor. A
// contributor with no record yields a zero-amount contribution rather than
// an error.
func (e *Engine) Contribution(id uint64, contributor [20]byte) (*Contribution, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if _, err := e.loadRemittance(id); err != nil {
		return nil, err
	}
	c, ok, err := e.state.ContributionGet(id, contributor)
	if err != nil {
		return nil, err
	}
	if !ok || c == nil {
		return &Contribution{Amount: big.NewInt(0)}, nil
	}
	return c, nil
}

// Contributors returns the roster in insertion order.
func (e *Engine) Contributors(id uint64) ([][20]byte, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if _, err := e.loadRemittance(id); err != nil {
		return nil, err
	}
	return e.state.Roster(id)
}

// PlatformFeeBps returns the fee rate currently applied at release time.
func (e *Engine) PlatformFeeBps() (uint32, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.PlatformFeeBps()
}

// Paused reports whether campaign creation and contributions are frozen.
func (e *Engine) Paused() bool {
	if e == nil || e.state == nil {
		return false
	}
	return e.state.IsPaused(ModuleName)
}
