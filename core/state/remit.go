package state

import (
	"fmt"
	"math/big"

	"remitpool/native/remit"
)

type storedRemittance struct {
	ID           uint64
	Creator      [20]byte
	Recipient    [20]byte
	TargetAmount *big.Int
	TotalRaised  *big.Int
	Deadline     uint64
	Description  string
	CurrencyPair string
	Status       uint8
	CreatedAt    uint64
	ReleasedAt   uint64
}

type storedContribution struct {
	Amount        *big.Int
	ContributedAt uint64
}

// RemittancePut sanitizes and persists a remittance record.
func (m *Manager) RemittancePut(r *remit.Remittance) error {
	sanitized, err := remit.SanitizeRemittance(r)
	if err != nil {
		return err
	}
	stored := storedRemittance{
		ID:           sanitized.ID,
		Creator:      sanitized.Creator,
		Recipient:    sanitized.Recipient,
		TargetAmount: sanitized.TargetAmount,
		TotalRaised:  sanitized.TotalRaised,
		Deadline:     uint64(sanitized.Deadline),
		Description:  sanitized.Description,
		CurrencyPair: sanitized.CurrencyPair,
		Status:       uint8(sanitized.Status),
		CreatedAt:    uint64(sanitized.CreatedAt),
		ReleasedAt:   uint64(sanitized.ReleasedAt),
	}
	return m.kvPut(remitRecordKey(sanitized.ID), stored)
}

// RemittanceGet loads a remittance record by id.
func (m *Manager) RemittanceGet(id uint64) (*remit.Remittance, bool, error) {
	var stored storedRemittance
	ok, err := m.kvGet(remitRecordKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	record := &remit.Remittance{
		ID:           stored.ID,
		Creator:      stored.Creator,
		Recipient:    stored.Recipient,
		TargetAmount: cloneOrZero(stored.TargetAmount),
		TotalRaised:  cloneOrZero(stored.TotalRaised),
		Deadline:     int64(stored.Deadline),
		Description:  stored.Description,
		CurrencyPair: stored.CurrencyPair,
		Status:       remit.Status(stored.Status),
		CreatedAt:    int64(stored.CreatedAt),
		ReleasedAt:   int64(stored.ReleasedAt),
	}
	return record, true, nil
}

// RemitCounter returns the next remittance id to assign. Ids are dense and
// never reused, even after cancellation.
func (m *Manager) RemitCounter() (uint64, error) {
	var counter uint64
	ok, err := m.kvGet(remitCounterKey, &counter)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return counter, nil
}

// SetRemitCounter stores the next remittance id.
func (m *Manager) SetRemitCounter(next uint64) error {
	return m.kvPut(remitCounterKey, next)
}

// ContributionPut persists the accumulated contribution for one contributor.
func (m *Manager) ContributionPut(id uint64, contributor [20]byte, c *remit.Contribution) error {
	if c == nil {
		return fmt.Errorf("state: contribution must not be nil")
	}
	amount := cloneOrZero(c.Amount)
	if amount.Sign() < 0 {
		return fmt.Errorf("state: contribution amount must be non-negative")
	}
	stored := storedContribution{Amount: amount, ContributedAt: uint64(c.ContributedAt)}
	return m.kvPut(remitContribKey(id, contributor), stored)
}

// ContributionGet loads the accumulated contribution for one contributor.
func (m *Manager) ContributionGet(id uint64, contributor [20]byte) (*remit.Contribution, bool, error) {
	var stored storedContribution
	ok, err := m.kvGet(remitContribKey(id, contributor), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &remit.Contribution{
		Amount:        cloneOrZero(stored.Amount),
		ContributedAt: int64(stored.ContributedAt),
	}, true, nil
}

// RosterAppend adds a contributor to the end of the remittance roster.
// Insertion order is preserved to keep refund ordering deterministic.
func (m *Manager) RosterAppend(id uint64, contributor [20]byte) error {
	roster, err := m.Roster(id)
	if err != nil {
		return err
	}
	if len(roster) >= remit.MaxRosterSize {
		return fmt.Errorf("state: roster for remittance %d full", id)
	}
	for _, existing := range roster {
		if existing == contributor {
			return nil
		}
	}
	roster = append(roster, contributor)
	return m.kvPut(remitRosterKey(id), roster)
}

// Roster returns the contributor roster in insertion order.
func (m *Manager) Roster(id uint64) ([][20]byte, error) {
	var roster [][20]byte
	ok, err := m.kvGet(remitRosterKey(id), &roster)
	if err != nil {
		return nil, err
	}
	if !ok {
		return [][20]byte{}, nil
	}
	return roster, nil
}

// PlatformFeeBps returns the stored fee rate, falling back to the default
// when none has been written yet.
func (m *Manager) PlatformFeeBps() (uint32, error) {
	var bps uint32
	ok, err := m.kvGet(remitFeeBpsKey, &bps)
	if err != nil {
		return 0, err
	}
	if !ok {
		return remit.DefaultFeeBps, nil
	}
	return bps, nil
}

// SetPlatformFeeBps stores the fee rate.
func (m *Manager) SetPlatformFeeBps(bps uint32) error {
	return m.kvPut(remitFeeBpsKey, bps)
}

func cloneOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
