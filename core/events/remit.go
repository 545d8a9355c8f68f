package events

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"remitpool/core/types"
)

const (
	TypeRemitCreated           = "remit.created"
	TypeRemitContributed       = "remit.contributed"
	TypeRemitFunded            = "remit.funded"
	TypeRemitReleased          = "remit.released"
	TypeRemitCancelled         = "remit.cancelled"
	TypeRemitPaused            = "remit.paused"
	TypeRemitUnpaused          = "remit.unpaused"
	TypeRemitFeeUpdated        = "remit.fee_updated"
	TypeRemitEmergencyWithdraw = "remit.emergency_withdraw"
)

// RemitCreated is emitted when a new remittance campaign is registered.
type RemitCreated struct {
	ID        uint64
	Creator   [20]byte
	Recipient [20]byte
	Target    *big.Int
	Deadline  int64
	Pair      string
	CreatedAt int64
}

func (RemitCreated) EventType() string { return TypeRemitCreated }

func (e RemitCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeRemitCreated,
		Attributes: map[string]string{
			"id":        strconv.FormatUint(e.ID, 10),
			"creator":   hex.EncodeToString(e.Creator[:]),
			"recipient": hex.EncodeToString(e.Recipient[:]),
			"target":    formatAmount(e.Target),
			"deadline":  strconv.FormatInt(e.Deadline, 10),
			"pair":      e.Pair,
			"createdAt": strconv.FormatInt(e.CreatedAt, 10),
		},
	}
}

// RemitContributed is emitted for every accepted contribution.
type RemitContributed struct {
	ID          uint64
	Contributor [20]byte
	Amount      *big.Int
	TotalRaised *big.Int
}

func (RemitContributed) EventType() string { return TypeRemitContributed }

func (e RemitContributed) Event() *types.Event {
	return &types.Event{
		Type: TypeRemitContributed,
		Attributes: map[string]string{
			"id":          strconv.FormatUint(e.ID, 10),
			"contributor": hex.EncodeToString(e.Contributor[:]),
			"amount":      formatAmount(e.Amount),
			"totalRaised": formatAmount(e.TotalRaised),
		},
	}
}

// RemitFunded is emitted when total raised first reaches the target.
type RemitFunded struct {
	ID          uint64
	Target      *big.Int
	TotalRaised *big.Int
}

func (RemitFunded) EventType() string { return TypeRemitFunded }

func (e RemitFunded) Event() *types.Event {
	return &types.Event{
		Type: TypeRemitFunded,
		Attributes: map[string]string{
			"id":          strconv.FormatUint(e.ID, 10),
			"target":      formatAmount(e.Target),
			"totalRaised": formatAmount(e.TotalRaised),
		},
	}
}

// RemitReleased is emitted once escrowed funds settle to the recipient.
type RemitReleased struct {
	ID         uint64
	Recipient  [20]byte
	Net        *big.Int
	Fee        *big.Int
	ReleasedAt int64
}

func (RemitReleased) EventType() string { return TypeRemitReleased }

func (e RemitReleased) Event() *types.Event {
	return &types.Event{
		Type: TypeRemitReleased,
		Attributes: map[string]string{
			"id":         strconv.FormatUint(e.ID, 10),
			"recipient":  hex.EncodeToString(e.Recipient[:]),
			"net":        formatAmount(e.Net),
			"fee":        formatAmount(e.Fee),
			"releasedAt": strconv.FormatInt(e.ReleasedAt, 10),
		},
	}
}

// RemitCancelled is emitted after every contributor has been refunded.
type RemitCancelled struct {
	ID       uint64
	Refunded *big.Int
	Payouts  int
}

func (RemitCancelled) EventType() string { return TypeRemitCancelled }

func (e RemitCancelled) Event() *types.Event {
	return &types.Event{
		Type: TypeRemitCancelled,
		Attributes: map[string]string{
			"id":       strconv.FormatUint(e.ID, 10),
			"refunded": formatAmount(e.Refunded),
			"payouts":  strconv.Itoa(e.Payouts),
		},
	}
}

// RemitPaused marks the ledger-wide contribution freeze.
type RemitPaused struct{}

func (RemitPaused) EventType() string { return TypeRemitPaused }

func (e RemitPaused) Event() *types.Event {
	return &types.Event{Type: TypeRemitPaused, Attributes: map[string]string{}}
}

// RemitUnpaused marks the end of a ledger-wide freeze.
type RemitUnpaused struct{}

func (RemitUnpaused) EventType() string { return TypeRemitUnpaused }

func (e RemitUnpaused) Event() *types.Event {
	return &types.Event{Type: TypeRemitUnpaused, Attributes: map[string]string{}}
}

// RemitFeeUpdated records a platform fee change.
type RemitFeeUpdated struct {
	OldBps uint32
	NewBps uint32
}

func (RemitFeeUpdated) EventType() string { return TypeRemitFeeUpdated }

func (e RemitFeeUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeRemitFeeUpdated,
		Attributes: map[string]string{
			"oldBps": strconv.FormatUint(uint64(e.OldBps), 10),
			"newBps": strconv.FormatUint(uint64(e.NewBps), 10),
		},
	}
}

// RemitEmergencyWithdraw records the owner escape hatch being exercised.
type RemitEmergencyWithdraw struct {
	Recipient [20]byte
	Amount    *big.Int
}

func (RemitEmergencyWithdraw) EventType() string { return TypeRemitEmergencyWithdraw }

func (e RemitEmergencyWithdraw) Event() *types.Event {
	return &types.Event{
		Type: TypeRemitEmergencyWithdraw,
		Attributes: map[string]string{
			"recipient": hex.EncodeToString(e.Recipient[:]),
			"amount":    formatAmount(e.Amount),
		},
	}
}
