package remit

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
)

// Status tracks the lifecycle of a remittance campaign. The only transitions
// are active -> funded -> completed and active|funded -> cancelled; nothing
// leaves a terminal state.
type Status uint8

const (
	StatusActive Status = iota
	StatusFunded
	StatusCompleted
	StatusCancelled
)

const (
	// MaxRosterSize caps the distinct contributors per remittance, matching
	// the hard ceiling of the original host environment.
	MaxRosterSize = 100

	// MaxFeeBps bounds the platform fee at 5%.
	MaxFeeBps uint32 = 500

	// DefaultFeeBps is the platform fee applied when none has been stored.
	DefaultFeeBps uint32 = 50

	feeDenominator = 10_000

	maxDescriptionLen  = 256
	maxCurrencyPairLen = 32
)

// ModuleName identifies the escrow ledger in the shared pause registry.
const ModuleName = "remit"

// Remittance is a single funding campaign. Target and metadata are immutable
// after creation; TotalRaised only grows while the status is active.
type Remittance struct {
	ID           uint64
	Creator      [20]byte
	Recipient    [20]byte
	TargetAmount *big.Int
	TotalRaised  *big.Int
	Deadline     int64
	Description  string
	CurrencyPair string
	Status       Status
	CreatedAt    int64
	ReleasedAt   int64
}

// Contribution accumulates everything one contributor has paid into one
// remittance. ContributedAt tracks the most recent payment only.
type Contribution struct {
	Amount        *big.Int
	ContributedAt int64
}

// Clone returns a deep copy so callers can mutate the result safely.
func (r *Remittance) Clone() *Remittance {
	if r == nil {
		return nil
	}
	clone := *r
	if r.TargetAmount != nil {
		clone.TargetAmount = new(big.Int).Set(r.TargetAmount)
	} else {
		clone.TargetAmount = big.NewInt(0)
	}
	if r.TotalRaised != nil {
		clone.TotalRaised = new(big.Int).Set(r.TotalRaised)
	} else {
		clone.TotalRaised = big.NewInt(0)
	}
	return &clone
}

// Clone returns a deep copy of the contribution record.
func (c *Contribution) Clone() *Contribution {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Amount != nil {
		clone.Amount = new(big.Int).Set(c.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusFunded, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFunded:
		return "funded"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// SanitizeRemittance validates and normalises a remittance before it is
// persisted, returning a cloned instance with non-nil amounts. The original
// value is never mutated.
func SanitizeRemittance(r *Remittance) (*Remittance, error) {
	if r == nil {
		return nil, fmt.Errorf("nil remittance")
	}
	clone := r.Clone()
	if clone.TargetAmount.Sign() <= 0 {
		return nil, fmt.Errorf("remittance target must be positive")
	}
	if clone.TotalRaised.Sign() < 0 {
		return nil, fmt.Errorf("remittance total raised must be non-negative")
	}
	if !clone.Status.Valid() {
		return nil, fmt.Errorf("invalid remittance status: %d", clone.Status)
	}
	if len(clone.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("remittance description too long")
	}
	if len(clone.CurrencyPair) > maxCurrencyPairLen {
		return nil, fmt.Errorf("remittance currency pair too long")
	}
	clone.CurrencyPair = strings.TrimSpace(clone.CurrencyPair)
	return clone, nil
}

// PoolAddress derives the custodial account that holds escrowed value on
// behalf of every remittance. The address is fixed for the life of the chain
// and has no corresponding private key.
func PoolAddress() [20]byte {
	digest := sha256.Sum256([]byte("remitpool/module/pool/v1"))
	var addr [20]byte
	copy(addr[:], digest[12:])
	return addr
}
