package remit

import "errors"

// Errors returned by the escrow ledger. Every public operation validates all
// preconditions before any state write or transfer; the first violation
// short-circuits the call with one of these values.
var (
	ErrOwnerOnly        = errors.New("remit: owner only")
	ErrNotFound         = errors.New("remit: remittance not found")
	ErrUnauthorized     = errors.New("remit: unauthorized caller")
	ErrInvalidAmount    = errors.New("remit: invalid amount")
	ErrInvalidDeadline  = errors.New("remit: deadline must be in the future")
	ErrInvalidStatus    = errors.New("remit: invalid remittance status")
	ErrDeadlinePassed   = errors.New("remit: deadline passed")
	ErrPaused           = errors.New("remit: ledger paused")
	ErrNotPaused        = errors.New("remit: ledger not paused")
	ErrInvalidRecipient = errors.New("remit: invalid recipient")
	ErrRosterFull       = errors.New("remit: contributor roster full")
	ErrMetadataTooLong  = errors.New("remit: metadata exceeds length bound")

	// ErrInsufficientBalance propagates a failed value transfer. The
	// operation that triggered it leaves no state behind.
	ErrInsufficientBalance = errors.New("remit: insufficient balance")

	// errCorruptRoster flags a roster entry without a matching contribution
	// record. This is a programming-invariant failure, not a caller error.
	errCorruptRoster = errors.New("remit: roster references missing contribution")
)
