package events

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"remitpool/core/types"
)

const (
	TypeRateUpdated        = "rates.updated"
	TypeRateUpdaterAdded   = "rates.updater_added"
	TypeRateUpdaterRemoved = "rates.updater_removed"
	TypeRateOraclePaused   = "rates.paused"
	TypeRateOracleUnpaused = "rates.unpaused"
)

// RateUpdated is emitted on every accepted quote write.
type RateUpdated struct {
	Pair      string
	Rate      *big.Int
	Updater   [20]byte
	UpdatedAt int64
}

func (RateUpdated) EventType() string { return TypeRateUpdated }

func (e RateUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeRateUpdated,
		Attributes: map[string]string{
			"pair":      e.Pair,
			"rate":      formatAmount(e.Rate),
			"updater":   hex.EncodeToString(e.Updater[:]),
			"updatedAt": strconv.FormatInt(e.UpdatedAt, 10),
		},
	}
}

// RateUpdaterAdded records an updater authorization grant.
type RateUpdaterAdded struct {
	Updater [20]byte
}

func (RateUpdaterAdded) EventType() string { return TypeRateUpdaterAdded }

func (e RateUpdaterAdded) Event() *types.Event {
	return &types.Event{
		Type:       TypeRateUpdaterAdded,
		Attributes: map[string]string{"updater": hex.EncodeToString(e.Updater[:])},
	}
}

// RateUpdaterRemoved records an updater authorization revocation.
type RateUpdaterRemoved struct {
	Updater [20]byte
}

func (RateUpdaterRemoved) EventType() string { return TypeRateUpdaterRemoved }

func (e RateUpdaterRemoved) Event() *types.Event {
	return &types.Event{
		Type:       TypeRateUpdaterRemoved,
		Attributes: map[string]string{"updater": hex.EncodeToString(e.Updater[:])},
	}
}

// RateOraclePaused marks the oracle write path being frozen.
type RateOraclePaused struct{}

func (RateOraclePaused) EventType() string { return TypeRateOraclePaused }

func (e RateOraclePaused) Event() *types.Event {
	return &types.Event{Type: TypeRateOraclePaused, Attributes: map[string]string{}}
}

// RateOracleUnpaused marks the oracle write path reopening.
type RateOracleUnpaused struct{}

func (RateOracleUnpaused) EventType() string { return TypeRateOracleUnpaused }

func (e RateOracleUnpaused) Event() *types.Event {
	return &types.Event{Type: TypeRateOracleUnpaused, Attributes: map[string]string{}}
}
