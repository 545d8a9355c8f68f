package state

import (
	"fmt"
	"math/big"

	"remitpool/core/types"
)

type storedAccount struct {
	Nonce   uint64
	Balance *big.Int
}

// GetAccount loads the account for an address. Unknown addresses yield a
// fresh zero-balance account rather than an error.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("state: account address required")
	}
	var stored storedAccount
	ok, err := m.kvGet(accountKey(addr), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	balance := big.NewInt(0)
	if stored.Balance != nil {
		balance = new(big.Int).Set(stored.Balance)
	}
	return &types.Account{Nonce: stored.Nonce, Balance: balance}, nil
}

// PutAccount persists the account for an address.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	if len(addr) == 0 {
		return fmt.Errorf("state: account address required")
	}
	if account == nil {
		return fmt.Errorf("state: account must not be nil")
	}
	balance := big.NewInt(0)
	if account.Balance != nil {
		balance = new(big.Int).Set(account.Balance)
	}
	if balance.Sign() < 0 {
		return fmt.Errorf("state: account balance must be non-negative")
	}
	return m.kvPut(accountKey(addr), storedAccount{Nonce: account.Nonce, Balance: balance})
}
