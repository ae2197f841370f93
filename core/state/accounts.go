package state

import (
	"fmt"

	"ibochain/core/types"
)

var accountPrefix = []byte("account/")

func accountKey(addr []byte) []byte {
	key := make([]byte, len(accountPrefix)+len(addr))
	copy(key, accountPrefix)
	copy(key[len(accountPrefix):], addr)
	return key
}

// GetAccount loads the account record for the address. A missing account
// returns nil without an error so callers can distinguish absence from an
// empty balance.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("state: address must not be empty")
	}
	account := new(types.Account)
	ok, err := m.KVGet(accountKey(addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	account.Normalize()
	return account, nil
}

// PutAccount persists the account record for the address.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	if len(addr) == 0 {
		return fmt.Errorf("state: address must not be empty")
	}
	if account == nil {
		return fmt.Errorf("state: account must not be nil")
	}
	account.Normalize()
	return m.KVPut(accountKey(addr), account)
}
