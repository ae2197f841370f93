package state

import (
	"fmt"
	"math/big"

	"ibochain/core/types"
)

// SeedAccount creates or credits an account with an initial free balance and
// raises total issuance by the same amount. Hosts call it during genesis
// initialisation; tests use it to stand up funded voters.
func (m *Manager) SeedAccount(addr []byte, balance *big.Int) error {
	if len(addr) == 0 {
		return fmt.Errorf("state: address must not be empty")
	}
	credit := big.NewInt(0)
	if balance != nil {
		if balance.Sign() < 0 {
			return fmt.Errorf("state: genesis balance cannot be negative")
		}
		credit = new(big.Int).Set(balance)
	}
	account, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	if account == nil {
		account = &types.Account{}
	}
	account.Normalize()
	account.Balance = new(big.Int).Add(account.Balance, credit)
	if err := m.PutAccount(addr, account); err != nil {
		return err
	}
	total, err := m.TotalIssuance()
	if err != nil {
		return err
	}
	return m.SetTotalIssuance(new(big.Int).Add(total, credit))
}
