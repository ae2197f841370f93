package state

import (
	"fmt"
	"math/big"
)

var totalIssuanceKey = []byte("supply/total")

// TotalIssuance returns the persisted total issued supply. Missing entries
// default to zero.
func (m *Manager) TotalIssuance() (*big.Int, error) {
	total := new(big.Int)
	ok, err := m.KVGet(totalIssuanceKey, total)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return total, nil
}

// SetTotalIssuance overwrites the stored total issuance.
func (m *Manager) SetTotalIssuance(amount *big.Int) error {
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("state: total issuance cannot be negative")
	}
	return m.KVPut(totalIssuanceKey, amount)
}
