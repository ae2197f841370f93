package types

import "math/big"

// Account is the balance record for a single address. Balance is the freely
// spendable amount; Reserved holds funds escrowed by governance ballots until
// the voter unstakes.
type Account struct {
	Nonce    uint64   `json:"nonce"`
	Balance  *big.Int `json:"balance"`
	Reserved *big.Int `json:"reserved"`
}

// Normalize replaces nil balance fields with zero so callers can do arithmetic
// without nil checks.
func (a *Account) Normalize() {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	if a.Reserved == nil {
		a.Reserved = big.NewInt(0)
	}
}
