package bank

import (
	"errors"
	"fmt"
	"math/big"

	"ibochain/core/types"
)

var (
	// ErrInsufficientFunds is returned when the free balance cannot cover
	// the requested amount.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
	// ErrNoAccount is returned when a credit targets an address with no
	// account record.
	ErrNoAccount = errors.New("bank: account does not exist")
	// ErrSupplyCapExceeded is returned when a credit would push total
	// issuance beyond the configured ceiling.
	ErrSupplyCapExceeded = errors.New("bank: total issuance cap exceeded")
	// ErrNegativeAmount rejects negative amounts on any gateway operation.
	ErrNegativeAmount = errors.New("bank: amount must not be negative")
)

// Ledger is the slice of state the gateway operates on. The state manager and
// test doubles both satisfy it.
type Ledger interface {
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
	TotalIssuance() (*big.Int, error)
	SetTotalIssuance(amount *big.Int) error
}

// Gateway is the thin contract over the economic primitive consumed by the
// governance engine: escrow, slashing, and cap-checked minting.
type Gateway struct {
	ledger    Ledger
	maxSupply *big.Int
}

// NewGateway wires the gateway to a ledger and the issuance ceiling.
func NewGateway(ledger Ledger, maxSupply *big.Int) *Gateway {
	ceiling := big.NewInt(0)
	if maxSupply != nil {
		ceiling = new(big.Int).Set(maxSupply)
	}
	return &Gateway{ledger: ledger, maxSupply: ceiling}
}

func normalizeAmount(amount *big.Int) (*big.Int, error) {
	if amount == nil {
		return big.NewInt(0), nil
	}
	if amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	return new(big.Int).Set(amount), nil
}

func (g *Gateway) account(addr []byte) (*types.Account, error) {
	account, err := g.ledger.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &types.Account{}
	}
	account.Normalize()
	return account, nil
}

// Reserve moves amount from the free balance into the reserved bucket.
func (g *Gateway) Reserve(addr []byte, amount *big.Int) error {
	value, err := normalizeAmount(amount)
	if err != nil {
		return err
	}
	account, err := g.account(addr)
	if err != nil {
		return err
	}
	if account.Balance.Cmp(value) < 0 {
		return ErrInsufficientFunds
	}
	account.Balance = new(big.Int).Sub(account.Balance, value)
	account.Reserved = new(big.Int).Add(account.Reserved, value)
	return g.ledger.PutAccount(addr, account)
}

// Unreserve releases a previously reserved amount back to the free balance.
// Releasing more than is reserved clamps to the reserved balance.
func (g *Gateway) Unreserve(addr []byte, amount *big.Int) error {
	value, err := normalizeAmount(amount)
	if err != nil {
		return err
	}
	account, err := g.account(addr)
	if err != nil {
		return err
	}
	if account.Reserved.Cmp(value) < 0 {
		value = new(big.Int).Set(account.Reserved)
	}
	account.Reserved = new(big.Int).Sub(account.Reserved, value)
	account.Balance = new(big.Int).Add(account.Balance, value)
	return g.ledger.PutAccount(addr, account)
}

// Slash burns amount from the account's free balance. The deduction is not
// capped by the reserved bucket; a free balance smaller than amount is
// reduced to zero.
func (g *Gateway) Slash(addr []byte, amount *big.Int) error {
	value, err := normalizeAmount(amount)
	if err != nil {
		return err
	}
	account, err := g.account(addr)
	if err != nil {
		return err
	}
	if account.Balance.Cmp(value) < 0 {
		value = new(big.Int).Set(account.Balance)
	}
	account.Balance = new(big.Int).Sub(account.Balance, value)
	return g.ledger.PutAccount(addr, account)
}

// Burn reduces total issuance without touching a specific account.
func (g *Gateway) Burn(amount *big.Int) error {
	value, err := normalizeAmount(amount)
	if err != nil {
		return err
	}
	total, err := g.ledger.TotalIssuance()
	if err != nil {
		return err
	}
	updated := new(big.Int).Sub(total, value)
	if updated.Sign() < 0 {
		return fmt.Errorf("bank: issuance underflow burning %s", value.String())
	}
	return g.ledger.SetTotalIssuance(updated)
}

// TotalIssuance reports the currently issued supply.
func (g *Gateway) TotalIssuance() (*big.Int, error) {
	return g.ledger.TotalIssuance()
}

// MaxSupply returns the configured issuance ceiling.
func (g *Gateway) MaxSupply() *big.Int {
	return new(big.Int).Set(g.maxSupply)
}

// DepositIntoExisting credits an existing account and increments total
// issuance. The credit is refused when the target account is missing or when
// it would push issuance beyond the ceiling.
func (g *Gateway) DepositIntoExisting(addr []byte, amount *big.Int) error {
	value, err := normalizeAmount(amount)
	if err != nil {
		return err
	}
	account, err := g.ledger.GetAccount(addr)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNoAccount
	}
	account.Normalize()
	total, err := g.ledger.TotalIssuance()
	if err != nil {
		return err
	}
	updated := new(big.Int).Add(total, value)
	if updated.Cmp(g.maxSupply) > 0 {
		return ErrSupplyCapExceeded
	}
	account.Balance = new(big.Int).Add(account.Balance, value)
	if err := g.ledger.PutAccount(addr, account); err != nil {
		return err
	}
	return g.ledger.SetTotalIssuance(updated)
}
