package bank

import (
	"errors"
	"math/big"
	"testing"

	"ibochain/core/types"
)

type memLedger struct {
	accounts map[string]*types.Account
	total    *big.Int
}

func newMemLedger() *memLedger {
	return &memLedger{accounts: make(map[string]*types.Account), total: big.NewInt(0)}
}

func (l *memLedger) GetAccount(addr []byte) (*types.Account, error) {
	account, ok := l.accounts[string(addr)]
	if !ok {
		return nil, nil
	}
	clone := &types.Account{Nonce: account.Nonce}
	clone.Balance = new(big.Int).Set(account.Balance)
	clone.Reserved = new(big.Int).Set(account.Reserved)
	return clone, nil
}

func (l *memLedger) PutAccount(addr []byte, account *types.Account) error {
	account.Normalize()
	l.accounts[string(addr)] = account
	return nil
}

func (l *memLedger) TotalIssuance() (*big.Int, error) {
	return new(big.Int).Set(l.total), nil
}

func (l *memLedger) SetTotalIssuance(amount *big.Int) error {
	l.total = new(big.Int).Set(amount)
	return nil
}

func (l *memLedger) seed(addr string, balance int64) {
	l.accounts[addr] = &types.Account{Balance: big.NewInt(balance), Reserved: big.NewInt(0)}
}

func TestReserveAndUnreserve(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed("alice", 1_000)
	gateway := NewGateway(ledger, big.NewInt(1_000_000))

	if err := gateway.Reserve([]byte("alice"), big.NewInt(400)); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	account, _ := ledger.GetAccount([]byte("alice"))
	if account.Balance.Int64() != 600 || account.Reserved.Int64() != 400 {
		t.Fatalf("unexpected balances: %s/%s", account.Balance, account.Reserved)
	}

	if err := gateway.Reserve([]byte("alice"), big.NewInt(601)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if err := gateway.Unreserve([]byte("alice"), big.NewInt(400)); err != nil {
		t.Fatalf("unreserve: %v", err)
	}
	account, _ = ledger.GetAccount([]byte("alice"))
	if account.Balance.Int64() != 1_000 || account.Reserved.Sign() != 0 {
		t.Fatalf("escrow not released: %s/%s", account.Balance, account.Reserved)
	}
}

func TestReserveFromMissingAccountFails(t *testing.T) {
	gateway := NewGateway(newMemLedger(), big.NewInt(1_000_000))
	if err := gateway.Reserve([]byte("ghost"), big.NewInt(1)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestSlashAndBurn(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed("alice", 500)
	ledger.total = big.NewInt(10_000)
	gateway := NewGateway(ledger, big.NewInt(1_000_000))

	if err := gateway.Slash([]byte("alice"), big.NewInt(200)); err != nil {
		t.Fatalf("slash: %v", err)
	}
	account, _ := ledger.GetAccount([]byte("alice"))
	if account.Balance.Int64() != 300 {
		t.Fatalf("expected balance 300, got %s", account.Balance)
	}

	if err := gateway.Burn(big.NewInt(200)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	total, _ := gateway.TotalIssuance()
	if total.Int64() != 9_800 {
		t.Fatalf("expected issuance 9800, got %s", total)
	}

	if err := gateway.Burn(big.NewInt(10_000)); err == nil {
		t.Fatalf("burning past zero must fail")
	}
}

func TestDepositIntoExisting(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed("alice", 100)
	ledger.total = big.NewInt(900)
	gateway := NewGateway(ledger, big.NewInt(1_000))

	if err := gateway.DepositIntoExisting([]byte("ghost"), big.NewInt(1)); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("expected ErrNoAccount, got %v", err)
	}
	if err := gateway.DepositIntoExisting([]byte("alice"), big.NewInt(101)); !errors.Is(err, ErrSupplyCapExceeded) {
		t.Fatalf("expected ErrSupplyCapExceeded, got %v", err)
	}
	if err := gateway.DepositIntoExisting([]byte("alice"), big.NewInt(100)); err != nil {
		t.Fatalf("deposit at the cap boundary: %v", err)
	}
	account, _ := ledger.GetAccount([]byte("alice"))
	if account.Balance.Int64() != 200 {
		t.Fatalf("expected balance 200, got %s", account.Balance)
	}
	total, _ := gateway.TotalIssuance()
	if total.Int64() != 1_000 {
		t.Fatalf("expected issuance 1000, got %s", total)
	}
}

func TestNegativeAmountsRejected(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed("alice", 100)
	gateway := NewGateway(ledger, big.NewInt(1_000))
	if err := gateway.Reserve([]byte("alice"), big.NewInt(-1)); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}
