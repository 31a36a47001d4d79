package bank

import (
	"errors"
	"math"
	"testing"

	"stablecore/crypto"
)

func makeAddress(fill byte) crypto.Address {
	b := make([]byte, 20)
	for i := range b {
		b[i] = fill
	}
	return crypto.NewAddress(crypto.AccountPrefix, b)
}

func TestTransferMovesBalance(t *testing.T) {
	ledger := NewLedger()
	alice := makeAddress(0x01)
	bob := makeAddress(0x02)

	if err := ledger.SetBalance(alice, "USDC", 1_000); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ledger.Transfer(alice, bob, "USDC", 400); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	aliceBal, _ := ledger.Balance(alice, "USDC")
	bobBal, _ := ledger.Balance(bob, "USDC")
	if aliceBal != 600 || bobBal != 400 {
		t.Fatalf("unexpected balances: alice=%d bob=%d", aliceBal, bobBal)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	ledger := NewLedger()
	alice := makeAddress(0x03)
	bob := makeAddress(0x04)

	if err := ledger.Transfer(alice, bob, "USDC", 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if bal, _ := ledger.Balance(bob, "USDC"); bal != 0 {
		t.Fatalf("expected zero balance after failed transfer, got %d", bal)
	}
}

func TestMintBurnAdjustSupply(t *testing.T) {
	ledger := NewLedger()
	alice := makeAddress(0x05)

	if err := ledger.Mint(alice, "usdt", 500); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if supply, _ := ledger.Supply("USDT"); supply != 500 {
		t.Fatalf("unexpected supply: %d", supply)
	}
	if err := ledger.Burn(alice, "USDT", 200); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if supply, _ := ledger.Supply("USDT"); supply != 300 {
		t.Fatalf("unexpected supply after burn: %d", supply)
	}
	if bal, _ := ledger.Balance(alice, "USDT"); bal != 300 {
		t.Fatalf("unexpected balance after burn: %d", bal)
	}
}

func TestBurnBeyondBalance(t *testing.T) {
	ledger := NewLedger()
	alice := makeAddress(0x06)
	if err := ledger.Mint(alice, "USDT", 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Burn(alice, "USDT", 101); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestMintOverflow(t *testing.T) {
	ledger := NewLedger()
	alice := makeAddress(0x07)
	if err := ledger.Mint(alice, "USDT", math.MaxUint64); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Mint(alice, "USDT", 1); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
}

func TestEmptyAssetRejected(t *testing.T) {
	ledger := NewLedger()
	alice := makeAddress(0x08)
	if err := ledger.Mint(alice, "  ", 1); !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset, got %v", err)
	}
}
