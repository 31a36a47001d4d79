package bank

import (
	"errors"
	"math"
	"strings"
	"sync"

	"stablecore/crypto"
)

var (
	// ErrInsufficientFunds is returned when a transfer or burn exceeds the
	// holder's balance.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
	// ErrBalanceOverflow is returned when a credit would wrap a balance or
	// the asset supply.
	ErrBalanceOverflow = errors.New("bank: balance overflow")
	// ErrInvalidAsset is returned for empty asset symbols.
	ErrInvalidAsset = errors.New("bank: asset symbol required")
)

// Ledger is an in-memory multi-asset balance book. It backs the stable
// engine's transfer capability in the daemon and in tests; each method is a
// single atomic settlement.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]uint64
	supply   map[string]uint64
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[string]uint64),
		supply:   make(map[string]uint64),
	}
}

func balanceKey(addr crypto.Address, asset string) string {
	return addr.String() + "|" + asset
}

func normaliseAsset(asset string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(asset))
	if trimmed == "" {
		return "", ErrInvalidAsset
	}
	return trimmed, nil
}

// Transfer moves amount of asset between holders. Fails without effect when
// the sender's balance is short.
func (l *Ledger) Transfer(from, to crypto.Address, asset string, amount uint64) error {
	sym, err := normaliseAsset(asset)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fromKey := balanceKey(from, sym)
	toKey := balanceKey(to, sym)
	if l.balances[fromKey] < amount {
		return ErrInsufficientFunds
	}
	if l.balances[toKey] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	l.balances[fromKey] -= amount
	l.balances[toKey] += amount
	return nil
}

// Mint credits freshly issued asset to the holder and grows the supply.
func (l *Ledger) Mint(to crypto.Address, asset string, amount uint64) error {
	sym, err := normaliseAsset(asset)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	toKey := balanceKey(to, sym)
	if l.balances[toKey] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	if l.supply[sym] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	l.balances[toKey] += amount
	l.supply[sym] += amount
	return nil
}

// Burn retires asset from the holder and shrinks the supply.
func (l *Ledger) Burn(from crypto.Address, asset string, amount uint64) error {
	sym, err := normaliseAsset(asset)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fromKey := balanceKey(from, sym)
	if l.balances[fromKey] < amount {
		return ErrInsufficientFunds
	}
	if l.supply[sym] < amount {
		return ErrInsufficientFunds
	}
	l.balances[fromKey] -= amount
	l.supply[sym] -= amount
	return nil
}

// Balance reports the holder's balance for the asset.
func (l *Ledger) Balance(addr crypto.Address, asset string) (uint64, error) {
	sym, err := normaliseAsset(asset)
	if err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[balanceKey(addr, sym)], nil
}

// Supply reports the outstanding minted amount for the asset.
func (l *Ledger) Supply(asset string) (uint64, error) {
	sym, err := normaliseAsset(asset)
	if err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply[sym], nil
}

// SetBalance seeds a holder's balance directly. Genesis and test helper; the
// asset supply grows by the delta so Burn stays consistent.
func (l *Ledger) SetBalance(addr crypto.Address, asset string, amount uint64) error {
	sym, err := normaliseAsset(asset)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey(addr, sym)
	prev := l.balances[key]
	if amount >= prev {
		delta := amount - prev
		if l.supply[sym] > math.MaxUint64-delta {
			return ErrBalanceOverflow
		}
		l.supply[sym] += delta
	} else {
		l.supply[sym] -= prev - amount
	}
	l.balances[key] = amount
	return nil
}
