package storage

import (
	"sync"

	"stablecore/crypto"
	"stablecore/native/stable"
)

// Memory is an in-memory stable.State used by tests and the daemon's
// ephemeral mode. Records are cloned on the way in and out so callers never
// alias stored state.
type Memory struct {
	mu         sync.RWMutex
	global     *stable.GlobalState
	collateral map[string]*stable.CollateralConfig
	positions  map[string]*stable.Position
	psm        map[string]*stable.PsmConfig
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collateral: make(map[string]*stable.CollateralConfig),
		positions:  make(map[string]*stable.Position),
		psm:        make(map[string]*stable.PsmConfig),
	}
}

func positionKey(owner crypto.Address, collateral string) string {
	return owner.String() + "|" + collateral
}

func (m *Memory) GlobalState() (*stable.GlobalState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.global.Clone(), nil
}

func (m *Memory) PutGlobalState(gs *stable.GlobalState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.global = gs.Clone()
	return nil
}

func (m *Memory) CollateralConfig(symbol string) (*stable.CollateralConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collateral[symbol].Clone(), nil
}

func (m *Memory) PutCollateralConfig(cfg *stable.CollateralConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collateral[cfg.Symbol] = cfg.Clone()
	return nil
}

func (m *Memory) Position(owner crypto.Address, collateral string) (*stable.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.positions[positionKey(owner, collateral)].Clone(), nil
}

func (m *Memory) PutPosition(pos *stable.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[positionKey(pos.Owner, pos.Collateral)] = pos.Clone()
	return nil
}

func (m *Memory) PsmConfig(symbol string) (*stable.PsmConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.psm[symbol].Clone(), nil
}

func (m *Memory) PutPsmConfig(cfg *stable.PsmConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.psm[cfg.ReferenceSymbol] = cfg.Clone()
	return nil
}
