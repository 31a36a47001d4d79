package stable

import (
	"testing"
	"time"

	"stablecore/crypto"
	"stablecore/native/bank"
)

const (
	testStableSymbol = "USDH"
	testCollateral   = "SOL"
	testOracleRef    = "oracle:SOL"
)

var testBase = time.Unix(1_700_000_000, 0).UTC()

func testAddress(seed byte) crypto.Address {
	buf := make([]byte, 20)
	for i := range buf {
		buf[i] = seed
	}
	return crypto.NewAddress(crypto.AccountPrefix, buf)
}

// memoryState is a bare map-backed State for engine tests. It hands out the
// stored pointers directly, so tests observe exactly what the engine wrote.
type memoryState struct {
	global     *GlobalState
	collateral map[string]*CollateralConfig
	positions  map[string]*Position
	psm        map[string]*PsmConfig
}

func newMemoryState() *memoryState {
	return &memoryState{
		collateral: make(map[string]*CollateralConfig),
		positions:  make(map[string]*Position),
		psm:        make(map[string]*PsmConfig),
	}
}

func (m *memoryState) GlobalState() (*GlobalState, error) { return m.global, nil }

func (m *memoryState) PutGlobalState(gs *GlobalState) error {
	m.global = gs
	return nil
}

func (m *memoryState) CollateralConfig(symbol string) (*CollateralConfig, error) {
	return m.collateral[symbol], nil
}

func (m *memoryState) PutCollateralConfig(cfg *CollateralConfig) error {
	m.collateral[cfg.Symbol] = cfg
	return nil
}

func (m *memoryState) Position(owner crypto.Address, collateral string) (*Position, error) {
	return m.positions[owner.String()+"|"+collateral], nil
}

func (m *memoryState) PutPosition(pos *Position) error {
	m.positions[pos.Owner.String()+"|"+pos.Collateral] = pos
	return nil
}

func (m *memoryState) PsmConfig(symbol string) (*PsmConfig, error) {
	return m.psm[symbol], nil
}

func (m *memoryState) PutPsmConfig(cfg *PsmConfig) error {
	m.psm[cfg.ReferenceSymbol] = cfg
	return nil
}

type testEnv struct {
	engine *Engine
	state  *memoryState
	ledger *bank.Ledger
	feed   *Feed
	admin  crypto.Address
	vault  crypto.Address
}

// newTestEnv wires an initialised engine with one configured collateral type:
// SOL at 9 decimals, 150% minimum ratio, 10% liquidation penalty, quoted at
// $150 on a fixed clock.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	state := newMemoryState()
	ledger := bank.NewLedger()
	feed := NewFeed()
	feed.SetClock(func() time.Time { return testBase })
	feed.Publish(testOracleRef, 150_000_000, testBase)

	admin := testAddress(0xAD)
	vault := crypto.NewAddress(crypto.ModulePrefix, append(make([]byte, 14), []byte("stable")...))

	engine := NewEngine(vault)
	engine.SetState(state)
	engine.SetOracle(feed)
	engine.SetTransfers(ledger)
	engine.SetClock(func() time.Time { return testBase })

	if err := engine.Initialize(admin, testStableSymbol); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := engine.ConfigureCollateral(admin, CollateralConfig{
		Symbol:             testCollateral,
		OracleRef:          testOracleRef,
		Decimals:           9,
		MCR:                150,
		LTR:                120,
		LiquidationPenalty: 10,
	}); err != nil {
		t.Fatalf("configure collateral: %v", err)
	}

	return &testEnv{engine: engine, state: state, ledger: ledger, feed: feed, admin: admin, vault: vault}
}

func (env *testEnv) fund(t *testing.T, addr crypto.Address, asset string, amount uint64) {
	t.Helper()
	if err := env.ledger.SetBalance(addr, asset, amount); err != nil {
		t.Fatalf("fund %s with %d %s: %v", addr.String(), amount, asset, err)
	}
}

func (env *testEnv) balance(t *testing.T, addr crypto.Address, asset string) uint64 {
	t.Helper()
	bal, err := env.ledger.Balance(addr, asset)
	if err != nil {
		t.Fatalf("balance %s %s: %v", addr.String(), asset, err)
	}
	return bal
}

func (env *testEnv) position(t *testing.T, owner crypto.Address) *Position {
	t.Helper()
	pos, err := env.state.Position(owner, testCollateral)
	if err != nil {
		t.Fatalf("load position: %v", err)
	}
	return pos
}

// openPosition deposits collateral and mints debt for the owner, funding the
// deposit from thin air.
func (env *testEnv) openPosition(t *testing.T, owner crypto.Address, collateralAmount, debtAmount uint64) {
	t.Helper()
	env.fund(t, owner, testCollateral, collateralAmount)
	if err := env.engine.Deposit(owner, testCollateral, collateralAmount); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if debtAmount > 0 {
		if err := env.engine.Mint(owner, testCollateral, debtAmount); err != nil {
			t.Fatalf("mint: %v", err)
		}
	}
}
