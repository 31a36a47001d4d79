package stable

import (
	"errors"
	"testing"

	"stablecore/crypto"
)

func TestInitializeOnce(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.Initialize(env.admin, "OTHER"); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	gs, err := env.engine.GetGlobalState()
	if err != nil {
		t.Fatalf("get global state: %v", err)
	}
	if gs.StableSymbol != testStableSymbol {
		t.Fatalf("second initialize rewrote the symbol: %s", gs.StableSymbol)
	}
}

func TestInitializeValidation(t *testing.T) {
	state := newMemoryState()
	engine := NewEngine(testAddress(0xFE))
	engine.SetState(state)

	if err := engine.Initialize(crypto.Address{}, testStableSymbol); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("zero admin: expected ErrInvalidConfig, got %v", err)
	}
	if err := engine.Initialize(testAddress(0x40), "  "); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("blank symbol: expected ErrInvalidConfig, got %v", err)
	}
	if state.global != nil {
		t.Fatalf("rejected initialize wrote state: %+v", state.global)
	}
}

func TestInitializeNormalisesSymbol(t *testing.T) {
	state := newMemoryState()
	engine := NewEngine(testAddress(0xFE))
	engine.SetState(state)

	if err := engine.Initialize(testAddress(0x41), "  usdh "); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if state.global.StableSymbol != "USDH" {
		t.Fatalf("symbol = %q, want USDH", state.global.StableSymbol)
	}
}

func TestConfigureCollateralAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.ConfigureCollateral(testAddress(0x42), CollateralConfig{
		Symbol: "ETH", OracleRef: "oracle:ETH", Decimals: 18, MCR: 150,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestConfigureCollateralUpdatesExisting(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.ConfigureCollateral(env.admin, CollateralConfig{
		Symbol:             testCollateral,
		OracleRef:          testOracleRef,
		Decimals:           9,
		MCR:                200,
		LTR:                150,
		LiquidationPenalty: 15,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	cfg, err := env.engine.GetCollateralConfig(testCollateral)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.MCR != 200 || cfg.LiquidationPenalty != 15 {
		t.Fatalf("update not applied: %+v", cfg)
	}
}

func TestConfigureCollateralValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]CollateralConfig{
		"blank symbol":  {Symbol: " ", OracleRef: "oracle:X", Decimals: 9, MCR: 150},
		"blank oracle":  {Symbol: "X", OracleRef: "  ", Decimals: 9, MCR: 150},
		"wide decimals": {Symbol: "X", OracleRef: "oracle:X", Decimals: 20, MCR: 150},
	}
	for name, cfg := range cases {
		if err := env.engine.ConfigureCollateral(env.admin, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestConfigureCollateralNormalisesSymbol(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.ConfigureCollateral(env.admin, CollateralConfig{
		Symbol: " eth ", OracleRef: "oracle:ETH", Decimals: 18, MCR: 150,
	}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	cfg, err := env.engine.GetCollateralConfig("eth")
	if err != nil {
		t.Fatalf("lookup by lowercase symbol: %v", err)
	}
	if cfg.Symbol != "ETH" {
		t.Fatalf("symbol = %q, want ETH", cfg.Symbol)
	}
}

func TestSetPausedAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.SetPaused(testAddress(0x43), true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSetPausedWorksWhilePaused(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.SetPaused(env.admin, true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	// Governance must always be able to unpause.
	if err := env.engine.SetPaused(env.admin, false); err != nil {
		t.Fatalf("unpause while paused: %v", err)
	}
	gs, err := env.engine.GetGlobalState()
	if err != nil {
		t.Fatalf("get global state: %v", err)
	}
	if gs.Paused {
		t.Fatalf("still paused after unpause")
	}
}

func TestSetFrozenAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	user := testAddress(0x44)
	env.openPosition(t, user, 1_000_000_000, 0)

	if err := env.engine.SetFrozen(testAddress(0x45), user, testCollateral, true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSetFrozenMissingPosition(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.SetFrozen(env.admin, testAddress(0x46), testCollateral, true); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestLiquidationThresholdRatioInert(t *testing.T) {
	env := newTestEnv(t)
	owner := testAddress(0x47)
	liquidator := testAddress(0x48)

	// Push the configured threshold ratio far above the minimum ratio. The
	// liquidation check still keys off the minimum ratio, so a position at
	// the bar stays safe regardless.
	if err := env.engine.ConfigureCollateral(env.admin, CollateralConfig{
		Symbol:             testCollateral,
		OracleRef:          testOracleRef,
		Decimals:           9,
		MCR:                150,
		LTR:                10_000,
		LiquidationPenalty: 10,
	}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	env.openPosition(t, owner, 1_000_000_000, 100_000_000)
	env.fund(t, liquidator, testStableSymbol, 100_000_000)

	if _, _, err := env.engine.Liquidate(liquidator, owner, testCollateral, 10_000_000); !errors.Is(err, ErrPositionSafe) {
		t.Fatalf("expected ErrPositionSafe, got %v", err)
	}
}
