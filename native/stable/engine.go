package stable

import (
	"strings"
	"sync"
	"time"

	"stablecore/crypto"
	nativecommon "stablecore/native/common"
)

const moduleName = "stable"

// Engine orchestrates the state transitions for the stablecoin core: the
// collateral registry, the mint/burn gating logic, liquidation, the peg
// stability module and the governance gate. Mutating operations serialise
// behind a single mutex: records are independently addressed, but the shared
// global record and the PSM accumulator must be read, checked and written
// within one isolated critical section.
type Engine struct {
	mu        sync.Mutex
	state     State
	oracle    PriceSource
	transfers TransferService
	vault     crypto.Address
	nowFn     func() time.Time
}

// NewEngine constructs an engine holding collateral reserves at the supplied
// vault principal.
func NewEngine(vault crypto.Address) *Engine {
	return &Engine{
		vault: vault,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state State) {
	if e == nil {
		return
	}
	e.state = state
}

// SetOracle wires the engine to the price source consulted for valuations.
func (e *Engine) SetOracle(oracle PriceSource) {
	if e == nil {
		return
	}
	e.oracle = oracle
}

// SetTransfers wires the engine to the token transfer backend.
func (e *Engine) SetTransfers(transfers TransferService) {
	if e == nil {
		return
	}
	e.transfers = transfers
}

// SetClock overrides the engine clock, primarily for deterministic testing.
func (e *Engine) SetClock(now func() time.Time) {
	if e == nil || now == nil {
		return
	}
	e.nowFn = now
}

// Vault returns the principal holding locked collateral.
func (e *Engine) Vault() crypto.Address {
	return e.vault
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.oracle == nil {
		return errNilOracle
	}
	if e.transfers == nil {
		return errNilTransfers
	}
	return nil
}

func (e *Engine) globalState() (*GlobalState, error) {
	gs, err := e.state.GlobalState()
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, ErrNotInitialized
	}
	return gs, nil
}

func (e *Engine) collateralConfig(symbol string) (*CollateralConfig, error) {
	cfg, err := e.state.CollateralConfig(strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrCollateralNotConfigured
	}
	return cfg, nil
}

// ensurePosition loads the caller's record for the collateral type, creating
// a zero-balance record on first use.
func (e *Engine) ensurePosition(owner crypto.Address, cfg *CollateralConfig) (*Position, error) {
	pos, err := e.state.Position(owner, cfg.Symbol)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		pos = &Position{Owner: owner, Collateral: cfg.Symbol}
	}
	return pos, nil
}

// collateralValueUSD converts a native-unit collateral amount into a USD
// value scaled by 1e6, using a 256-bit intermediate.
func collateralValueUSD(cfg *CollateralConfig, amount uint64, price uint64) (uint64, error) {
	scale, err := pow10(cfg.Decimals)
	if err != nil {
		return 0, err
	}
	return mulDiv(amount, price, scale)
}

// Deposit locks collateral into the vault and credits the caller's position.
// A pure increase: no solvency check is needed.
func (e *Engine) Deposit(caller crypto.Address, collateral string, amount uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return err
	}
	if err := nativecommon.Guard(gs, moduleName); err != nil {
		return err
	}
	cfg, err := e.collateralConfig(collateral)
	if err != nil {
		return err
	}
	pos, err := e.ensurePosition(caller, cfg)
	if err != nil {
		return err
	}
	if err := nativecommon.GuardFrozen(pos); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	newCollateral, err := checkedAdd(pos.CollateralAmount, amount)
	if err != nil {
		return err
	}
	if err := e.transfers.Transfer(caller, e.vault, cfg.Symbol, amount); err != nil {
		return err
	}

	pos.CollateralAmount = newCollateral
	pos.UpdatedAt = e.nowFn().Unix()
	return e.state.PutPosition(pos)
}

// Withdraw releases collateral back to the caller. Unconditional while the
// position carries no debt; otherwise the remaining collateral value must
// still cover the minimum collateral ratio.
func (e *Engine) Withdraw(caller crypto.Address, collateral string, amount uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return err
	}
	if err := nativecommon.Guard(gs, moduleName); err != nil {
		return err
	}
	cfg, err := e.collateralConfig(collateral)
	if err != nil {
		return err
	}
	pos, err := e.ensurePosition(caller, cfg)
	if err != nil {
		return err
	}
	if err := nativecommon.GuardFrozen(pos); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	newCollateral, err := checkedSub(pos.CollateralAmount, amount)
	if err != nil {
		return ErrInsufficientCollateral
	}

	if pos.DebtAmount > 0 {
		quote, err := e.oracle.Price(cfg.OracleRef)
		if err != nil {
			return err
		}
		value, err := collateralValueUSD(cfg, newCollateral, quote.PriceUSD)
		if err != nil {
			return err
		}
		if !positionSolvent(value, pos.DebtAmount, cfg.MCR) {
			return ErrBelowMCR
		}
	}

	if err := e.transfers.Transfer(e.vault, caller, cfg.Symbol, amount); err != nil {
		return err
	}

	pos.CollateralAmount = newCollateral
	pos.UpdatedAt = e.nowFn().Unix()
	return e.state.PutPosition(pos)
}

// Mint issues stable asset against the caller's collateral. The projected
// debt must stay covered by the minimum collateral ratio at the current
// oracle price, otherwise nothing mutates.
func (e *Engine) Mint(caller crypto.Address, collateral string, amount uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return err
	}
	if err := nativecommon.Guard(gs, moduleName); err != nil {
		return err
	}
	cfg, err := e.collateralConfig(collateral)
	if err != nil {
		return err
	}
	pos, err := e.ensurePosition(caller, cfg)
	if err != nil {
		return err
	}
	if err := nativecommon.GuardFrozen(pos); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	newDebt, err := checkedAdd(pos.DebtAmount, amount)
	if err != nil {
		return err
	}
	quote, err := e.oracle.Price(cfg.OracleRef)
	if err != nil {
		return err
	}
	value, err := collateralValueUSD(cfg, pos.CollateralAmount, quote.PriceUSD)
	if err != nil {
		return err
	}
	if !positionSolvent(value, newDebt, cfg.MCR) {
		return ErrBelowMCR
	}

	if err := e.transfers.Mint(caller, gs.StableSymbol, amount); err != nil {
		return err
	}

	pos.DebtAmount = newDebt
	pos.UpdatedAt = e.nowFn().Unix()
	return e.state.PutPosition(pos)
}

// Burn retires stable asset against the caller's debt. Burning more than the
// outstanding debt forgives the surplus: the excess value is not credited
// back and not tracked. That is deliberate repayment semantics, not an
// accounting slip.
func (e *Engine) Burn(caller crypto.Address, collateral string, amount uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return err
	}
	if err := nativecommon.Guard(gs, moduleName); err != nil {
		return err
	}
	cfg, err := e.collateralConfig(collateral)
	if err != nil {
		return err
	}
	pos, err := e.ensurePosition(caller, cfg)
	if err != nil {
		return err
	}
	if err := nativecommon.GuardFrozen(pos); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	if err := e.transfers.Burn(caller, gs.StableSymbol, amount); err != nil {
		return err
	}

	if amount > pos.DebtAmount {
		pos.DebtAmount = 0
	} else {
		pos.DebtAmount -= amount
	}
	pos.UpdatedAt = e.nowFn().Unix()
	return e.state.PutPosition(pos)
}

// GetPosition returns a copy of the stored position, or nil when the owner
// has never deposited this collateral type.
func (e *Engine) GetPosition(owner crypto.Address, collateral string) (*Position, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	pos, err := e.state.Position(owner, strings.ToUpper(strings.TrimSpace(collateral)))
	if err != nil {
		return nil, err
	}
	return pos.Clone(), nil
}

// GetCollateralConfig returns a copy of the registry entry for the symbol.
func (e *Engine) GetCollateralConfig(symbol string) (*CollateralConfig, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg, err := e.collateralConfig(symbol)
	if err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}

// GetGlobalState returns a copy of the singleton record.
func (e *Engine) GetGlobalState() (*GlobalState, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	gs, err := e.globalState()
	if err != nil {
		return nil, err
	}
	return gs.Clone(), nil
}
