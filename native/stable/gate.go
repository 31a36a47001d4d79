package stable

import (
	"strings"

	"stablecore/crypto"
)

// Initialize creates the singleton global record: the governance principal
// and the stable asset symbol. A second call fails; the record is never
// destroyed.
func (e *Engine) Initialize(admin crypto.Address, stableSymbol string) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := e.state.GlobalState()
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyInitialized
	}
	symbol := strings.ToUpper(strings.TrimSpace(stableSymbol))
	if admin.IsZero() || symbol == "" {
		return ErrInvalidConfig
	}
	return e.state.PutGlobalState(&GlobalState{
		Admin:        admin,
		StableSymbol: symbol,
	})
}

func requireAdmin(gs *GlobalState, caller crypto.Address) error {
	if !caller.Equal(gs.Admin) {
		return ErrUnauthorized
	}
	return nil
}

// ConfigureCollateral registers or updates the risk parameters for one
// collateral type. Admin-only and idempotent; parameter values are not
// range-checked beyond representability, which is left to governance policy.
func (e *Engine) ConfigureCollateral(caller crypto.Address, cfg CollateralConfig) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return err
	}
	if err := requireAdmin(gs, caller); err != nil {
		return err
	}
	cfg.Symbol = strings.ToUpper(strings.TrimSpace(cfg.Symbol))
	cfg.OracleRef = strings.TrimSpace(cfg.OracleRef)
	if cfg.Symbol == "" || cfg.OracleRef == "" {
		return ErrInvalidConfig
	}
	if cfg.Decimals > maxDecimals {
		return ErrInvalidConfig
	}
	return e.state.PutCollateralConfig(&cfg)
}

// SetPaused flips the process-wide pause switch consulted as the first guard
// of every mutating operation. Deliberately not itself gated by the switch so
// governance can always unpause.
func (e *Engine) SetPaused(caller crypto.Address, paused bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return err
	}
	if err := requireAdmin(gs, caller); err != nil {
		return err
	}
	gs.Paused = paused
	return e.state.PutGlobalState(gs)
}

// SetFrozen flips the freeze flag on one owner's position, suspending that
// owner's deposit/withdraw/mint/burn without touching its eligibility for
// liquidation.
func (e *Engine) SetFrozen(caller, owner crypto.Address, collateral string, frozen bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return err
	}
	if err := requireAdmin(gs, caller); err != nil {
		return err
	}
	pos, err := e.state.Position(owner, strings.ToUpper(strings.TrimSpace(collateral)))
	if err != nil {
		return err
	}
	if pos == nil {
		return ErrPositionNotFound
	}
	pos.Frozen = frozen
	pos.UpdatedAt = e.nowFn().Unix()
	return e.state.PutPosition(pos)
}
