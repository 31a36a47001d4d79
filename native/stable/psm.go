package stable

import (
	"strings"

	"stablecore/crypto"
	nativecommon "stablecore/native/common"
)

// ConfigurePSM creates the reserve-backed swap pool for one reference asset.
// Admin-only, create-once: reconfiguration would let governance rewrite the
// minted accumulator, so it is rejected outright.
func (e *Engine) ConfigurePSM(caller crypto.Address, referenceSymbol string, vault crypto.Address, feeBasisPoints uint64) error {
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
	symbol := strings.ToUpper(strings.TrimSpace(referenceSymbol))
	if symbol == "" || vault.IsZero() {
		return ErrInvalidConfig
	}
	existing, err := e.state.PsmConfig(symbol)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPsmExists
	}
	return e.state.PutPsmConfig(&PsmConfig{
		ReferenceSymbol: symbol,
		Vault:           vault,
		FeeBasisPoints:  feeBasisPoints,
	})
}

func (e *Engine) psmConfig(symbol string) (*PsmConfig, error) {
	cfg, err := e.state.PsmConfig(strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrPsmNotConfigured
	}
	return cfg, nil
}

// SwapToStable receives reference asset into the PSM vault and mints stable
// asset to the caller at parity. FeeBasisPoints is stored but not applied;
// the fee mechanism is unimplemented pending product direction.
func (e *Engine) SwapToStable(caller crypto.Address, referenceSymbol string, amount uint64) error {
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
	if amount == 0 {
		return ErrInvalidAmount
	}
	cfg, err := e.psmConfig(referenceSymbol)
	if err != nil {
		return err
	}
	newTotal, err := checkedAdd(cfg.TotalMinted, amount)
	if err != nil {
		return err
	}

	if err := e.transfers.Transfer(caller, cfg.Vault, cfg.ReferenceSymbol, amount); err != nil {
		return err
	}
	if err := e.transfers.Mint(caller, gs.StableSymbol, amount); err != nil {
		return err
	}

	cfg.TotalMinted = newTotal
	return e.state.PutPsmConfig(cfg)
}

// SwapFromStable burns stable asset from the caller and pays out reference
// asset from the PSM vault at parity. The whole operation aborts when the
// vault reserve cannot cover the payout or when the minted accumulator would
// underflow.
func (e *Engine) SwapFromStable(caller crypto.Address, referenceSymbol string, amount uint64) error {
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
	if amount == 0 {
		return ErrInvalidAmount
	}
	cfg, err := e.psmConfig(referenceSymbol)
	if err != nil {
		return err
	}
	newTotal, err := checkedSub(cfg.TotalMinted, amount)
	if err != nil {
		return err
	}
	// Reserve check up front so the burn never lands without its payout.
	reserve, err := e.transfers.Balance(cfg.Vault, cfg.ReferenceSymbol)
	if err != nil {
		return err
	}
	if reserve < amount {
		return ErrInsufficientReserve
	}

	if err := e.transfers.Burn(caller, gs.StableSymbol, amount); err != nil {
		return err
	}
	if err := e.transfers.Transfer(cfg.Vault, caller, cfg.ReferenceSymbol, amount); err != nil {
		return err
	}

	cfg.TotalMinted = newTotal
	return e.state.PutPsmConfig(cfg)
}

// GetPsmConfig returns a copy of the pool record for the reference asset.
func (e *Engine) GetPsmConfig(referenceSymbol string) (*PsmConfig, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg, err := e.psmConfig(referenceSymbol)
	if err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}
