package stable

import (
	"github.com/holiman/uint256"

	"stablecore/crypto"
	nativecommon "stablecore/native/common"
)

// Liquidate lets a third party repay part of an undercollateralised
// position's debt in exchange for a penalty-adjusted share of its collateral.
// Liquidation is gated by the pause switch only: freezing suspends the
// owner's own actions, so a frozen bad position can still be rescued.
//
// The repay amount is clamped to the outstanding debt. When the
// penalty-adjusted seize target exceeds the remaining collateral, the
// liquidator receives everything left and the shortfall becomes unrecovered
// bad debt; the debt is still reduced by the full repay. There is no
// bad-debt socialisation mechanism in this core.
func (e *Engine) Liquidate(liquidator, owner crypto.Address, collateral string, amountToRepay uint64) (repaid, seized uint64, err error) {
	if err := e.ready(); err != nil {
		return 0, 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	gs, err := e.globalState()
	if err != nil {
		return 0, 0, err
	}
	if err := nativecommon.Guard(gs, moduleName); err != nil {
		return 0, 0, err
	}
	if amountToRepay == 0 {
		return 0, 0, ErrInvalidAmount
	}
	cfg, err := e.collateralConfig(collateral)
	if err != nil {
		return 0, 0, err
	}
	pos, err := e.ensurePosition(owner, cfg)
	if err != nil {
		return 0, 0, err
	}

	quote, err := e.oracle.Price(cfg.OracleRef)
	if err != nil {
		return 0, 0, err
	}
	value, err := collateralValueUSD(cfg, pos.CollateralAmount, quote.PriceUSD)
	if err != nil {
		return 0, 0, err
	}
	if positionSolvent(value, pos.DebtAmount, cfg.MCR) {
		return 0, 0, ErrPositionSafe
	}

	repay := amountToRepay
	if repay > pos.DebtAmount {
		repay = pos.DebtAmount
	}

	if err := e.transfers.Burn(liquidator, gs.StableSymbol, repay); err != nil {
		return 0, 0, err
	}

	seizeAmount, err := seizeTarget(cfg, repay, quote.PriceUSD)
	if err != nil {
		return 0, 0, err
	}
	actualSeize := seizeAmount
	if actualSeize > pos.CollateralAmount {
		actualSeize = pos.CollateralAmount
	}

	if err := e.transfers.Transfer(e.vault, liquidator, cfg.Symbol, actualSeize); err != nil {
		return 0, 0, err
	}

	pos.DebtAmount -= repay
	pos.CollateralAmount -= actualSeize
	pos.UpdatedAt = e.nowFn().Unix()
	if err := e.state.PutPosition(pos); err != nil {
		return 0, 0, err
	}
	return repay, actualSeize, nil
}

// seizeTarget converts the repaid stable value into collateral units with the
// liquidation penalty applied: floor(repay*(100+penalty)/100) in USD, then
// floor(value*10^decimals/price) in native units. Both steps run in 256-bit
// precision; the final narrowing is capped by the caller at the position's
// collateral, so a wide target is only an error when even the cap cannot
// apply.
func seizeTarget(cfg *CollateralConfig, repay uint64, price uint64) (uint64, error) {
	if price == 0 {
		return 0, ErrOracleInvalid
	}
	scale, err := pow10(cfg.Decimals)
	if err != nil {
		return 0, err
	}
	penaltyFactor, err := checkedAdd(100, cfg.LiquidationPenalty)
	if err != nil {
		return 0, err
	}
	seizeValue := mulDivWide(repay, penaltyFactor, 100)
	target := new(uint256.Int).Mul(seizeValue, new(uint256.Int).SetUint64(scale))
	target.Div(target, new(uint256.Int).SetUint64(price))
	if !target.IsUint64() {
		// Beyond uint64 the target always exceeds any position's collateral,
		// so the seize is the full remaining balance.
		return maxUint64, nil
	}
	return target.Uint64(), nil
}

const maxUint64 = ^uint64(0)
