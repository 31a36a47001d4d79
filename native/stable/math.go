package stable

import (
	"math"

	"github.com/holiman/uint256"
)

// maxDecimals bounds collateral token precision so 10^decimals stays within
// uint64 range.
const maxDecimals = 19

func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// mulDivWide computes floor(a*b/den) in 256-bit precision. den must be
// non-zero; callers validate their denominators (prices and scales are
// checked positive before valuation).
func mulDivWide(a, b, den uint64) *uint256.Int {
	x := new(uint256.Int).SetUint64(a)
	y := new(uint256.Int).SetUint64(b)
	x.Mul(x, y)
	return x.Div(x, new(uint256.Int).SetUint64(den))
}

// mulDiv is mulDivWide narrowed back to uint64, failing when the quotient is
// not representable.
func mulDiv(a, b, den uint64) (uint64, error) {
	out := mulDivWide(a, b, den)
	if !out.IsUint64() {
		return 0, ErrOverflow
	}
	return out.Uint64(), nil
}

func pow10(decimals uint8) (uint64, error) {
	if decimals > maxDecimals {
		return 0, ErrOverflow
	}
	out := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		out *= 10
	}
	return out, nil
}

// positionSolvent reports whether collateralValue covers the required value
// floor(debt*mcr/100). Comparison happens in 256-bit precision so the
// required value never truncates.
func positionSolvent(collateralValue, debt, mcr uint64) bool {
	if debt == 0 {
		return true
	}
	required := mulDivWide(debt, mcr, 100)
	return new(uint256.Int).SetUint64(collateralValue).Cmp(required) >= 0
}
