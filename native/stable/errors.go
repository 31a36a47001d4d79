package stable

import "errors"

var (
	errNilState     = errors.New("stable engine: state not configured")
	errNilOracle    = errors.New("stable engine: oracle not configured")
	errNilTransfers = errors.New("stable engine: transfer service not configured")

	// ErrNotInitialized is returned when an operation runs before Initialize.
	ErrNotInitialized = errors.New("stable engine: global state not initialised")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("stable engine: global state already initialised")
	// ErrInvalidConfig rejects governance records missing required fields.
	ErrInvalidConfig = errors.New("stable engine: invalid configuration")
	// ErrUnauthorized is returned when the caller is not the required principal.
	ErrUnauthorized = errors.New("stable engine: caller not authorised")
	// ErrInvalidAmount rejects zero amounts on every operation.
	ErrInvalidAmount = errors.New("stable engine: amount must be positive")
	// ErrCollateralNotConfigured is returned for unknown collateral types.
	ErrCollateralNotConfigured = errors.New("stable engine: collateral not configured")
	// ErrPositionNotFound is returned when an operation targets a position
	// that has never been created.
	ErrPositionNotFound = errors.New("stable engine: position not found")
	// ErrBelowMCR rejects mints and withdrawals that would leave collateral
	// value under the minimum ratio.
	ErrBelowMCR = errors.New("stable engine: collateral value below minimum ratio")
	// ErrPositionSafe rejects liquidation of an adequately collateralised
	// position.
	ErrPositionSafe = errors.New("stable engine: position is safe")
	// ErrInsufficientCollateral rejects withdrawals exceeding the balance.
	ErrInsufficientCollateral = errors.New("stable engine: insufficient collateral")
	// ErrOverflow reports a checked arithmetic overflow.
	ErrOverflow = errors.New("stable engine: arithmetic overflow")
	// ErrUnderflow reports a checked arithmetic underflow.
	ErrUnderflow = errors.New("stable engine: arithmetic underflow")
	// ErrInsufficientReserve rejects PSM redemptions exceeding the vault's
	// reference-asset balance.
	ErrInsufficientReserve = errors.New("stable engine: insufficient psm reserve")
	// ErrPsmNotConfigured is returned for swaps against an unknown reference
	// asset.
	ErrPsmNotConfigured = errors.New("stable engine: psm not configured")
	// ErrPsmExists rejects reconfiguring an existing PSM pool.
	ErrPsmExists = errors.New("stable engine: psm already configured")
)
