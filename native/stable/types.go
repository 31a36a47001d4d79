package stable

import (
	"stablecore/crypto"
)

// GlobalState holds the singleton protocol record: the governance principal,
// the stable asset it administers and the process-wide pause switch. Created
// once by Initialize and mutated only through governance operations.
type GlobalState struct {
	Admin        crypto.Address `json:"admin"`
	StableSymbol string         `json:"stableSymbol"`
	Paused       bool           `json:"paused"`
}

// IsPaused implements common.PauseView so the global record can be consulted
// directly as the first-line guard.
func (s *GlobalState) IsPaused(string) bool {
	return s != nil && s.Paused
}

// Clone returns a deep copy of the record.
func (s *GlobalState) Clone() *GlobalState {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// CollateralConfig captures the governance-controlled risk parameters for one
// collateral type. MCR, LTR and LiquidationPenalty are whole percentages.
type CollateralConfig struct {
	Symbol    string `json:"symbol"`
	OracleRef string `json:"oracleRef"`
	// Decimals is the collateral token's native precision, used to scale
	// amounts into USD values.
	Decimals uint8 `json:"decimals"`
	// MCR is the minimum collateral ratio enforced on mint and on withdrawal
	// while debt is outstanding.
	MCR uint64 `json:"mcr"`
	// LTR is the configured liquidation threshold ratio. The liquidation
	// check currently consults MCR only; LTR is stored pending product
	// clarification.
	LTR uint64 `json:"ltr"`
	// LiquidationPenalty is the surcharge applied to seized collateral.
	LiquidationPenalty uint64 `json:"liquidationPenalty"`
}

// Clone returns a deep copy of the config.
func (c *CollateralConfig) Clone() *CollateralConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Position is one owner's collateral-and-debt record for a single collateral
// type. Positions are created lazily on first deposit and never deleted; a
// fully drained position persists with zero balances.
type Position struct {
	Owner      crypto.Address `json:"owner"`
	Collateral string         `json:"collateral"`
	// CollateralAmount is denominated in the collateral token's native units.
	CollateralAmount uint64 `json:"collateralAmount"`
	// DebtAmount is denominated in stable-asset units.
	DebtAmount uint64 `json:"debtAmount"`
	Frozen     bool   `json:"frozen"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// IsFrozen implements common.FreezeView.
func (p *Position) IsFrozen() bool {
	return p != nil && p.Frozen
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// PsmConfig holds the reserve-backed swap pool between the stable asset and
// one trusted reference asset.
type PsmConfig struct {
	ReferenceSymbol string         `json:"referenceSymbol"`
	Vault           crypto.Address `json:"vault"`
	// TotalMinted tracks net stable asset minted through the PSM: mints minus
	// burns. It must never underflow.
	TotalMinted uint64 `json:"totalMinted"`
	// FeeBasisPoints is configured but not applied in either swap direction;
	// the fee mechanism is unimplemented pending product direction.
	FeeBasisPoints uint64 `json:"feeBasisPoints"`
}

// Clone returns a deep copy of the config.
func (c *PsmConfig) Clone() *PsmConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// State is the persistence contract the engine operates against. Lookups
// return nil without error when the record does not exist. Implementations
// must apply each Put atomically and must not let two operations interleave
// reads and writes on the same record.
type State interface {
	GlobalState() (*GlobalState, error)
	PutGlobalState(*GlobalState) error
	CollateralConfig(symbol string) (*CollateralConfig, error)
	PutCollateralConfig(*CollateralConfig) error
	Position(owner crypto.Address, collateral string) (*Position, error)
	PutPosition(*Position) error
	PsmConfig(symbol string) (*PsmConfig, error)
	PutPsmConfig(*PsmConfig) error
}

// TransferService is the injected token backend. Each call settles atomically
// and is composed inside the same critical section as the record writes that
// depend on it.
type TransferService interface {
	Transfer(from, to crypto.Address, asset string, amount uint64) error
	Mint(to crypto.Address, asset string, amount uint64) error
	Burn(from crypto.Address, asset string, amount uint64) error
	Balance(addr crypto.Address, asset string) (uint64, error)
}
