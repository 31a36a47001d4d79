package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stablecore/native/stable"
)

// Amounts travel as decimal strings so callers never lose precision to JSON
// number handling.
type amount string

func (a amount) parse() (uint64, error) {
	trimmed := strings.TrimSpace(string(a))
	if trimmed == "" {
		return 0, fmt.Errorf("amount required")
	}
	value, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", trimmed)
	}
	return value, nil
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

type initRequest struct {
	Admin        string `json:"admin"`
	StableSymbol string `json:"stableSymbol"`
}

type collateralRequest struct {
	Caller             string `json:"caller"`
	Symbol             string `json:"symbol"`
	OracleRef          string `json:"oracleRef"`
	Decimals           uint8  `json:"decimals"`
	MCR                uint64 `json:"mcr"`
	LTR                uint64 `json:"ltr"`
	LiquidationPenalty uint64 `json:"liquidationPenalty"`
}

type positionRequest struct {
	Caller     string `json:"caller"`
	Collateral string `json:"collateral"`
	Amount     amount `json:"amount"`
}

type liquidationRequest struct {
	Liquidator string `json:"liquidator"`
	Owner      string `json:"owner"`
	Collateral string `json:"collateral"`
	Amount     amount `json:"amount"`
}

type liquidationResponse struct {
	Repaid string `json:"repaid"`
	Seized string `json:"seized"`
}

type psmConfigRequest struct {
	Caller          string `json:"caller"`
	ReferenceSymbol string `json:"referenceSymbol"`
	Vault           string `json:"vault"`
	FeeBasisPoints  uint64 `json:"feeBasisPoints"`
}

type swapRequest struct {
	Caller          string `json:"caller"`
	ReferenceSymbol string `json:"referenceSymbol"`
	Amount          amount `json:"amount"`
}

type pauseRequest struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

type freezeRequest struct {
	Caller     string `json:"caller"`
	Owner      string `json:"owner"`
	Collateral string `json:"collateral"`
	Frozen     bool   `json:"frozen"`
}

type publishRequest struct {
	OracleRef string `json:"oracleRef"`
	PriceUSD  int64  `json:"priceUsd"`
	// Timestamp is RFC 3339; empty means now.
	Timestamp string `json:"timestamp,omitempty"`
}

func (r publishRequest) asOf(now time.Time) (time.Time, error) {
	if strings.TrimSpace(r.Timestamp) == "" {
		return now, nil
	}
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", r.Timestamp)
	}
	return ts, nil
}

type positionResponse struct {
	Owner            string `json:"owner"`
	Collateral       string `json:"collateral"`
	CollateralAmount string `json:"collateralAmount"`
	DebtAmount       string `json:"debtAmount"`
	Frozen           bool   `json:"frozen"`
	UpdatedAt        int64  `json:"updatedAt"`
}

func newPositionResponse(pos *stable.Position) positionResponse {
	return positionResponse{
		Owner:            pos.Owner.String(),
		Collateral:       pos.Collateral,
		CollateralAmount: formatAmount(pos.CollateralAmount),
		DebtAmount:       formatAmount(pos.DebtAmount),
		Frozen:           pos.Frozen,
		UpdatedAt:        pos.UpdatedAt,
	}
}

type psmResponse struct {
	ReferenceSymbol string `json:"referenceSymbol"`
	Vault           string `json:"vault"`
	TotalMinted     string `json:"totalMinted"`
	FeeBasisPoints  uint64 `json:"feeBasisPoints"`
}

func newPsmResponse(cfg *stable.PsmConfig) psmResponse {
	return psmResponse{
		ReferenceSymbol: cfg.ReferenceSymbol,
		Vault:           cfg.Vault.String(),
		TotalMinted:     formatAmount(cfg.TotalMinted),
		FeeBasisPoints:  cfg.FeeBasisPoints,
	}
}

type globalResponse struct {
	Admin        string `json:"admin"`
	StableSymbol string `json:"stableSymbol"`
	Paused       bool   `json:"paused"`
}
