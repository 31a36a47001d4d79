package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"stablecore/native/bank"
	nativecommon "stablecore/native/common"
	"stablecore/native/stable"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps engine sentinels onto HTTP statuses. Anything unmapped is an
// internal error: the handler must not leak storage details to callers.
func statusFor(err error) int {
	switch {
	case errors.Is(err, stable.ErrInvalidAmount),
		errors.Is(err, stable.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, stable.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, stable.ErrNotInitialized),
		errors.Is(err, stable.ErrCollateralNotConfigured),
		errors.Is(err, stable.ErrPositionNotFound),
		errors.Is(err, stable.ErrPsmNotConfigured):
		return http.StatusNotFound
	case errors.Is(err, stable.ErrAlreadyInitialized),
		errors.Is(err, stable.ErrPsmExists),
		errors.Is(err, stable.ErrBelowMCR),
		errors.Is(err, stable.ErrPositionSafe),
		errors.Is(err, stable.ErrInsufficientCollateral),
		errors.Is(err, stable.ErrInsufficientReserve),
		errors.Is(err, stable.ErrOverflow),
		errors.Is(err, stable.ErrUnderflow),
		errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, nativecommon.ErrPaused),
		errors.Is(err, nativecommon.ErrFrozen):
		return http.StatusConflict
	case errors.Is(err, stable.ErrOracleUnavailable),
		errors.Is(err, stable.ErrOracleStale),
		errors.Is(err, stable.ErrOracleInvalid):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
