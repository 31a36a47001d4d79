package common

import "errors"

var (
	// ErrPaused is returned when the process-wide pause switch is set.
	ErrPaused = errors.New("system paused")
	// ErrFrozen is returned when the targeted record is administratively frozen.
	ErrFrozen = errors.New("position frozen")
)

// PauseView reports whether mutating operations for a module are suspended.
type PauseView interface {
	IsPaused(module string) bool
}

// FreezeView reports whether a single record is suspended. Freezing binds the
// record owner's own actions only; callers that act on behalf of the system
// (liquidation) skip this guard.
type FreezeView interface {
	IsFrozen() bool
}

// Guard is the first check of every mutating operation.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrPaused
	}
	return nil
}

// GuardFrozen rejects operations targeting a frozen record.
func GuardFrozen(v FreezeView) error {
	if v == nil {
		return nil
	}
	if v.IsFrozen() {
		return ErrFrozen
	}
	return nil
}
