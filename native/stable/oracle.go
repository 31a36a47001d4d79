package stable

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	// ErrOracleUnavailable indicates the feed could not be read at all.
	ErrOracleUnavailable = errors.New("stable oracle: price unavailable")
	// ErrOracleStale indicates the most recent update is outside the
	// freshness window.
	ErrOracleStale = errors.New("stable oracle: price stale")
	// ErrOracleInvalid indicates the reported price is not positive.
	ErrOracleInvalid = errors.New("stable oracle: price invalid")
)

// FreshnessWindow is the maximum accepted quote age. The engine never accepts
// a stale price; every valuation failure aborts the calling operation.
const FreshnessWindow = 60 * time.Second

// Quote is a normalised USD price scaled by 1e6, together with the time the
// upstream oracle reported it.
type Quote struct {
	PriceUSD  uint64
	Timestamp time.Time
}

// PriceSource resolves an oracle reference into a normalised USD price.
type PriceSource interface {
	Price(oracleRef string) (Quote, error)
}

type feedEntry struct {
	price     int64
	timestamp time.Time
}

// Feed is an in-process PriceSource populated by trusted publishers. Reads
// enforce the freshness window and fail closed on missing, stale or
// non-positive observations.
type Feed struct {
	mu      sync.RWMutex
	entries map[string]feedEntry
	maxAge  time.Duration
	now     func() time.Time
}

// NewFeed constructs a feed with the default freshness window.
func NewFeed() *Feed {
	return &Feed{
		entries: make(map[string]feedEntry),
		maxAge:  FreshnessWindow,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the feed clock, primarily for deterministic testing.
func (f *Feed) SetClock(now func() time.Time) {
	if f == nil || now == nil {
		return
	}
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

// SetMaxAge overrides the freshness window. Non-positive values are ignored.
func (f *Feed) SetMaxAge(maxAge time.Duration) {
	if f == nil || maxAge <= 0 {
		return
	}
	f.mu.Lock()
	f.maxAge = maxAge
	f.mu.Unlock()
}

// Publish records a raw observation for the oracle reference. The price is
// stored as reported, including non-positive values; validation happens on
// read so a bad publish cannot be laundered into a usable quote.
func (f *Feed) Publish(oracleRef string, price int64, asOf time.Time) {
	if f == nil {
		return
	}
	ref := strings.TrimSpace(oracleRef)
	if ref == "" {
		return
	}
	f.mu.Lock()
	f.entries[ref] = feedEntry{price: price, timestamp: asOf.UTC()}
	f.mu.Unlock()
}

// Price implements PriceSource.
func (f *Feed) Price(oracleRef string) (Quote, error) {
	if f == nil {
		return Quote{}, ErrOracleUnavailable
	}
	f.mu.RLock()
	entry, ok := f.entries[strings.TrimSpace(oracleRef)]
	maxAge := f.maxAge
	now := f.now()
	f.mu.RUnlock()

	if !ok {
		return Quote{}, ErrOracleUnavailable
	}
	if entry.price <= 0 {
		return Quote{}, ErrOracleInvalid
	}
	if entry.timestamp.IsZero() || now.Sub(entry.timestamp) > maxAge {
		return Quote{}, ErrOracleStale
	}
	return Quote{PriceUSD: uint64(entry.price), Timestamp: entry.timestamp}, nil
}
