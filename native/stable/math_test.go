package stable

import (
	"errors"
	"math"
	"testing"
)

func TestCheckedAdd(t *testing.T) {
	if got, err := checkedAdd(math.MaxUint64-1, 1); err != nil || got != math.MaxUint64 {
		t.Fatalf("checkedAdd = %d, %v", got, err)
	}
	if _, err := checkedAdd(math.MaxUint64, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestCheckedSub(t *testing.T) {
	if got, err := checkedSub(5, 5); err != nil || got != 0 {
		t.Fatalf("checkedSub = %d, %v", got, err)
	}
	if _, err := checkedSub(0, 1); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected ErrUnderflow, got %v", err)
	}
}

func TestMulDiv(t *testing.T) {
	// The 128-bit intermediate must survive operands whose product exceeds
	// uint64.
	got, err := mulDiv(math.MaxUint64, 1_000, 1_000)
	if err != nil || got != math.MaxUint64 {
		t.Fatalf("mulDiv = %d, %v", got, err)
	}
	if got, err := mulDiv(7, 3, 2); err != nil || got != 10 {
		t.Fatalf("mulDiv should floor: got %d, %v", got, err)
	}
	if _, err := mulDiv(math.MaxUint64, 2, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow on narrow, got %v", err)
	}
}

func TestPow10(t *testing.T) {
	if got, err := pow10(0); err != nil || got != 1 {
		t.Fatalf("pow10(0) = %d, %v", got, err)
	}
	if got, err := pow10(9); err != nil || got != 1_000_000_000 {
		t.Fatalf("pow10(9) = %d, %v", got, err)
	}
	if got, err := pow10(19); err != nil || got != 10_000_000_000_000_000_000 {
		t.Fatalf("pow10(19) = %d, %v", got, err)
	}
	if _, err := pow10(20); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestPositionSolvent(t *testing.T) {
	cases := []struct {
		name  string
		value uint64
		debt  uint64
		mcr   uint64
		want  bool
	}{
		{"zero debt always covered", 0, 0, 150, true},
		{"exactly at the bar", 150_000_000, 100_000_000, 150, true},
		{"one under the bar", 149_999_999, 100_000_000, 150, false},
		{"floored requirement", 1, 1, 150, true},
		{"comfortably covered", 1_500_000_000, 500_000_000, 150, true},
		{"wide debt", math.MaxUint64, math.MaxUint64, 150, false},
	}
	for _, tc := range cases {
		if got := positionSolvent(tc.value, tc.debt, tc.mcr); got != tc.want {
			t.Fatalf("%s: positionSolvent(%d, %d, %d) = %v, want %v", tc.name, tc.value, tc.debt, tc.mcr, got, tc.want)
		}
	}
}
