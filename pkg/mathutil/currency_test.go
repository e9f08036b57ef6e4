package mathutil

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{2.344, 2.34},
		{2.346, 2.35},
		{-2.346, -2.35},
		{100, 100},
		{0, 0},
		{999999999.994, 999999999.99},
	}
	for _, tt := range tests {
		if got := Round(tt.input); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// Repeated rounding through a chain of additions must not drift; the
// ledger rounds after every mutation.
func TestRoundIsStable(t *testing.T) {
	value := 0.0
	for i := 0; i < 1000; i++ {
		value = Round(value + 0.1)
	}
	if value != 100 {
		t.Errorf("1000 additions of 0.10 = %v, want 100", value)
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0) || !IsZero(0.01) || !IsZero(-0.01) {
		t.Error("values within a cent of zero should count as zero")
	}
	if IsZero(0.02) || IsZero(-0.02) {
		t.Error("values beyond a cent of zero should not count as zero")
	}
}

func TestIsPositive(t *testing.T) {
	if !IsPositive(0.02) {
		t.Error("IsPositive(0.02) = false")
	}
	if IsPositive(0.01) || IsPositive(0) || IsPositive(-1) {
		t.Error("IsPositive must require more than the cent tolerance")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1.00, 1.005, 0.01) {
		t.Error("WithinTolerance(1.00, 1.005, 0.01) = false")
	}
	if WithinTolerance(1.00, 1.02, 0.01) {
		t.Error("WithinTolerance(1.00, 1.02, 0.01) = true")
	}
}

func TestMin(t *testing.T) {
	if got := Min(3, 5); got != 3 {
		t.Errorf("Min(3, 5) = %v", got)
	}
	if got := Min(5, 3); got != 3 {
		t.Errorf("Min(5, 3) = %v", got)
	}
	if got := Min(-1, 0); got != -1 {
		t.Errorf("Min(-1, 0) = %v", got)
	}
}
