package monitor

import (
	"math"
	"testing"
	"time"
)

// Scenario 7: simulated null blocks N times then one nonnull.
func TestAdjustPauseAdaptivePacing(t *testing.T) {
	const (
		factor = 1.1
		lower  = 500 * time.Millisecond
		upper  = 30 * time.Second
	)
	initial := 10 * time.Second

	pause := initial
	const n = 5
	for i := 0; i < n; i++ {
		pause = adjustPause(pause, factor, true, lower, upper)
	}

	expected := clampDuration(time.Duration(float64(initial)*math.Pow(factor, n)), lower, upper)
	if pause != expected {
		t.Fatalf("after %d nulls: got %v want %v", n, pause, expected)
	}

	prev := pause
	pause = adjustPause(pause, factor, false, lower, upper)
	expectedAfterNonnull := clampDuration(time.Duration(float64(prev)/factor), lower, upper)
	if pause != expectedAfterNonnull {
		t.Fatalf("after nonnull: got %v want %v", pause, expectedAfterNonnull)
	}
}

func TestAdjustPauseClampsToUpper(t *testing.T) {
	pause := 29 * time.Second
	for i := 0; i < 50; i++ {
		pause = adjustPause(pause, 1.1, true, 500*time.Millisecond, 30*time.Second)
	}
	if pause != 30*time.Second {
		t.Fatalf("expected clamp to upper limit, got %v", pause)
	}
}

func TestAdjustPauseClampsToLower(t *testing.T) {
	pause := 600 * time.Millisecond
	for i := 0; i < 50; i++ {
		pause = adjustPause(pause, 1.1, false, 500*time.Millisecond, 30*time.Second)
	}
	if pause != 500*time.Millisecond {
		t.Fatalf("expected clamp to lower limit, got %v", pause)
	}
}

func clampDuration(d, lower, upper time.Duration) time.Duration {
	if d < lower {
		return lower
	}
	if d > upper {
		return upper
	}
	return d
}
