package monitor

import (
	"fmt"
	"time"
)

// Config holds the tunables named in the external environment-variable
// table: pacing factor and clamps, RPC probe timeout, bytecode retry
// pacing, and the initial bytecode retry budget.
type Config struct {
	// Factor is the adaptive pacing multiplier. Must be strictly greater
	// than 1; Validate asserts this at startup.
	Factor float64

	UpperLimit time.Duration
	LowerLimit time.Duration

	Web3Timeout time.Duration

	GetBytecodeRetryPause time.Duration
	GetBlockPause         time.Duration

	InitialGetBytecodeTries int

	// StartBlockOverride, when non-nil, overrides the probed latest block
	// as current_block for this chain (MONITOR_START_<chainId>).
	StartBlockOverride *uint64
}

// DefaultConfig returns the documented defaults for every tunable.
func DefaultConfig() Config {
	return Config{
		Factor:                  1.1,
		UpperLimit:              30 * time.Second,
		LowerLimit:              500 * time.Millisecond,
		Web3Timeout:             3 * time.Second,
		GetBytecodeRetryPause:   5 * time.Second,
		GetBlockPause:           10 * time.Second,
		InitialGetBytecodeTries: 3,
	}
}

// Validate asserts the pacing factor is strictly greater than 1, per §5.
func (c Config) Validate() error {
	if c.Factor <= 1 {
		return fmt.Errorf("monitor: block pause factor must be > 1, got %v", c.Factor)
	}
	if c.LowerLimit <= 0 || c.UpperLimit <= 0 || c.LowerLimit > c.UpperLimit {
		return fmt.Errorf("monitor: invalid pause clamp [%v, %v]", c.LowerLimit, c.UpperLimit)
	}
	return nil
}
