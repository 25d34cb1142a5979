// Package supervisor fans out one Chain Monitor per configured chain
// descriptor and manages their shared lifecycle.
package supervisor

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sourceverify/sourceverify/internal/fetch"
	"github.com/sourceverify/sourceverify/internal/model"
	"github.com/sourceverify/sourceverify/internal/monitor"
	"github.com/sourceverify/sourceverify/internal/verifier"
)

// Supervisor constructs and owns one Monitor per ChainDescriptor, plus the
// process-wide Source Fetcher they share.
type Supervisor struct {
	fetcher  *fetch.Fetcher
	monitors []*monitor.Monitor
	logger   *zap.Logger
}

// New builds a Supervisor for the given chain descriptors, sharing one
// Fetcher and Verifier across every monitor. startOverrides maps chain id
// to a MONITOR_START_<chainId> override of that chain's starting block.
func New(descriptors []model.ChainDescriptor, cfg monitor.Config, startOverrides map[uint64]uint64, dial monitor.Dialer, f *fetch.Fetcher, v verifier.Verifier, checkpoints monitor.Checkpoints, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}

	monitors := make([]*monitor.Monitor, 0, len(descriptors))
	for _, d := range descriptors {
		chainCfg := cfg
		if override, ok := startOverrides[d.ChainID]; ok {
			override := override
			chainCfg.StartBlockOverride = &override
		}
		monitors = append(monitors, monitor.New(d, chainCfg, dial, f, v, checkpoints, logger))
	}

	return &Supervisor{
		fetcher:  f,
		monitors: monitors,
		logger:   logger,
	}
}

// Start launches every monitor in parallel and awaits their
// initialization. A monitor that fails to initialize does not prevent
// the others from starting; the first initialization error is returned
// after all attempts complete.
func (s *Supervisor) Start(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, m := range s.monitors {
		m := m
		g.Go(func() error {
			if err := m.Start(ctx); err != nil {
				return fmt.Errorf("supervisor: monitor start: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Stop signals every monitor, then the shared Source Fetcher.
func (s *Supervisor) Stop() {
	for _, m := range s.monitors {
		m.Stop()
	}
	if s.fetcher != nil {
		s.fetcher.Stop()
	}
}

// Monitors returns the supervised monitors, for introspection (e.g. a
// status command reporting per-chain state).
func (s *Supervisor) Monitors() []*monitor.Monitor {
	return s.monitors
}
