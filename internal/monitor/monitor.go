// Package monitor implements the Chain Monitor: a per-chain polling state
// machine that walks the block stream, detects contract creations, and
// drives the bytecode -> metadata -> sources -> inject pipeline with
// adaptive pacing.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	gcache "github.com/Code-Hex/go-generics-cache"
	"github.com/Code-Hex/go-generics-cache/policy/lru"
	"github.com/avast/retry-go"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/sourceverify/sourceverify/internal/fetch"
	"github.com/sourceverify/sourceverify/internal/model"
	"github.com/sourceverify/sourceverify/internal/obs"
	"github.com/sourceverify/sourceverify/internal/sourceaddr"
	"github.com/sourceverify/sourceverify/internal/verifier"
)

// ErrNoWorkingEndpoint is returned when every configured RPC endpoint
// failed its initial probe.
var ErrNoWorkingEndpoint = errors.New("monitor: no working rpc endpoint")

var errEmptyBytecode = errors.New("monitor: deployed bytecode not yet present")

const dedupCacheSize = 4096

// Checkpoints persists per-chain progress so a restarted monitor resumes
// near where it left off. The file-backed CheckpointStore and the
// Postgres-backed store both implement it.
type Checkpoints interface {
	Load(chainID uint64) (Checkpoint, bool, error)
	Save(chainID uint64, currentBlock uint64, blockPause time.Duration) error
}

// Monitor runs the per-chain polling state machine described in spec §4.7.
type Monitor struct {
	descriptor model.ChainDescriptor
	cfg        Config
	dial       Dialer
	fetcher    *fetch.Fetcher
	verifier   verifier.Verifier
	checkpoint Checkpoints
	logger     *zap.Logger

	dedup *gcache.Cache[string, struct{}]

	mu           sync.Mutex
	state        State
	running      bool
	client       ChainClient
	currentBlock uint64
	blockPause   time.Duration
}

// New builds a Monitor for one chain descriptor. cfg is validated and its
// zero value is rejected by Start if Validate fails.
func New(descriptor model.ChainDescriptor, cfg Config, dial Dialer, f *fetch.Fetcher, v verifier.Verifier, checkpoints Checkpoints, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dial == nil {
		dial = DefaultDialer
	}
	return &Monitor{
		descriptor: descriptor,
		cfg:        cfg,
		dial:       dial,
		fetcher:    f,
		verifier:   v,
		checkpoint: checkpoints,
		logger:     logger.With(zap.Uint64("chain_id", descriptor.ChainID)),
		dedup:      gcache.New(gcache.AsLRU[string, struct{}](lru.WithCapacity(dedupCacheSize))),
		state:      Initializing,
	}
}

// State returns the monitor's current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Monitor) isRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start probes configured RPC endpoints in order, latches the first
// responsive one, establishes the starting block, and transitions to
// Polling. It returns once initialization completes (or fails); the
// polling loop itself runs in a background goroutine.
func (m *Monitor) Start(ctx context.Context) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}

	var latched ChainClient
	var latestBlock uint64
	for _, url := range m.descriptor.RPCURLs {
		probeCtx, cancel := context.WithTimeout(ctx, m.cfg.Web3Timeout)
		client, err := m.dial(probeCtx, url)
		if err != nil {
			cancel()
			m.logger.Warn("endpoint dial failed", zap.String("url", url), zap.Error(err))
			continue
		}

		n, err := client.LatestBlockNumber(probeCtx)
		cancel()
		if err != nil {
			m.logger.Warn("endpoint probe failed", zap.String("url", url), zap.Error(err))
			client.Close()
			continue
		}

		latched = client
		latestBlock = n
		break
	}

	if latched == nil {
		m.logger.Error("no working rpc endpoint")
		m.setState(Stopped)
		return ErrNoWorkingEndpoint
	}

	start := latestBlock
	if m.cfg.StartBlockOverride != nil {
		start = *m.cfg.StartBlockOverride
	} else if m.checkpoint != nil {
		if cp, ok, err := m.checkpoint.Load(m.descriptor.ChainID); err == nil && ok {
			start = cp.CurrentBlock
		}
	}

	m.mu.Lock()
	m.client = latched
	m.currentBlock = start
	m.blockPause = m.cfg.GetBlockPause
	m.running = true
	m.state = Polling
	m.mu.Unlock()

	go m.loop(ctx)
	return nil
}

// Stop flips the running flag. Any timer that would reschedule a poll
// observes this before rearming; in-flight async work is allowed to
// complete but cannot trigger further scheduling.
func (m *Monitor) Stop() {
	m.mu.Lock()
	m.running = false
	m.state = Stopping
	m.mu.Unlock()
}

func (m *Monitor) loop(ctx context.Context) {
	for {
		if !m.isRunning() {
			m.setState(Stopped)
			return
		}

		pause := m.pollOnce(ctx)

		if !m.isRunning() {
			m.setState(Stopped)
			return
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.setState(Stopped)
			return
		case <-timer.C:
		}
	}
}

// pollOnce fetches the current block and returns the next poll pause. It
// never advances currentBlock on error.
func (m *Monitor) pollOnce(ctx context.Context) time.Duration {
	m.mu.Lock()
	client := m.client
	current := m.currentBlock
	pause := m.blockPause
	m.mu.Unlock()

	block, err := client.BlockByNumber(ctx, new(big.Int).SetUint64(current))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			next := adjustPause(pause, m.cfg.Factor, true, m.cfg.LowerLimit, m.cfg.UpperLimit)
			m.setPause(next)
			obs.BlockPause.WithLabelValues(fmt.Sprint(m.descriptor.ChainID)).Set(float64(next.Milliseconds()))
			return next
		}
		m.logger.Warn("block fetch failed", zap.Uint64("block", current), zap.Error(err))
		return pause
	}

	m.processBlock(ctx, block)

	next := adjustPause(pause, m.cfg.Factor, false, m.cfg.LowerLimit, m.cfg.UpperLimit)
	m.setPause(next)

	m.mu.Lock()
	m.currentBlock = current + 1
	newCurrent := m.currentBlock
	m.mu.Unlock()

	obs.CurrentBlock.WithLabelValues(fmt.Sprint(m.descriptor.ChainID)).Set(float64(newCurrent))
	obs.BlockPause.WithLabelValues(fmt.Sprint(m.descriptor.ChainID)).Set(float64(next.Milliseconds()))

	if m.checkpoint != nil {
		if err := m.checkpoint.Save(m.descriptor.ChainID, newCurrent, next); err != nil {
			m.logger.Warn("checkpoint save failed", zap.Error(err))
		}
	}

	return next
}

func (m *Monitor) setPause(d time.Duration) {
	m.mu.Lock()
	m.blockPause = d
	m.mu.Unlock()
}

// processBlock scans a block's transactions for contract creations and
// launches processBytecode for each one not already verified.
func (m *Monitor) processBlock(ctx context.Context, block *types.Block) {
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(m.descriptor.ChainID))

	for _, tx := range block.Transactions() {
		if tx.To() != nil {
			continue
		}

		sender, err := types.Sender(signer, tx)
		if err != nil {
			m.logger.Debug("could not recover sender", zap.String("tx", tx.Hash().Hex()), zap.Error(err))
			continue
		}

		address := crypto.CreateAddress(sender, tx.Nonce())
		addrHex := address.Hex()

		if _, seen := m.dedup.Get(addrHex); seen {
			continue
		}

		records, err := m.verifier.FindByAddress(ctx, addrHex, m.descriptor.ChainID)
		if err != nil {
			m.logger.Warn("verifier lookup failed", zap.String("address", addrHex), zap.Error(err))
		}
		if len(records) > 0 {
			m.dedup.Set(addrHex, struct{}{})
			continue
		}

		m.dedup.Set(addrHex, struct{}{})

		creation := model.CreationData{
			TxHash:      tx.Hash().Hex(),
			BlockNumber: block.NumberU64(),
			Sender:      sender.Hex(),
			Nonce:       tx.Nonce(),
		}

		go m.processBytecode(ctx, creation, address, addrHex)
	}
}

// processBytecode fetches deployed code at address, retrying while it is
// empty (not yet finalized), up to the configured retry budget. On
// nonempty code, it decodes the metadata pointer and enqueues a fetch.
func (m *Monitor) processBytecode(ctx context.Context, creation model.CreationData, address common.Address, addrHex string) {
	var code []byte

	err := retry.Do(
		func() error {
			if !m.isRunning() {
				return retry.Unrecoverable(errors.New("monitor: stopped"))
			}
			m.mu.Lock()
			client := m.client
			m.mu.Unlock()

			c, err := client.CodeAt(ctx, address)
			if err != nil {
				return err
			}
			if len(c) == 0 {
				return errEmptyBytecode
			}
			code = c
			return nil
		},
		retry.Attempts(uint(m.cfg.InitialGetBytecodeTries)),
		retry.Delay(m.cfg.GetBytecodeRetryPause),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		m.logger.Debug("processBytecode gave up", zap.String("address", addrHex), zap.Error(err))
		return
	}

	addr, decErr := sourceaddr.Decode(code)
	if decErr != nil {
		m.logger.Debug("no metadata pointer in bytecode", zap.String("address", addrHex))
		return
	}

	m.fetcher.Fetch(addr, func(contract *model.CheckedContract) {
		m.inject(ctx, contract, code, creation, addrHex)
	})
}

// inject hands the checked contract and deployment context to the
// downstream verifier. Fire-and-forget: the polling loop never waits on
// this, per §9's deliberate choice not to stall block progress.
func (m *Monitor) inject(ctx context.Context, contract *model.CheckedContract, bytecode []byte, creation model.CreationData, address string) {
	record := model.InjectionRecord{
		Contract:  contract,
		Bytecode:  bytecode,
		Creation:  creation,
		ChainID:   m.descriptor.ChainID,
		Addresses: []string{address},
	}

	chainLabel := fmt.Sprint(m.descriptor.ChainID)
	if err := m.verifier.Inject(ctx, record); err != nil {
		obs.InjectionsAttempted.WithLabelValues(chainLabel, "failure").Inc()
		m.logger.Warn("injection failed", zap.String("address", address), zap.Error(err))
		return
	}
	obs.InjectionsAttempted.WithLabelValues(chainLabel, "success").Inc()
	m.logger.Info("injected checked contract", zap.String("address", address), zap.Bool("valid", contract.Valid()))
}
