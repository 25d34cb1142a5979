// Package pgcheckpoint is a Postgres-backed alternative to the file
// checkpoint store, writing each chain's row with an upsert via
// ON CONFLICT.
package pgcheckpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sourceverify/sourceverify/internal/monitor"
)

// Checkpoint is one chain's persisted monitor progress.
type Checkpoint struct {
	ChainID      uint64
	CurrentBlock uint64
	BlockPauseMs float64
}

// Store provides Postgres persistence for monitor checkpoints.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn and returns a Store.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pgcheckpoint: dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgcheckpoint: connect: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Load returns the persisted checkpoint for chainID, if any.
func (s *Store) Load(ctx context.Context, chainID uint64) (Checkpoint, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT chain_id, current_block, block_pause_ms
		FROM monitor_checkpoints
		WHERE chain_id = $1
	`, int64(chainID))

	var cp Checkpoint
	var chain, block int64
	if err := row.Scan(&chain, &block, &cp.BlockPauseMs); err != nil {
		if err == pgx.ErrNoRows {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, fmt.Errorf("pgcheckpoint: load: %w", err)
	}
	cp.ChainID = uint64(chain)
	cp.CurrentBlock = uint64(block)
	return cp, true, nil
}

// Save upserts the checkpoint for chainID.
func (s *Store) Save(ctx context.Context, chainID uint64, currentBlock uint64, blockPause time.Duration) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO monitor_checkpoints (chain_id, current_block, block_pause_ms, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (chain_id)
		DO UPDATE SET
			current_block = EXCLUDED.current_block,
			block_pause_ms = EXCLUDED.block_pause_ms,
			updated_at = now()
	`, int64(chainID), int64(currentBlock), float64(blockPause.Milliseconds()))
	if err != nil {
		return fmt.Errorf("pgcheckpoint: save: %w", err)
	}
	return nil
}

// AsCheckpoints adapts Store to monitor.Checkpoints, backgrounding each
// call against context.Background() since the monitor's checkpoint calls
// carry no context of their own.
func (s *Store) AsCheckpoints() monitor.Checkpoints {
	return checkpointsAdapter{s}
}

type checkpointsAdapter struct {
	store *Store
}

func (a checkpointsAdapter) Load(chainID uint64) (monitor.Checkpoint, bool, error) {
	cp, ok, err := a.store.Load(context.Background(), chainID)
	if err != nil || !ok {
		return monitor.Checkpoint{}, ok, err
	}
	return monitor.Checkpoint{
		ChainID:      cp.ChainID,
		CurrentBlock: cp.CurrentBlock,
		BlockPauseMs: cp.BlockPauseMs,
	}, true, nil
}

func (a checkpointsAdapter) Save(chainID uint64, currentBlock uint64, blockPause time.Duration) error {
	return a.store.Save(context.Background(), chainID, currentBlock, blockPause)
}
