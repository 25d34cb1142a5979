package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint is the persisted progress of one chain monitor.
type Checkpoint struct {
	ChainID        uint64  `json:"chain_id"`
	CurrentBlock   uint64  `json:"current_block"`
	BlockPauseMs   float64 `json:"block_pause_ms"`
	UpdatedAt      string  `json:"updated_at"`
}

// CheckpointStore persists one JSON checkpoint file per chain so a
// restarted supervisor resumes near where it left off. Adapted from the
// atomic write-rename-to-path technique used for block-range checkpoints
// elsewhere in the corpus.
type CheckpointStore struct {
	dir     string
	enabled bool
}

// NewCheckpointStore builds a file-backed CheckpointStore rooted at dir.
func NewCheckpointStore(dir string, enabled bool) *CheckpointStore {
	return &CheckpointStore{dir: dir, enabled: enabled}
}

func (s *CheckpointStore) path(chainID uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("chain-%d.json", chainID))
}

// Load returns the persisted checkpoint for chainID, if any.
func (s *CheckpointStore) Load(chainID uint64) (Checkpoint, bool, error) {
	if !s.enabled {
		return Checkpoint{}, false, nil
	}

	p := s.path(chainID)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint: %w", err)
	}
	return cp, true, nil
}

// Save atomically persists the checkpoint for chainID.
func (s *CheckpointStore) Save(chainID uint64, currentBlock uint64, blockPause time.Duration) error {
	if !s.enabled {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	cp := Checkpoint{
		ChainID:      chainID,
		CurrentBlock: currentBlock,
		BlockPauseMs: float64(blockPause.Milliseconds()),
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	p := s.path(chainID)
	tmpPath := p + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}
