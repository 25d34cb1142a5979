package verifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/sourceverify/sourceverify/internal/model"
)

// LoggingVerifier is a log-only stand-in for the downstream verification
// service, which is an external collaborator out of scope for this repo
// (spec §1/§6). It always reports no prior verification and logs every
// injection instead of delivering it anywhere. Wire a real client in its
// place once the downstream service's transport is chosen.
type LoggingVerifier struct {
	Logger *zap.Logger
}

func (v LoggingVerifier) FindByAddress(ctx context.Context, address string, chainID uint64) ([]VerifiedRecord, error) {
	return nil, nil
}

func (v LoggingVerifier) Inject(ctx context.Context, record model.InjectionRecord) error {
	logger := v.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("injection (logging verifier, no downstream configured)",
		zap.Uint64("chain_id", record.ChainID),
		zap.Strings("addresses", record.Addresses),
		zap.Bool("valid", record.Contract != nil && record.Contract.Valid()),
	)
	return nil
}
