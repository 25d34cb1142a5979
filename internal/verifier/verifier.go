// Package verifier declares the downstream verification service contract.
// The chain monitor and source fetcher depend only on this interface; no
// concrete HTTP or gRPC client is implemented here (out of scope, see
// spec §1/§6).
package verifier

import (
	"context"

	"github.com/sourceverify/sourceverify/internal/model"
)

// VerifiedRecord is one prior-verification hit returned by FindByAddress.
type VerifiedRecord struct {
	Address string
	ChainID uint64
}

// Verifier is the downstream verification service's contract. Implementations
// are shared across chain monitors and must be safe for concurrent use.
type Verifier interface {
	// FindByAddress looks up prior verification records for address on chainID.
	// An empty result means the address has not yet been verified.
	FindByAddress(ctx context.Context, address string, chainID uint64) ([]VerifiedRecord, error)

	// Inject hands a checked contract and its deployment context to the
	// verification service. Injection is fire-and-forget from the chain
	// monitor's perspective: callers must not block block progression on it.
	Inject(ctx context.Context, record model.InjectionRecord) error
}
