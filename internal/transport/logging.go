package transport

import (
	"context"
	"errors"

	"github.com/sourceverify/sourceverify/internal/model"
)

// ErrResolverUnconfigured is returned by NoopResolver, the default
// SourceResolver when no decentralized-storage transport is configured.
// Resolving a SourceAddress to bytes is an external collaborator out of
// scope for this repo (spec §1/§6); wire a real IPFS/Swarm client in its
// place once one is chosen.
var ErrResolverUnconfigured = errors.New("transport: no source resolver configured")

// NoopResolver rejects every resolution attempt.
type NoopResolver struct{}

func (NoopResolver) Resolve(ctx context.Context, addr model.SourceAddress) ([]byte, error) {
	return nil, ErrResolverUnconfigured
}

func (NoopResolver) ResolveURL(ctx context.Context, url string) ([]byte, error) {
	return nil, ErrResolverUnconfigured
}
