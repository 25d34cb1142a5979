// Package transport declares the decentralized source-store resolver
// contract. Resolving a SourceAddress to bytes (IPFS, Swarm, ...) is an
// external collaborator per spec §1; no concrete client is implemented here.
package transport

import (
	"context"

	"github.com/sourceverify/sourceverify/internal/model"
)

// SourceResolver resolves a content-addressed SourceAddress to the raw bytes
// stored on that network. Implementations must be safe for concurrent use;
// the Source Fetcher calls Resolve for a manifest and then, concurrently,
// ResolveURL for every source the manifest names by URL.
type SourceResolver interface {
	Resolve(ctx context.Context, addr model.SourceAddress) ([]byte, error)

	// ResolveURL resolves a source by one of the manifest's declared
	// resolution URLs (ipfs://, bzz-raw://, https://, ...), used when a
	// manifest source carries urls instead of an inline content string.
	ResolveURL(ctx context.Context, url string) ([]byte, error)
}
