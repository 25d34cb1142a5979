package monitor

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/sourceverify/sourceverify/internal/chain"
)

// ChainClient is the subset of internal/chain.Client the monitor needs: a
// latest-block probe, block-with-transactions fetch, and deployed
// bytecode lookup. Narrowed to an interface so the state machine can be
// driven by a fake in tests without dialing a real RPC endpoint.
type ChainClient interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	Close()
}

// Dialer dials one RPC endpoint and returns a ChainClient.
type Dialer func(ctx context.Context, rpcURL string) (ChainClient, error)

// DefaultDialer dials with internal/chain.NewClient.
func DefaultDialer(ctx context.Context, rpcURL string) (ChainClient, error) {
	return chain.NewClient(ctx, rpcURL)
}
