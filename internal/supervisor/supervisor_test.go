package supervisor

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/sourceverify/sourceverify/internal/model"
	"github.com/sourceverify/sourceverify/internal/monitor"
	"github.com/sourceverify/sourceverify/internal/verifier"
)

type fakeChainClient struct {
	latest uint64
}

func (c *fakeChainClient) LatestBlockNumber(ctx context.Context) (uint64, error) { return c.latest, nil }
func (c *fakeChainClient) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	return nil, errors.New("not found")
}
func (c *fakeChainClient) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	return nil, nil
}
func (c *fakeChainClient) Close() {}

type fakeVerifier struct{}

func (fakeVerifier) FindByAddress(ctx context.Context, address string, chainID uint64) ([]verifier.VerifiedRecord, error) {
	return nil, nil
}
func (fakeVerifier) Inject(ctx context.Context, record model.InjectionRecord) error { return nil }

func TestSupervisorStartsAllMonitors(t *testing.T) {
	descriptors := []model.ChainDescriptor{
		{ChainID: 1, RPCURLs: []string{"chain1"}},
		{ChainID: 2, RPCURLs: []string{"chain2"}},
	}

	dial := func(ctx context.Context, url string) (monitor.ChainClient, error) {
		return &fakeChainClient{latest: 10}, nil
	}

	cfg := monitor.DefaultConfig()
	cfg.Web3Timeout = 200 * time.Millisecond

	sup := New(descriptors, cfg, nil, dial, nil, fakeVerifier{}, nil, nil)
	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sup.Stop()

	if len(sup.Monitors()) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(sup.Monitors()))
	}
	for _, m := range sup.Monitors() {
		if m.State() != monitor.Polling {
			t.Fatalf("expected monitor in Polling state, got %v", m.State())
		}
	}
}

func TestSupervisorStartPropagatesFailure(t *testing.T) {
	descriptors := []model.ChainDescriptor{
		{ChainID: 1, RPCURLs: []string{"chain1"}},
	}
	dial := func(ctx context.Context, url string) (monitor.ChainClient, error) {
		return nil, errors.New("refused")
	}

	sup := New(descriptors, monitor.DefaultConfig(), nil, dial, nil, fakeVerifier{}, nil, nil)
	if err := sup.Start(context.Background()); err == nil {
		t.Fatal("expected error when no monitor can initialize")
	}
}
