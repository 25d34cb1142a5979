// Package chainconfig loads the chain descriptor list the Monitor
// Supervisor fans monitors out over: one of a monitored-chains set or a
// test-chains set, selected by configuration, the way
// penDerGraft-contrafactory loads its project settings from TOML.
package chainconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sourceverify/sourceverify/internal/model"
)

// chainsFile is the on-disk shape of a chain descriptor list file.
type chainsFile struct {
	Chains []chainEntry `toml:"chain"`
}

type chainEntry struct {
	ChainID   uint64   `toml:"chain_id"`
	Name      string   `toml:"name"`
	RPCURLs   []string `toml:"rpc_urls"`
	TestChain bool     `toml:"test_chain,omitempty"`
}

// Load reads a chain descriptor list from a TOML file and returns the
// descriptors gated by useTestChains: when false, test-flagged chains are
// excluded; when true, only test-flagged chains are returned.
func Load(path string, useTestChains bool) ([]model.ChainDescriptor, error) {
	var file chainsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("chainconfig: decode %s: %w", path, err)
	}

	var out []model.ChainDescriptor
	for _, c := range file.Chains {
		if c.TestChain != useTestChains {
			continue
		}
		out = append(out, model.ChainDescriptor{
			ChainID:   c.ChainID,
			Name:      c.Name,
			RPCURLs:   c.RPCURLs,
			TestChain: c.TestChain,
		})
	}
	return out, nil
}

// LoadDefault reads path if it exists; a missing file yields an empty
// descriptor list rather than an error, so a supervisor can run with
// zero configured chains until one is supplied.
func LoadDefault(path string, useTestChains bool) ([]model.ChainDescriptor, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return Load(path, useTestChains)
}
