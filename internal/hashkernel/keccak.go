// Package hashkernel computes the keccak256 digest of source text and
// enumerates the line-ending variations a correct reconciler must try
// before declaring a source missing.
package hashkernel

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// Keccak256 returns the lowercase 0x-prefixed hex digest of text, using the
// same Keccak variant Ethereum uses (not NIST SHA3-256).
func Keccak256(text string) string {
	sum := crypto.Keccak256([]byte(text))
	return "0x" + hex.EncodeToString(sum)
}
