// Package metadata decides whether a blob is a Solidity compiler metadata
// manifest and extracts it from singly- or doubly-encoded JSON, or from a
// nested string inside a compiler build-info bundle.
package metadata

import (
	"encoding/json"
	"errors"
	"regexp"

	"github.com/sourceverify/sourceverify/internal/model"
)

// ErrMalformedManifest is returned when a blob parses and passes the
// recognition predicate but carries zero or more than one compilation
// target.
var ErrMalformedManifest = errors.New("metadata: manifest has no single compilation target")

// nestedPattern matches a quoted JSON object embedded in another JSON
// document, e.g. a metadata manifest serialized as a string field. It
// anchors on the distinctive prefix every Solidity manifest starts with.
var nestedPattern = regexp.MustCompile(`(?s)"(\{\\"compiler\\":\{\\"version\\".*?,\\"version\\":1\})"`)

// Recognize attempts to parse blob as a metadata manifest. It tries, in
// order: direct JSON parse, double-decode (the manifest was stored as a
// JSON string inside another JSON value), and extraction of a nested
// metadata substring from the raw text. Returns (nil, false) if none of
// these yield a recognizable manifest.
func Recognize(blob []byte) (*model.Manifest, bool) {
	if m, ok := tryParse(blob); ok {
		return m, true
	}

	if m, ok := tryDoubleDecode(blob); ok {
		return m, true
	}

	if nested := nestedPattern.FindSubmatch(blob); nested != nil {
		var unquoted string
		quoted := append([]byte{'"'}, nested[1]...)
		quoted = append(quoted, '"')
		if err := json.Unmarshal(quoted, &unquoted); err == nil {
			if m, ok := tryParse([]byte(unquoted)); ok {
				return m, true
			}
			if m, ok := tryDoubleDecode([]byte(unquoted)); ok {
				return m, true
			}
		}
	}

	return nil, false
}

func tryParse(blob []byte) (*model.Manifest, bool) {
	var m model.Manifest
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, false
	}
	if !passesPredicate(&m) {
		return nil, false
	}
	m.Raw = append(json.RawMessage(nil), blob...)
	return &m, true
}

// tryDoubleDecode handles manifests persisted as a JSON string inside
// another JSON value: decode once to a string, then parse that string as
// the manifest.
func tryDoubleDecode(blob []byte) (*model.Manifest, bool) {
	var inner string
	if err := json.Unmarshal(blob, &inner); err != nil {
		return nil, false
	}
	return tryParse([]byte(inner))
}

// passesPredicate implements the §3 recognition predicate: Solidity
// language, non-empty compilationTarget/version/abi/userdoc/devdoc/sources.
func passesPredicate(m *model.Manifest) bool {
	if m.Language != "Solidity" {
		return false
	}
	if len(m.Settings.CompilationTarget) == 0 {
		return false
	}
	if m.Compiler.Version == "" {
		return false
	}
	if len(m.Output.Abi) == 0 {
		return false
	}
	if len(m.Output.Userdoc) == 0 {
		return false
	}
	if len(m.Output.Devdoc) == 0 {
		return false
	}
	if len(m.Sources) == 0 {
		return false
	}
	return true
}

// EnforceSingleTarget implements the post-recognition check: a manifest
// with multiple (or zero) compilation targets is rejected.
func EnforceSingleTarget(m *model.Manifest) error {
	if len(m.Settings.CompilationTarget) != 1 {
		return ErrMalformedManifest
	}
	return nil
}
