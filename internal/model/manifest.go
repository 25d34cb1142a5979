package model

import "encoding/json"

// Manifest is the Solidity compiler metadata manifest (schema v1): compiler
// version, settings, source digests, ABI, and natspec.
type Manifest struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Language string                  `json:"language"`
	Sources  map[string]ManifestSource `json:"sources"`
	Settings ManifestSettings        `json:"settings"`
	Output   ManifestOutput          `json:"output"`
	Version  int                     `json:"version"`

	// Raw preserves the exact bytes the manifest was recognized from, so
	// callers needing the untouched JSON (e.g. for re-hashing or display)
	// never have to re-marshal a struct and risk field-order drift.
	Raw json.RawMessage `json:"-"`
}

// ManifestSource is one entry of the manifest's "sources" map: either an
// inline content string, or a digest plus a list of resolution URLs.
type ManifestSource struct {
	Content   string   `json:"content,omitempty"`
	Keccak256 string   `json:"keccak256,omitempty"`
	URLs      []string `json:"urls,omitempty"`
	License   string   `json:"license,omitempty"`
}

// ManifestSettings is the "settings" section of a manifest. Only
// compilationTarget is inspected by the recognizer; the rest round-trips
// untouched via Raw.
type ManifestSettings struct {
	CompilationTarget map[string]string `json:"compilationTarget"`
}

// ManifestOutput is the "output" section of a manifest. Recognition
// requires non-empty Abi, Userdoc, and Devdoc.
type ManifestOutput struct {
	Abi     json.RawMessage `json:"abi"`
	Userdoc json.RawMessage `json:"userdoc"`
	Devdoc  json.RawMessage `json:"devdoc"`
}

// CompilationTargetPath returns the single logical path named by
// settings.compilationTarget. Callers must only invoke this after
// recognition has enforced the single-entry invariant.
func (m *Manifest) CompilationTargetPath() string {
	for path := range m.Settings.CompilationTarget {
		return path
	}
	return ""
}
