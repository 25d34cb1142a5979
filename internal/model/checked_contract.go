package model

// FoundSource is a manifest source reconciled against a hash-verified
// provided blob.
type FoundSource struct {
	ProvidedPath string
	Content      string
}

// MissingSource is a manifest source for which no provided blob hashed to
// the declared digest.
type MissingSource struct {
	Keccak256 string
	URLs      []string
}

// InvalidSource is a manifest source whose inline content's computed hash
// disagreed with the declared digest.
type InvalidSource struct {
	ExpectedHash   string
	CalculatedHash string
	Message        string
}

// CheckedContract is a manifest bound to its reconciled source partitions.
// Every key of Manifest.Sources appears in exactly one of Found, Missing,
// Invalid.
type CheckedContract struct {
	Manifest *Manifest

	Found   map[string]FoundSource
	Missing map[string]MissingSource
	Invalid map[string]InvalidSource

	// ExtraSources holds sources added by UseAllSources that were not
	// referenced by the manifest at all.
	ExtraSources map[string]string
}

// Valid reports whether every declared source was reconciled successfully.
func (c *CheckedContract) Valid() bool {
	return len(c.Missing) == 0 && len(c.Invalid) == 0
}

// NewCheckedContract builds an empty CheckedContract for the given manifest.
func NewCheckedContract(m *Manifest) *CheckedContract {
	return &CheckedContract{
		Manifest: m,
		Found:    make(map[string]FoundSource),
		Missing:  make(map[string]MissingSource),
		Invalid:  make(map[string]InvalidSource),
	}
}
