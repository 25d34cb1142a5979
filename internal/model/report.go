package model

// ValidationReport wraps the result of a validation run for CLI and log
// output: the checked contracts, the provided-source paths no manifest
// consumed, the input paths that could not be read at all, and the
// manifests discarded for carrying more (or fewer) than one compilation
// target.
type ValidationReport struct {
	Contracts       []*CheckedContract
	UnusedSources   []string
	UnreadablePaths []string
	MalformedPaths  []string
}
