package validate

import "errors"

// ErrNoManifestsFound is returned by CheckFiles when the input bag
// contained no recognizable metadata manifest.
var ErrNoManifestsFound = errors.New("validate: no metadata manifests found")

// ErrAllManifestsMalformed is returned by CheckFiles when every recognized
// manifest was discarded for carrying zero or more than one compilation
// target.
var ErrAllManifestsMalformed = errors.New("validate: all recognized manifests were malformed")
