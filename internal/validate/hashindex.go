package validate

import "github.com/sourceverify/sourceverify/internal/hashkernel"

// hashIndexEntry is a candidate source indexed by one of its hash
// variations.
type hashIndexEntry struct {
	path    string
	content string
}

// hashIndex maps a keccak256 digest to the candidate source that produced
// it under some line-ending variation. The entry's content is the exact
// variant that hashed to the digest, not the candidate's original text, so
// a caller can trust content's keccak256 equals the index key.
type hashIndex map[string]hashIndexEntry

// buildHashIndex enumerates the 18 hash variations of every candidate
// source and indexes each by its keccak256 digest.
func buildHashIndex(candidates []candidateSource) hashIndex {
	index := make(hashIndex, len(candidates)*18)
	for _, c := range candidates {
		for _, variant := range hashkernel.Variations(c.content) {
			digest := hashkernel.Keccak256(variant)
			index[digest] = hashIndexEntry{path: c.path, content: variant}
		}
	}
	return index
}

// candidateSource is a blob that was not recognized as a manifest and is
// therefore a candidate provided source.
type candidateSource struct {
	path    string
	content string
}
