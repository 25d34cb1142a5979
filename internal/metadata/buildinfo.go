package metadata

import (
	"bytes"
	"encoding/json"

	"github.com/sourceverify/sourceverify/internal/model"
)

// buildInfoMarker is the substring that identifies a Hardhat compiler
// build-info bundle.
var buildInfoMarker = []byte(`"hh-sol-build-info-1"`)

// buildInfoBundle mirrors only the fields the harvester inspects.
type buildInfoBundle struct {
	Input struct {
		Sources map[string]struct {
			Content string `json:"content"`
		} `json:"sources"`
	} `json:"input"`
	Output struct {
		Contracts map[string]map[string]struct {
			Metadata string `json:"metadata"`
		} `json:"contracts"`
	} `json:"output"`
}

// IsBuildInfo reports whether blob's text contains the build-info marker.
func IsBuildInfo(blob []byte) bool {
	return bytes.Contains(blob, buildInfoMarker)
}

// HarvestBuildInfo parses a compiler build-info bundle and extracts every
// input source as a PathContent and every per-contract metadata string
// through Recognize. Both harvested sets bypass subsequent general
// recognition by the caller.
func HarvestBuildInfo(path string, blob []byte) (sources []model.PathContent, manifests []*model.Manifest, ok bool) {
	if !IsBuildInfo(blob) {
		return nil, nil, false
	}

	var bundle buildInfoBundle
	if err := json.Unmarshal(blob, &bundle); err != nil {
		return nil, nil, false
	}

	for sourcePath, src := range bundle.Input.Sources {
		sources = append(sources, model.PathContent{
			Path:    path + "::" + sourcePath,
			Content: src.Content,
		})
	}

	for _, byContract := range bundle.Output.Contracts {
		for _, entry := range byContract {
			if entry.Metadata == "" {
				continue
			}
			if m, recognized := Recognize([]byte(entry.Metadata)); recognized {
				manifests = append(manifests, m)
			}
		}
	}

	return sources, manifests, true
}
