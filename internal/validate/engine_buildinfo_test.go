package validate

import (
	"fmt"
	"testing"

	"github.com/sourceverify/sourceverify/internal/model"
)

// Scenario 6: build-info bundle harvesting bypasses general recognition.
func TestCheckFilesBuildInfoBundle(t *testing.T) {
	e := NewEngine(nil)
	manifestJSON := inlineManifestBlob(t, "src/Foo.sol", "src/Foo.sol", "contract Foo {}")

	bundle := []byte(fmt.Sprintf(`{
		"_format": "hh-sol-build-info-1",
		"input": {"sources": {"src/Foo.sol": {"content": "contract Foo {}"}}},
		"output": {"contracts": {"src/Foo.sol": {"Foo": {"metadata": %q}}}}
	}`, manifestJSON))

	contracts, err := e.CheckFiles([]model.PathBlob{
		{Path: "build-info/1.json", Content: bundle},
	}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contracts) != 1 {
		t.Fatalf("expected 1 checked contract harvested from build-info, got %d", len(contracts))
	}
	if !contracts[0].Valid() {
		t.Fatalf("expected harvested contract to be valid")
	}
}
