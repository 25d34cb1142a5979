package metadata

import (
	"encoding/json"
	"testing"
)

func TestHarvestBuildInfo(t *testing.T) {
	bundle := `{
		"_format": "hh-sol-build-info-1",
		"input": {
			"sources": {
				"src/Foo.sol": {"content": "contract Foo {}"}
			}
		},
		"output": {
			"contracts": {
				"src/Foo.sol": {
					"Foo": {"metadata": ` + mustJSONString(sampleManifest) + `}
				}
			}
		}
	}`

	sources, manifests, ok := HarvestBuildInfo("build-info/1.json", []byte(bundle))
	if !ok {
		t.Fatalf("expected build-info bundle to be recognized")
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 harvested source, got %d", len(sources))
	}
	if sources[0].Content != "contract Foo {}" {
		t.Fatalf("unexpected harvested content: %s", sources[0].Content)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected 1 harvested manifest, got %d", len(manifests))
	}
}

func TestIsBuildInfoFalseForPlainManifest(t *testing.T) {
	if IsBuildInfo([]byte(sampleManifest)) {
		t.Fatalf("plain manifest should not be recognized as build-info")
	}
}

func mustJSONString(raw string) string {
	b, err := json.Marshal(raw)
	if err != nil {
		panic(err)
	}
	return string(b)
}
