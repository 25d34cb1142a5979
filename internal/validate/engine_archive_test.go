package validate

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/sourceverify/sourceverify/internal/hashkernel"
	"github.com/sourceverify/sourceverify/internal/model"
)

// Scenario 5: archive round-trip.
func TestCheckFilesArchiveRoundTrip(t *testing.T) {
	e := NewEngine(nil)
	content := "contract Foo {}"
	digest := hashkernel.Keccak256(content)
	manifestJSON := manifestBlob(t, "src/Foo.sol", map[string]string{"src/Foo.sol": digest})

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	mf, _ := w.Create("metadata.json")
	mf.Write(manifestJSON)
	sf, _ := w.Create("src/Foo.sol")
	sf.Write([]byte(content))
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	direct, err := e.CheckFiles([]model.PathBlob{
		{Path: "metadata.json", Content: manifestJSON},
		{Path: "src/Foo.sol", Content: []byte(content)},
	}, nil, nil)
	if err != nil {
		t.Fatalf("direct check failed: %v", err)
	}

	archived, err := e.CheckFiles([]model.PathBlob{
		{Path: "bundle.zip", Content: buf.Bytes()},
	}, nil, nil)
	if err != nil {
		t.Fatalf("archived check failed: %v", err)
	}

	if archived[0].Valid() != direct[0].Valid() {
		t.Fatalf("expected archived and direct results to agree on validity")
	}
	if len(archived[0].Found) != len(direct[0].Found) {
		t.Fatalf("expected same found count: archived=%d direct=%d", len(archived[0].Found), len(direct[0].Found))
	}
}
