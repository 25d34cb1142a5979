// Package archive detects ZIP-signed blobs in an input bag and expands
// them, single-level, into their member blobs.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/sourceverify/sourceverify/internal/model"
)

// isZip reports whether content opens with the 4-byte ZIP signature
// pattern: "PK", then 0x03, 0x05 or 0x07, then 0x04, 0x06 or 0x08 (local
// file header, end-of-central-directory, or spanned-archive marker).
func isZip(content []byte) bool {
	if len(content) < 4 {
		return false
	}
	if content[0] != 0x50 || content[1] != 0x4B {
		return false
	}
	switch content[2] {
	case 0x03, 0x05, 0x07:
	default:
		return false
	}
	switch content[3] {
	case 0x04, 0x06, 0x08:
	default:
		return false
	}
	return true
}

// Expand replaces every ZIP-signed blob in blobs with its enumerated
// members, path-preserved. Expansion is single-level: members are not
// re-scanned for nested archives (an open question in the source spec,
// resolved here by preserving non-recursive behavior). Non-archive blobs
// pass through unchanged.
func Expand(blobs []model.PathBlob) ([]model.PathBlob, error) {
	out := make([]model.PathBlob, 0, len(blobs))
	for _, blob := range blobs {
		if !isZip(blob.Content) {
			out = append(out, blob)
			continue
		}

		members, err := expandOne(blob)
		if err != nil {
			return nil, fmt.Errorf("expand archive %s: %w", blob.Path, err)
		}
		out = append(out, members...)
	}
	return out, nil
}

func expandOne(blob model.PathBlob) ([]model.PathBlob, error) {
	reader, err := zip.NewReader(bytes.NewReader(blob.Content), int64(len(blob.Content)))
	if err != nil {
		return nil, err
	}

	members := make([]model.PathBlob, 0, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open member %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read member %s: %w", f.Name, err)
		}

		members = append(members, model.PathBlob{
			Path:    blob.Path + "::" + f.Name,
			Content: content,
		})
	}
	return members, nil
}
