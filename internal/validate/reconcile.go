package validate

import (
	"fmt"

	"github.com/sourceverify/sourceverify/internal/hashkernel"
	"github.com/sourceverify/sourceverify/internal/model"
)

// reconcile binds manifest against index, producing a CheckedContract and
// the set of candidate paths the reconciliation consumed (for the unused-
// sources report).
func reconcile(manifest *model.Manifest, index hashIndex) (*model.CheckedContract, []string) {
	contract := model.NewCheckedContract(manifest)
	var consumed []string

	for logicalPath, src := range manifest.Sources {
		if src.Content != "" {
			computed := hashkernel.Keccak256(src.Content)
			if computed != src.Keccak256 {
				contract.Invalid[logicalPath] = model.InvalidSource{
					ExpectedHash:   src.Keccak256,
					CalculatedHash: computed,
					Message:        fmt.Sprintf("inline content hash mismatch for %s", logicalPath),
				}
				continue
			}
			contract.Found[logicalPath] = model.FoundSource{
				ProvidedPath: logicalPath,
				Content:      src.Content,
			}
			continue
		}

		entry, ok := index[src.Keccak256]
		if !ok {
			contract.Missing[logicalPath] = model.MissingSource{
				Keccak256: src.Keccak256,
				URLs:      src.URLs,
			}
			continue
		}

		contract.Found[logicalPath] = model.FoundSource{
			ProvidedPath: entry.path,
			Content:      entry.content,
		}
		consumed = append(consumed, entry.path)
	}

	return contract, consumed
}
