// Package validate implements the Validation Engine: given an unordered
// bag of input blobs, discover metadata manifests and reconstruct a
// complete, hash-verified source bundle for each.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sourceverify/sourceverify/internal/archive"
	"github.com/sourceverify/sourceverify/internal/metadata"
	"github.com/sourceverify/sourceverify/internal/model"
	"github.com/sourceverify/sourceverify/internal/obs"
)

// Engine runs the Validation Engine's operations. It performs no I/O
// beyond reading the paths passed to CheckPaths; CheckFiles itself is
// strictly sequential and pure with respect to its inputs.
type Engine struct {
	logger *zap.Logger
}

// NewEngine builds an Engine. A nil logger is replaced with a no-op one.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// CheckPaths resolves each path (loading files, walking directories
// recursively) into blobs and runs CheckFiles over them. A path that does
// not exist is pushed to unreadableSink if one is provided, and silently
// dropped otherwise — preserved from the source behavior; see SPEC_FULL.md §9.
// unusedSink, if non-nil, collects candidate source paths no manifest
// consumed. malformedSink, if non-nil, collects the blob path of every
// recognized manifest discarded for carrying other than exactly one
// compilation target.
func (e *Engine) CheckPaths(paths []string, unreadableSink, unusedSink, malformedSink *[]string) ([]*model.CheckedContract, error) {
	var blobs []model.PathBlob

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				if unreadableSink != nil {
					*unreadableSink = append(*unreadableSink, p)
				}
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if info.IsDir() {
			loaded, err := loadDir(p)
			if err != nil {
				return nil, err
			}
			blobs = append(blobs, loaded...)
			continue
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		blobs = append(blobs, model.PathBlob{Path: p, Content: content})
	}

	return e.CheckFiles(blobs, unusedSink, malformedSink)
}

func loadDir(root string) ([]model.PathBlob, error) {
	var blobs []model.PathBlob
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		blobs = append(blobs, model.PathBlob{Path: p, Content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return blobs, nil
}

// CheckFiles is the core Validation Engine operation: expand archives,
// recognize manifests, index candidate sources by hash, and reconcile
// every manifest against the index. Fails if zero manifests are
// recognized, or if every recognized manifest was discarded for carrying
// other than exactly one compilation target. malformedSink, if non-nil,
// collects the blob path of every manifest discarded for that reason, even
// when every manifest is discarded and an error is returned.
func (e *Engine) CheckFiles(blobs []model.PathBlob, unusedSink, malformedSink *[]string) ([]*model.CheckedContract, error) {
	expanded, err := archive.Expand(blobs)
	if err != nil {
		return nil, err
	}

	var (
		manifests     []*model.Manifest
		candidates    []candidateSource
		malformed     []string
		recognizedAny bool
	)

	for _, blob := range expanded {
		if sources, harvested, ok := metadata.HarvestBuildInfo(blob.Path, blob.Content); ok {
			for _, s := range sources {
				candidates = append(candidates, candidateSource{path: s.Path, content: s.Content})
			}
			for _, m := range harvested {
				recognizedAny = true
				if err := metadata.EnforceSingleTarget(m); err != nil {
					malformed = append(malformed, blob.Path)
					obs.ManifestsRecognized.WithLabelValues("malformed").Inc()
					continue
				}
				manifests = append(manifests, m)
				obs.ManifestsRecognized.WithLabelValues("kept").Inc()
			}
			continue
		}

		if m, ok := metadata.Recognize(blob.Content); ok {
			recognizedAny = true
			if err := metadata.EnforceSingleTarget(m); err != nil {
				malformed = append(malformed, blob.Path)
				obs.ManifestsRecognized.WithLabelValues("malformed").Inc()
				continue
			}
			manifests = append(manifests, m)
			obs.ManifestsRecognized.WithLabelValues("kept").Inc()
			continue
		}

		candidates = append(candidates, candidateSource{path: blob.Path, content: string(blob.Content)})
	}

	if malformedSink != nil {
		*malformedSink = append(*malformedSink, malformed...)
	}

	if !recognizedAny {
		return nil, ErrNoManifestsFound
	}
	if len(manifests) == 0 {
		return nil, ErrAllManifestsMalformed
	}

	index := buildHashIndex(candidates)

	consumedPaths := make(map[string]struct{})
	contracts := make([]*model.CheckedContract, 0, len(manifests))
	var diagnostics []string

	for _, m := range manifests {
		contract, consumed := reconcile(m, index)
		for _, p := range consumed {
			consumedPaths[p] = struct{}{}
		}
		contracts = append(contracts, contract)

		if contract.Valid() {
			obs.ContractsChecked.WithLabelValues("true").Inc()
		} else {
			obs.ContractsChecked.WithLabelValues("false").Inc()
			diagnostics = append(diagnostics, fmt.Sprintf(
				"%s: %d missing, %d invalid",
				m.CompilationTargetPath(), len(contract.Missing), len(contract.Invalid),
			))
		}
	}

	if len(diagnostics) > 0 {
		e.logger.Warn("checked contracts with unresolved sources", zap.String("diagnostics", strings.Join(diagnostics, "; ")))
	}

	if unusedSink != nil {
		for _, c := range candidates {
			if _, used := consumedPaths[c.path]; !used {
				*unusedSink = append(*unusedSink, c.path)
			}
		}
	}

	return contracts, nil
}

// UseAllSources returns a new CheckedContract whose source map is the
// union of every supplied blob and the original contract's hash-verified
// sources. On key collision the originally verified content wins.
func (e *Engine) UseAllSources(contract *model.CheckedContract, blobs []model.PathBlob) *model.CheckedContract {
	merged := model.NewCheckedContract(contract.Manifest)
	for k, v := range contract.Found {
		merged.Found[k] = v
	}
	for k, v := range contract.Missing {
		merged.Missing[k] = v
	}
	for k, v := range contract.Invalid {
		merged.Invalid[k] = v
	}

	merged.ExtraSources = make(map[string]string, len(blobs))
	for _, b := range blobs {
		if _, verified := isVerifiedPath(contract, b.Path); verified {
			continue
		}
		merged.ExtraSources[b.Path] = string(b.Content)
	}

	return merged
}

func isVerifiedPath(contract *model.CheckedContract, path string) (model.FoundSource, bool) {
	for _, f := range contract.Found {
		if f.ProvidedPath == path {
			return f, true
		}
	}
	return model.FoundSource{}, false
}
