// Package fetch implements the Source Fetcher: given a SourceAddress,
// resolve its manifest and every referenced source concurrently, then
// deliver a CheckedContract via callback.
package fetch

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/sourceverify/sourceverify/internal/hashkernel"
	"github.com/sourceverify/sourceverify/internal/metadata"
	"github.com/sourceverify/sourceverify/internal/model"
	"github.com/sourceverify/sourceverify/internal/transport"
)

// errNoURLs is returned when a manifest source carries no inline content
// and no resolution URLs to try.
var errNoURLs = errors.New("fetch: source has no resolution urls")

// Callback receives the assembled checked contract once every source fetch
// for a SourceAddress has resolved (or failed).
type Callback func(contract *model.CheckedContract)

// Fetcher asynchronously resolves a SourceAddress to a CheckedContract. It
// is a process-wide singleton per supervisor instance (spec §5), shared
// across chain monitors.
type Fetcher struct {
	resolver transport.SourceResolver
	logger   *zap.Logger

	mu      sync.Mutex
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New builds a Fetcher bound to resolver. A nil logger is replaced with a
// no-op one.
func New(resolver transport.SourceResolver, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Fetcher{
		resolver: resolver,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Stop cancels all pending fetches. In-flight work drains without invoking
// callbacks.
func (f *Fetcher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.stopped = true
	f.cancel()
}

// Fetch resolves addr's manifest, then concurrently resolves every source
// the manifest declares, and delivers the assembled CheckedContract to cb.
// Partial fetch failures route the affected source to Missing rather than
// failing the whole operation; a source whose content does not hash to its
// declared keccak256 goes to Invalid.
func (f *Fetcher) Fetch(addr model.SourceAddress, cb Callback) {
	go f.run(addr, cb)
}

func (f *Fetcher) run(addr model.SourceAddress, cb Callback) {
	f.mu.Lock()
	stopped := f.stopped
	ctx := f.ctx
	f.mu.Unlock()
	if stopped {
		return
	}

	manifestBytes, err := f.resolver.Resolve(ctx, addr)
	if err != nil {
		f.logger.Warn("resolve manifest failed", zap.String("network", string(addr.Network)), zap.Error(err))
		return
	}
	if f.isStopped() {
		return
	}

	manifest, ok := metadata.Recognize(manifestBytes)
	if !ok {
		f.logger.Warn("fetched blob did not recognize as a manifest", zap.String("network", string(addr.Network)))
		return
	}
	if err := metadata.EnforceSingleTarget(manifest); err != nil {
		f.logger.Warn("fetched manifest malformed", zap.Error(err))
		return
	}

	contract := model.NewCheckedContract(manifest)

	type job struct {
		path string
		src  model.ManifestSource
	}
	type result struct {
		path    string
		content string
		hash    string
		err     error
	}

	jobs := make([]job, 0, len(manifest.Sources))
	for logicalPath, src := range manifest.Sources {
		jobs = append(jobs, job{path: logicalPath, src: src})
	}

	results, _ := iter.MapErr(jobs, func(j *job) (result, error) {
		if j.src.Content != "" {
			return result{path: j.path, content: j.src.Content, hash: j.src.Keccak256}, nil
		}
		content, err := f.resolveSource(ctx, j.src)
		return result{path: j.path, content: string(content), hash: j.src.Keccak256, err: err}, nil
	})
	if f.isStopped() {
		return
	}

	for _, r := range results {
		if r.err != nil {
			contract.Missing[r.path] = model.MissingSource{Keccak256: r.hash, URLs: manifest.Sources[r.path].URLs}
			continue
		}
		if computed := hashkernel.Keccak256(r.content); computed != r.hash {
			contract.Invalid[r.path] = model.InvalidSource{
				ExpectedHash:   r.hash,
				CalculatedHash: computed,
				Message:        "fetched content hash mismatch for " + r.path,
			}
			continue
		}
		contract.Found[r.path] = model.FoundSource{ProvidedPath: r.path, Content: r.content}
	}

	if f.isStopped() {
		return
	}
	cb(contract)
}

// resolveSource resolves a single manifest source by URL, trying each
// declared URL in order until one succeeds.
func (f *Fetcher) resolveSource(ctx context.Context, src model.ManifestSource) ([]byte, error) {
	var lastErr error
	for _, url := range src.URLs {
		content, err := f.resolver.ResolveURL(ctx, url)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errNoURLs
	}
	return nil, lastErr
}

func (f *Fetcher) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}
