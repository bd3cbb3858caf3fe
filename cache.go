package cstyle

import (
	"errors"
	"fmt"

	"github.com/gophersatwork/granular"
	"github.com/spf13/afero"
)

var (
	ErrEntryNotFound           = errors.New("entry not found")
	ErrReadingCachedViolations = errors.New("cached violations are invalid")
)

// CheckCache stores per-file check outcomes keyed by file content, so a
// clean unchanged file is skipped on the next run. Each check gets its own
// cache under the configured root since outcomes are check-specific.
type CheckCache struct {
	root   string
	fs     afero.Fs
	caches map[string]*granular.Cache
}

// NewCheckCache creates the incremental cache rooted at root
func NewCheckCache(root string, fs afero.Fs) (*CheckCache, error) {
	return &CheckCache{
		root:   root,
		fs:     fs,
		caches: make(map[string]*granular.Cache),
	}, nil
}

func (c *CheckCache) cacheFor(checkName string) (*granular.Cache, error) {
	if cache, ok := c.caches[checkName]; ok {
		return cache, nil
	}

	opts := []granular.Option{}
	if c.fs != nil {
		opts = append(opts, granular.WithFs(c.fs))
	}

	cache, err := granular.New(JoinPaths(c.root, checkName), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create granular cache: %w", err)
	}

	c.caches[checkName] = cache
	return cache, nil
}

func (c *CheckCache) key(path string) granular.Key {
	return granular.Key{
		Inputs: []granular.Input{granular.FileInput{
			Path: NormalizePath(path),
			Fs:   c.fs,
		}},
	}
}

// AddFile records a clean outcome for a file
func (c *CheckCache) AddFile(checkName, path string) error {
	cache, err := c.cacheFor(checkName)
	if err != nil {
		return err
	}
	return cache.Store(c.key(path), granular.Result{})
}

// AddFileWithViolations records the unresolved violations of a file
func (c *CheckCache) AddFileWithViolations(checkName, path string, violations []Violation) error {
	cache, err := c.cacheFor(checkName)
	if err != nil {
		return err
	}

	data, err := marshalViolations(Violations{Violations: violations})
	if err != nil {
		return fmt.Errorf("failed to encode violations: %w", err)
	}

	res := granular.Result{
		Metadata: map[string]string{
			"violations": string(data),
		},
	}

	if err := cache.Store(c.key(path), res); err != nil {
		return fmt.Errorf("failed to store in cache: %w", err)
	}
	return nil
}

// HasEntry returns the cached outcome for a file, if its content is
// unchanged since the entry was stored.
func (c *CheckCache) HasEntry(checkName, path string) (Violations, error) {
	cache, err := c.cacheFor(checkName)
	if err != nil {
		return Violations{}, err
	}

	result, found, _ := cache.Get(c.key(path))
	if !found {
		return Violations{}, ErrEntryNotFound
	}

	encoded, ok := result.Metadata["violations"]
	if !ok {
		return Violations{}, nil
	}

	violations, err := unmarshalViolations([]byte(encoded))
	if err != nil {
		return Violations{}, fmt.Errorf("%w: %v", ErrReadingCachedViolations, err)
	}

	for i := range violations.Violations {
		violations.Violations[i].Cached = true
	}

	return violations, nil
}
