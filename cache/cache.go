// Package cache stores sanitized programs on disk and runs them.
//
// A Runtime is bound to a caller-supplied token. Every Run sanitizes the
// source, writes the result to a file derived from the token when the file
// is missing or its content differs, and hands the file to an Executor
// together with the variables set on the runtime.
//
// Writes go through a temporary file and a rename, so a concurrent reader
// never sees a partially written unit. There is no locking: concurrent runs
// of different source under the same token race, and the last writer wins.
package cache

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/risor-io/phpsandbox"
	"github.com/risor-io/phpsandbox/metrics"
	"github.com/rs/zerolog"
)

// Sanitizer turns untrusted source into the text that gets stored.
type Sanitizer interface {
	Sanitize(ctx context.Context, source string) (string, error)
}

// Executor runs a stored unit with the given variables in scope and
// returns the value the unit produces.
type Executor interface {
	Execute(ctx context.Context, path string, vars map[string]any) (any, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, path string, vars map[string]any) (any, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, path string, vars map[string]any) (any, error) {
	return f(ctx, path, vars)
}

// Stats counts how stored units were produced.
type Stats struct {
	// Writes is the number of times a unit was written to disk.
	Writes int64
	// Hits is the number of runs that reused the stored unit as is.
	Hits int64
}

// Runtime runs sanitized programs cached under one token.
type Runtime struct {
	token     string
	dir       string
	path      string
	sanitizer Sanitizer
	executor  Executor
	logger    zerolog.Logger
	metrics   *metrics.Collector

	mu   sync.Mutex
	vars map[string]any

	writes atomic.Int64
	hits   atomic.Int64
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithDir sets the directory holding cached units. A leading "~" is
// expanded to the home directory. Defaults to os.TempDir().
func WithDir(dir string) Option {
	return func(r *Runtime) {
		r.dir = dir
	}
}

// WithSanitizer sets the sanitizer. Defaults to phpsandbox.New().
func WithSanitizer(s Sanitizer) Option {
	return func(r *Runtime) {
		r.sanitizer = s
	}
}

// WithExecutor sets the executor. Defaults to a PHPExecutor using the
// "php" binary on PATH.
func WithExecutor(e Executor) Option {
	return func(r *Runtime) {
		r.executor = e
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithMetrics records cache writes and hits with the given collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runtime) {
		r.metrics = c
	}
}

// New returns a Runtime for token.
func New(token string, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		token:  token,
		logger: zerolog.Nop(),
		vars:   map[string]any{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dir == "" {
		r.dir = os.TempDir()
	}
	dir, err := homedir.Expand(r.dir)
	if err != nil {
		return nil, fmt.Errorf("cache: expanding %q: %w", r.dir, err)
	}
	r.dir = dir
	if r.sanitizer == nil {
		r.sanitizer = phpsandbox.New()
	}
	if r.executor == nil {
		r.executor = &PHPExecutor{}
	}
	r.path = filepath.Join(r.dir, FileName(token))
	return r, nil
}

// FileName returns the name of the file a token's unit is stored in:
// "runtime_" followed by the first eight hex digits of the token's MD5.
func FileName(token string) string {
	sum := md5.Sum([]byte(token))
	return "runtime_" + hex.EncodeToString(sum[:])[:8] + ".php"
}

// Path returns the path of the stored unit.
func (r *Runtime) Path() string {
	return r.path
}

// Set adds a variable to the scope the unit runs in.
func (r *Runtime) Set(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vars[name] = value
}

// Stats returns the write and hit counts of this runtime.
func (r *Runtime) Stats() Stats {
	return Stats{Writes: r.writes.Load(), Hits: r.hits.Load()}
}

// Run sanitizes source, stores it if needed and executes the stored unit.
// Parse failures and policy violations are returned unchanged and leave
// the stored unit untouched.
func (r *Runtime) Run(ctx context.Context, source string) (any, error) {
	text, err := r.sanitizer.Sanitize(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := r.store(text); err != nil {
		return nil, err
	}
	r.mu.Lock()
	vars := maps.Clone(r.vars)
	r.mu.Unlock()
	return r.executor.Execute(ctx, r.path, vars)
}

// store writes text to the unit's file unless the file already holds it.
func (r *Runtime) store(text string) error {
	log := r.logger.With().Str("token", r.token).Str("path", r.path).Logger()

	existing, err := os.ReadFile(r.path)
	switch {
	case err == nil:
		if sha256.Sum256(existing) == sha256.Sum256([]byte(text)) {
			r.hits.Add(1)
			r.metrics.RecordCacheHit()
			log.Debug().Msg("cache hit")
			return nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return &StoreError{Path: r.path, Err: err}
	}

	if err := writeFile(r.path, []byte(text)); err != nil {
		return &StoreError{Path: r.path, Err: err}
	}
	r.writes.Add(1)
	r.metrics.RecordCacheWrite()
	log.Debug().Int("bytes", len(text)).Msg("cache write")
	return nil
}

// writeFile replaces path with data through a uniquely named temporary
// file in the same directory.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+id.String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
