// Package phpsandbox sanitizes untrusted PHP source before it is handed to a
// trusted PHP interpreter.
//
// Source is parsed, walked under a policy that allow-lists the functions
// and classes the code may use, and printed back out. The result is either
// the rewritten source or the first violation found; the untrusted code is
// never run by this package.
//
//	out, err := phpsandbox.Sanitize(ctx, `<?php return strlen("abc");`)
//
// Use a Sanitizer to share configuration between calls:
//
//	s := phpsandbox.New(phpsandbox.WithConfig(policy.Config{
//		RequiredNamespaceRoot: "App",
//	}))
//	out, err := s.Sanitize(ctx, source)
package phpsandbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/emitter"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/metrics"
	"github.com/risor-io/phpsandbox/parser"
	"github.com/risor-io/phpsandbox/policy"
	"github.com/rs/zerolog"
)

// ErrNoTokens is the message of the ParseFailure returned for empty input.
const ErrNoTokens = "Found no tokens"

// Sanitizer parses and emits PHP source under a policy. It is safe for
// concurrent use: each call works on its own copy of the policy, unless the
// policy was supplied with WithSharedPolicy, in which case calls are
// serialized.
type Sanitizer struct {
	policy   *policy.Policy
	shared   bool
	mu       sync.Mutex
	logger   zerolog.Logger
	metrics  *metrics.Collector
	filename string
	maxDepth int
}

// New returns a Sanitizer. Without a policy option it enforces the default
// catalogue.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.policy == nil {
		s.policy = policy.New()
	}
	return s
}

// Sanitize parses source under a fresh sanitizer built from opts.
func Sanitize(ctx context.Context, source string, opts ...Option) (string, error) {
	return New(opts...).Sanitize(ctx, source)
}

// Policy returns the configured policy. Unless it is shared, this is the
// template each call clones, and changes to it affect later calls.
func (s *Sanitizer) Policy() *policy.Policy {
	return s.policy
}

// Parse parses source without enforcing any policy. Syntax errors and
// empty input are returned as *errz.ParseFailure.
func (s *Sanitizer) Parse(ctx context.Context, source string) (*ast.Program, error) {
	var opts []parser.Option
	if s.filename != "" {
		opts = append(opts, parser.WithFilename(s.filename))
	}
	if s.maxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(s.maxDepth))
	}
	program, err := parser.Parse(ctx, source, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errz.NewParseFailure(err)
	}
	if program.Tokens == 0 {
		return nil, &errz.ParseFailure{Message: ErrNoTokens}
	}
	return program, nil
}

// Sanitize returns the policy-compliant rewrite of source. It fails with
// a *errz.ParseFailure when source does not parse and with the first
// *errz.PolicyViolation when it breaks the policy. No partial output is
// returned with an error.
func (s *Sanitizer) Sanitize(ctx context.Context, source string) (string, error) {
	start := time.Now()
	out, err := s.sanitize(ctx, source)
	s.metrics.RecordSanitize(time.Since(start), err)
	s.logResult(start, err)
	return out, err
}

// Check reports whether source passes the policy, discarding the rewrite.
func (s *Sanitizer) Check(ctx context.Context, source string) error {
	_, err := s.Sanitize(ctx, source)
	return err
}

func (s *Sanitizer) sanitize(ctx context.Context, source string) (string, error) {
	program, err := s.Parse(ctx, source)
	if err != nil {
		return "", err
	}
	p := s.policy
	if s.shared {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		p = p.Clone()
	}
	return emitter.Emit(ctx, program, p, &emitter.Config{
		Filename: s.filename,
		Source:   source,
		Logger:   &s.logger,
	})
}

func (s *Sanitizer) logResult(start time.Time, err error) {
	event := s.logger.Debug()
	if err != nil {
		event = s.logger.Info().Err(err)
		if v, ok := errz.AsViolation(err); ok {
			event = event.Str("kind", v.Kind.String()).Int("line", v.Position.LineNumber())
		}
	}
	if s.filename != "" {
		event = event.Str("path", s.filename)
	}
	event.
		Str("result", metrics.Result(err)).
		Dur("elapsed", time.Since(start)).
		Msg("sanitize")
}
