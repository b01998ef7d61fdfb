package phpsandbox

import (
	"github.com/risor-io/phpsandbox/metrics"
	"github.com/risor-io/phpsandbox/policy"
	"github.com/rs/zerolog"
)

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithPolicy sets the policy template. Each call to Sanitize works on a
// clone of it, so functions declared by one program are not visible to the
// next.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Sanitizer) {
		s.policy = p
		s.shared = false
	}
}

// WithSharedPolicy sets a policy that every call mutates in place. Functions
// declared by one program stay allowed for the programs sanitized after it.
func WithSharedPolicy(p *policy.Policy) Option {
	return func(s *Sanitizer) {
		s.policy = p
		s.shared = true
	}
}

// WithConfig builds the policy template from cfg.
func WithConfig(cfg policy.Config) Option {
	return func(s *Sanitizer) {
		s.policy = policy.NewFromConfig(cfg)
		s.shared = false
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sanitizer) {
		s.logger = logger
	}
}

// WithMetrics records sanitizations with the given collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Sanitizer) {
		s.metrics = c
	}
}

// WithFilename sets the filename reported in parse errors and violations.
func WithFilename(filename string) Option {
	return func(s *Sanitizer) {
		s.filename = filename
	}
}

// WithMaxDepth limits the nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(s *Sanitizer) {
		s.maxDepth = depth
	}
}
