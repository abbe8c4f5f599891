// Package execconfig validates and holds the execute loop's tunables: how
// many times to retry a version conflict, and the back-off bounds.
package execconfig

import (
	"eventcore/execerr"
	"eventcore/retry"
)

const (
	minRetries  = 1
	maxRetries  = 10
	minDelayMs  = 50
	maxDelayCap = 5000

	defaultMaxRetries = 3
	defaultBaseDelay  = 100
	defaultMaxDelay   = 30_000
)

// Config is an immutable, validated bundle of execute-loop parameters.
// Build it through Builder rather than a struct literal so every field is
// checked against spec.md §3 invariant 5 before use.
type Config struct {
	maxRetries uint32
	delay      *retry.DelayPolicy
}

// MaxRetries is the number of retries allowed after the initial attempt;
// total attempts permitted is MaxRetries()+1.
func (c Config) MaxRetries() uint32 { return c.maxRetries }

// Delay returns the back-off policy to use between attempts.
func (c Config) Delay() *retry.DelayPolicy { return c.delay }

// Builder constructs a Config, validating each field as it is set.
type Builder struct {
	maxRetries uint32
	baseDelay  uint64
	maxDelay   uint64
}

// New starts a Builder pre-populated with the documented defaults
// (max_retries=3, base_delay_ms=100, max_delay_ms=30000).
func New() *Builder {
	return &Builder{
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
}

// WithMaxRetries sets the retry budget. Must be in [1,10].
func (b *Builder) WithMaxRetries(n uint32) *Builder {
	b.maxRetries = n
	return b
}

// WithBaseDelayMs sets the back-off base delay, in milliseconds. Must be
// in [50,5000].
func (b *Builder) WithBaseDelayMs(ms uint64) *Builder {
	b.baseDelay = ms
	return b
}

// WithMaxDelayMs sets the back-off cap, in milliseconds. Must be >= the
// base delay.
func (b *Builder) WithMaxDelayMs(ms uint64) *Builder {
	b.maxDelay = ms
	return b
}

// Build validates the accumulated fields and returns a Config, or an
// execerr.Error of Kind execerr.KindInvalidConfig naming the offending
// parameter.
func (b *Builder) Build() (Config, error) {
	if b.maxRetries < minRetries {
		return Config{}, execerr.InvalidConfig("max_retries cannot be 0", "max_retries")
	}
	if b.maxRetries > maxRetries {
		return Config{}, execerr.InvalidConfig("max_retries cannot exceed 10", "max_retries")
	}
	if b.baseDelay < minDelayMs {
		return Config{}, execerr.InvalidConfig("base_delay_ms must be at least 50ms", "base_delay_ms")
	}
	if b.baseDelay > maxDelayCap {
		return Config{}, execerr.InvalidConfig("base_delay_ms cannot exceed 5000ms", "base_delay_ms")
	}
	if b.maxDelay < b.baseDelay {
		return Config{}, execerr.InvalidConfig("max_delay_ms cannot be less than base_delay_ms", "max_delay_ms")
	}

	return Config{
		maxRetries: b.maxRetries,
		delay:      retry.NewDelayPolicy(b.baseDelay, b.maxDelay),
	}, nil
}

// Default returns the documented default configuration (3, 100, 30000),
// which always builds successfully.
func Default() Config {
	cfg, err := New().Build()
	if err != nil {
		panic("execconfig: default configuration failed to build: " + err.Error())
	}
	return cfg
}
