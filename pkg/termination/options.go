package termination

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrRelaxationLimit is wrapped by the LIMIT_EXCEEDED error returned when a
// run performs more relaxations than allowed by [WithMaxRelaxations].
var ErrRelaxationLimit = errors.New("relaxation limit exceeded")

// SinkPolicy decides how seed detection treats nodes without successors,
// whose successor minimum is undefined.
type SinkPolicy int

const (
	// SinkSeed treats sinks as seeds: nothing can improve on stopping there.
	SinkSeed SinkPolicy = iota
	// SinkSkip excludes sinks from the seed set. They stay Far unless they
	// are not sinks after all.
	SinkSkip
	// SinkError fails seed detection with an UNDEFINED_MINIMUM error.
	SinkError
)

// String returns the policy name as accepted by [ParseSinkPolicy].
func (p SinkPolicy) String() string {
	switch p {
	case SinkSeed:
		return "seed"
	case SinkSkip:
		return "skip"
	case SinkError:
		return "error"
	default:
		return fmt.Sprintf("sinkpolicy(%d)", int(p))
	}
}

// ParseSinkPolicy parses "seed", "skip" or "error". The empty string maps to
// [SinkSeed].
func ParseSinkPolicy(s string) (SinkPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "seed":
		return SinkSeed, nil
	case "skip":
		return SinkSkip, nil
	case "error":
		return SinkError, nil
	}
	return 0, fmt.Errorf("unknown sink policy %q (want seed, skip or error)", s)
}

type config struct {
	maxRelaxations int
	sinks          SinkPolicy
	logger         *log.Logger
}

// Option configures a solver run.
type Option func(*config)

// WithMaxRelaxations bounds the number of predecessor relaxations. A run
// that needs more than n relaxations fails before performing relaxation
// n+1, so Stats.Relaxations never exceeds n. Zero or negative means
// unbounded.
func WithMaxRelaxations(n int) Option {
	return func(c *config) { c.maxRelaxations = n }
}

// WithSinkPolicy sets how nodes without successors are seeded.
func WithSinkPolicy(p SinkPolicy) Option {
	return func(c *config) { c.sinks = p }
}

// WithLogger sets the logger used for debug output. A nil logger disables
// logging.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	c := config{sinks: SinkSeed}
	for _, o := range opts {
		o(&c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}
