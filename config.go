package stm

import "github.com/rs/zerolog"

// defaultNumStripes is the default power-of-two hashed orec table size.
const defaultNumStripes = 1 << 20

// defaultSpinBudget bounds how many iterations (each one a scheduler yield)
// a single spinloop call may run, independent of the LCG-derived
// spinloopCounter which only picks how many of those iterations to spend.
const defaultSpinBudget = 1 << 16

// Config controls Runtime construction. The zero value is not valid; New
// builds one from its defaults and the given Options.
type Config struct {
	numStripes int
	spinBudget int
	clockStart uint64
	logger     zerolog.Logger
}

// Option mutates a Config during Runtime construction.
type Option func(*Config)

// WithStripes overrides NUM_STRIPES. n is rounded up to the next power of
// two. Small values are useful in tests that want to force orec aliasing
// deliberately.
func WithStripes(n int) Option {
	return func(c *Config) {
		if n <= 0 {
			return
		}
		c.numStripes = nextPowerOfTwo(n)
	}
}

// WithSpinBudget overrides the maximum pause iterations per spinloop call.
func WithSpinBudget(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.spinBudget = n
		}
	}
}

// WithLogger attaches a structured logger. Abort events, commits, and a
// transaction becoming inevitable are each logged at debug level with
// thread-id and clock fields. The zero value (no call to WithLogger)
// leaves logging disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

func newConfig(opts ...Option) Config {
	c := Config{
		numStripes: defaultNumStripes,
		spinBudget: defaultSpinBudget,
		clockStart: 2,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
