//go:build pprof

package profile

// Config carries the three profiler parameters as a closure so the CLI can
// thread them through kong without this package importing flag types.
type Config func() (mode, path string, quiet bool)

// Start begins profiling and returns the handle to stop it. An empty or
// unrecognized mode returns a no-op handle, so Stop is always safe to call.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// WithMode sets the profiling mode; see [Modes] for accepted values.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithPath sets the directory profile files are written to.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithQuiet suppresses pkg/profile's own stdout chatter.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

type ignore struct{}

func (ignore) Stop() {}
