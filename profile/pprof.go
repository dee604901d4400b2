//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// profiles maps the mode flag values accepted by the CLI to their
// pkg/profile selectors.
var profiles = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the sorted mode flag values available in this build.
var Modes = sync.OnceValue(func() []string {
	return slices.Sorted(maps.Keys(profiles))
})

func start(mode, path string, quiet bool) interface{ Stop() } {
	sel, ok := profiles[mode]
	if !ok {
		return ignore{}
	}

	opts := []func(*profile.Profile){sel}

	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}

	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
