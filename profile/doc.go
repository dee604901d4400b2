// Package profile provides optional runtime profiling for the benv
// application.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag.
// Without the tag nothing in this package is compiled into the binary:
// the only importer is the build-tagged CLI wiring, and all profiling
// flags disappear from the command surface.
//
// Profile files are written to the configured directory with names
// matching the profiling mode (cpu.pprof, heap.pprof, and so on):
//
//	go tool pprof ./benv ./profiles/cpu.pprof
//
// Use [Modes] to retrieve the list of supported modes programmatically.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
