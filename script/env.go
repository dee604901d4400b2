package script

// This file defines the builtin environment available to all manifest
// expressions. Builtins can be shadowed by bindings of the same name.

import (
	"maps"
	"runtime"
	"sync"

	"github.com/ardnew/mung"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	envCacheOnce sync.Once
	envCache     map[string]any
)

// builtinEnv returns a clone of the lazily-initialized builtin environment.
// The returned map can be safely mutated by the caller without affecting
// the shared cache.
func builtinEnv() map[string]any {
	envCacheOnce.Do(func() {
		envCache = map[string]any{
			// Host platform, Go naming conventions.
			"platform": map[string]any{
				"os":   runtime.GOOS,
				"arch": runtime.GOARCH,
			},

			// Host platform, GNU GCC/LLVM naming conventions.
			"target": map[string]any{
				"os":   runtime.GOOS,
				"arch": targetArch(),
			},

			// PATH-like delimited-string manipulation via mung.
			"list": map[string]any{
				"prepend": listPrepend,
				"unique":  listUnique,
			},
		}
	})

	return maps.Clone(envCache)
}

// BuiltinNames returns the top-level names in the builtin environment,
// for completion and introspection.
func BuiltinNames() []string {
	env := builtinEnv()
	names := make([]string, 0, len(env))

	for k := range env {
		names = append(names, k)
	}

	return names
}

// targetArch maps the Go architecture name to GNU GCC/LLVM conventions.
func targetArch() string {
	switch arch := runtime.GOARCH; arch {
	case "386":
		return "i386"
	case "amd64":
		return "x86_64"
	case "arm64":
		if runtime.GOOS == "darwin" {
			return arch
		}

		return "aarch64"
	case "mipsle":
		return "mipsel"
	default:
		return arch
	}
}

// listPrepend prepends items to a delimited subject string.
func listPrepend(subject, delim string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(delim),
		mung.WithPrefixItems(items...),
	).String()
}

// listUnique removes duplicate items from a delimited subject string,
// keeping the first occurrence.
func listUnique(subject, delim string) string {
	seen := make(map[string]struct{})

	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(delim),
		mung.WithFilter(func(item string) bool {
			if _, ok := seen[item]; ok {
				return false
			}

			seen[item] = struct{}{}

			return true
		}),
	).String()
}
