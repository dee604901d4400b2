package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults from
// a YAML config file. Only the mapping under the given top-level key is
// consulted, so the file can carry unrelated sections.
//
// Flag names with hyphens (e.g., "log-level") may use underscores in the
// config file (e.g., "log_level"). Command-line flags override config file
// values.
//
// Example config file:
//
//	config:
//	  log_level: debug
//	  log_format: text
//	  log_pretty: true
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			// Unreadable config files fall back to flag defaults.
			return config{}, nil
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		return config(flattenValues(section)), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// The config was already decoded successfully.
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Try the underscore variant of a hyphenated flag name.
	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found: let Kong use defaults.
	return nil, nil
}

// flattenValues renders scalar config values as strings, which Kong
// requires for flag parsing. Non-scalar values pass through unchanged.
func flattenValues(section map[string]any) map[string]any {
	result := make(map[string]any, len(section))

	for key, value := range section {
		switch v := value.(type) {
		case int64, uint64, float64:
			result[key] = fmt.Sprint(v)
		default:
			result[key] = value
		}
	}

	return result
}
