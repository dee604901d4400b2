package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/benv/pkg"
	"github.com/ardnew/benv/script"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path
	// to the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the default configuration file.
	ConfigIdentifier = "config"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// loadManifest reads and decodes the manifest at path, with "-" reading
// stdin. The returned name is the display form used in blame tokens.
func loadManifest(path string) (*script.Manifest, string, error) {
	var (
		reader io.ReadCloser
		name   string
	)

	if path == stdinSource {
		reader = os.Stdin
		name = "<stdin>"
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, "", pkg.ErrReadInput.Wrap(err)
		}

		reader = file
		name = filepath.Base(path)
	}

	defer func() {
		if reader != os.Stdin {
			reader.Close()
		}
	}()

	m, err := script.Load(reader)
	if err != nil {
		return nil, name, pkg.ErrManifest.Wrap(err)
	}

	return m, name, nil
}

// cacheDirFrom returns the runtime cache directory recorded in the kong
// parse context, or "." when unavailable.
func cacheDirFrom(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "."
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || dir == "" {
		return "."
	}

	return dir
}
