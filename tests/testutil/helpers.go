// Package testutil provides shared test helpers used across e2e and unit
// test packages.
package testutil

import (
	"archive/tar"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// TarEntry is one member of a synthesised index archive. Entries with a
// trailing slash in Path are written as directories.
type TarEntry struct {
	Path    string
	Content string
}

// CabalFile returns a minimal well-formed package description.
func CabalFile(name string, version string) string {
	return fmt.Sprintf("name: %s\nversion: %s\nsynopsis: test package\n\nlibrary\n  build-depends: base\n", name, version)
}

// BuildArchive writes entries into a tar stream, gzipped when compress is
// set.
func BuildArchive(t *testing.T, entries []TarEntry, compress bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	modTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, entry := range entries {
		if len(entry.Path) > 0 && entry.Path[len(entry.Path)-1] == '/' {
			require.NoError(t, tw.WriteHeader(&tar.Header{
				Name:     entry.Path,
				Typeflag: tar.TypeDir,
				Mode:     0755,
				ModTime:  modTime,
			}))
			continue
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     entry.Path,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(len(entry.Content)),
			ModTime:  modTime,
		}))
		_, err := tw.Write([]byte(entry.Content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	if !compress {
		return buf.Bytes()
	}
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return gz.Bytes()
}

// WriteIndexFile writes an archive to dir/<name>/00-index.tar and returns
// its path.
func WriteIndexFile(t *testing.T, dir string, name string, entries []TarEntry) string {
	t.Helper()
	path := filepath.Join(dir, name, "00-index.tar")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, BuildArchive(t, entries, false), 0o644))
	return path
}
