package adapters

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgindex/internal/ports"
	"pkgindex/tests/testutil"
)

func drain(t *testing.T, stream ports.ArchiveEntryStream) ([]ports.ArchiveEntry, error) {
	t.Helper()
	var entries []ports.ArchiveEntry
	for {
		entry, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
}

func TestTarArchiveAdapter_Open(t *testing.T) {
	members := []testutil.TarEntry{
		{Path: "foo/"},
		{Path: "foo/1.0/foo.cabal", Content: testutil.CabalFile("foo", "1.0")},
		{Path: "preferred-versions", Content: "foo <2\n"},
	}

	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "gzip"
		}
		t.Run(name, func(t *testing.T) {
			stream, err := NewTarArchiveAdapter().Open(testutil.BuildArchive(t, members, compress))
			require.NoError(t, err)
			entries, err := drain(t, stream)
			require.NoError(t, err)
			require.Len(t, entries, 3)

			assert.Equal(t, ports.EntryKindDirectory, entries[0].Kind)
			assert.Empty(t, entries[0].Content)
			assert.Equal(t, ports.EntryKindFile, entries[1].Kind)
			assert.Equal(t, "foo/1.0/foo.cabal", entries[1].Path)
			assert.Equal(t, testutil.CabalFile("foo", "1.0"), string(entries[1].Content))
			assert.Equal(t, "preferred-versions", entries[2].Path)
		})
	}
}

func TestTarArchiveAdapter_EmptyArchive(t *testing.T) {
	stream, err := NewTarArchiveAdapter().Open(testutil.BuildArchive(t, nil, false))
	require.NoError(t, err)
	entries, err := drain(t, stream)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTarArchiveAdapter_Corrupt(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		data := testutil.BuildArchive(t, []testutil.TarEntry{
			{Path: "foo/1.0/foo.cabal", Content: testutil.CabalFile("foo", "1.0")},
		}, false)
		stream, err := NewTarArchiveAdapter().Open(data[:520])
		require.NoError(t, err)
		_, err = drain(t, stream)
		require.Error(t, err)

		_, again := stream.Next()
		assert.Equal(t, err, again)
	})

	t.Run("garbage", func(t *testing.T) {
		garbage := make([]byte, 1024)
		for i := range garbage {
			garbage[i] = byte('a' + i%26)
		}
		stream, err := NewTarArchiveAdapter().Open(garbage)
		require.NoError(t, err)
		_, err = drain(t, stream)
		require.Error(t, err)
	})

	t.Run("bad gzip header", func(t *testing.T) {
		_, err := NewTarArchiveAdapter().Open([]byte{0x1f, 0x8b, 0x00})
		require.Error(t, err)
	})
}
