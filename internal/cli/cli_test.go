package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgindex/internal/types"
	"pkgindex/tests/testutil"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"index", "show", "installed"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootCommandPersistentFlags(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"config", "log-level", "repo", "stale-after-days", "workers", "read-preferences"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag: %s", name)
	}
}

func TestInstalledCommandFlags(t *testing.T) {
	cmd := newInstalledCommand()
	assert.NotNil(t, cmd.Flags().Lookup("dump"))
	assert.NotNil(t, cmd.Flags().Lookup("output"))
}

// ---------- Repository entry tests ----------

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected types.Repository
	}{
		{
			name:     "full entry",
			value:    "hackage | remote | /var/cache/hackage/00-index.tar",
			expected: types.Repository{Name: "hackage", Kind: types.RepoKindRemote, IndexPath: "/var/cache/hackage/00-index.tar"},
		},
		{
			name:     "kind is case insensitive",
			value:    "mirror|LOCAL|/srv/mirror/00-index.tar",
			expected: types.Repository{Name: "mirror", Kind: types.RepoKindLocal, IndexPath: "/srv/mirror/00-index.tar"},
		},
		{
			name:     "name and path",
			value:    "hackage|/cache/00-index.tar",
			expected: types.Repository{Name: "hackage", Kind: types.RepoKindRemote, IndexPath: "/cache/00-index.tar"},
		},
		{
			name:     "bare path",
			value:    "/srv/local-repo/00-index.tar",
			expected: types.Repository{Name: "local-repo", Kind: types.RepoKindLocal, IndexPath: "/srv/local-repo/00-index.tar"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRepository(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseRepositoryInvalid(t *testing.T) {
	for _, value := range []string{"", "hackage|", "a|ftp|/x", "a|remote|", "a|b|c|d"} {
		t.Run(value, func(t *testing.T) {
			_, err := parseRepository(value)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestResolveInt(t *testing.T) {
	got := resolveInt(nil, 42, "test_key", "test-flag")
	assert.Equal(t, 42, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "unparsable description",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("unparsable package description: foo/1.0/foo.cabal"),
			expected: 3,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("package not found: foo"),
			expected: 4,
		},
		{
			name: "internal",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read index archive"),
			expected: 5,
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeForError(tt.err))
		})
	}
}

// ---------- Command execution tests ----------

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func sampleIndex(t *testing.T) string {
	t.Helper()
	return testutil.WriteIndexFile(t, t.TempDir(), "hackage", []testutil.TarEntry{
		{Path: "foo/1.0/foo.cabal", Content: testutil.CabalFile("foo", "1.0")},
		{Path: "foo/1.5/foo.cabal", Content: testutil.CabalFile("foo", "1.5")},
		{Path: "foo/2.0/foo.cabal", Content: testutil.CabalFile("foo", "2.0")},
		{Path: "bar/0.1/bar.cabal", Content: testutil.CabalFile("bar", "0.1")},
		{Path: "preferred-versions", Content: "foo <2\n"},
	})
}

func TestIndexCommand(t *testing.T) {
	path := sampleIndex(t)
	output := filepath.Join(t.TempDir(), "summary.yaml")

	out, err := runRoot(t, "index", "--repo", "hackage|"+path, "--read-preferences", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "hackage (remote): 4 packages")
	assert.Contains(t, out, "total: 4 packages, 2 names, 1 preferences")
	assert.FileExists(t, output)
}

func TestIndexCommandFromConfig(t *testing.T) {
	path := sampleIndex(t)
	configPath := filepath.Join(t.TempDir(), "pkgindex.yaml")
	config := "repositories:\n  - name: mirror\n    kind: local\n    path: " + path + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	out, err := runRoot(t, "index", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "mirror (local): 4 packages")
	assert.Contains(t, out, "0 preferences")
}

func TestIndexCommandMissingRepository(t *testing.T) {
	out, err := runRoot(t, "index", "--repo", "hackage|"+filepath.Join(t.TempDir(), "00-index.tar"))
	require.NoError(t, err)
	assert.Contains(t, out, "hackage (remote): missing")
}

func TestShowCommand(t *testing.T) {
	path := sampleIndex(t)

	out, err := runRoot(t, "show", "foo", "--repo", "hackage|"+path, "--read-preferences")
	require.NoError(t, err)
	assert.Contains(t, out, "* 1.5  (hackage)")
	assert.Contains(t, out, "  2.0  (hackage)")
	assert.Contains(t, out, "preferred: <2")

	_, err = runRoot(t, "show", "missing", "--repo", "hackage|"+path)
	require.Error(t, err)
	assert.Equal(t, 4, exitCodeForError(err))
}

func TestInstalledCommand(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "user.dump")
	content := "name: app\nversion: 0.1\nid: app-0.1-xyz\ndepends: gone-1.0\n"
	require.NoError(t, os.WriteFile(dump, []byte(content), 0o644))

	out, err := runRoot(t, "installed", "--dump", "user="+dump)
	require.NoError(t, err)
	assert.Contains(t, out, "installed: 1 packages, 1 broken dependencies")
	assert.Contains(t, out, "app-0.1 depends on missing gone-1.0")

	_, err = runRoot(t, "installed", "--dump", "nodelimiter")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
