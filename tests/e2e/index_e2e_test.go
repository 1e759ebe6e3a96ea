package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pkgindex/internal/types"
	"pkgindex/tests/testutil"
)

func TestIndexCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	workDir := t.TempDir()
	indexPath := testutil.WriteIndexFile(t, workDir, "hackage", []testutil.TarEntry{
		{Path: "foo/1.0/foo.cabal", Content: testutil.CabalFile("foo", "1.0")},
		{Path: "foo/1.1/foo.cabal", Content: testutil.CabalFile("foo", "1.1")},
		{Path: "preferred-versions", Content: "foo <1.1\n"},
	})
	output := filepath.Join(workDir, "out", "summary.yaml")

	cmd := exec.Command("go", "run", "./cmd/pkgindex", "index",
		"--repo", "hackage|remote|"+indexPath,
		"--repo", "mirror|"+filepath.Join(workDir, "mirror", "00-index.tar"),
		"--read-preferences",
		"--output", output,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, output)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var summary types.IndexSummary
	require.NoError(t, yaml.Unmarshal(data, &summary))
	require.Equal(t, []string{"1.0", "1.1"}, summary.Packages["foo"])
	require.Equal(t, "<1.1", summary.Preferences["foo"])
	require.Len(t, summary.Warnings, 1)
	require.Equal(t, types.WarningMissingIndex, summary.Warnings[0].Kind)
}

func TestInstalledCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	workDir := t.TempDir()
	dump := filepath.Join(workDir, "global.dump")
	require.NoError(t, os.WriteFile(dump, []byte("name: base\nversion: 4.18\nid: base-4.18\ndepends: rts\n"), 0o644))
	output := filepath.Join(workDir, "installed.yaml")

	cmd := exec.Command("go", "run", "./cmd/pkgindex", "installed",
		"--dump", "global="+dump,
		"--output", output,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.FileExists(t, output)
}
