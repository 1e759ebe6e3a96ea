package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pkgindex/internal/types"
)

func TestIndexSummaryWriterAdapter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summary.yaml")
	summary := types.IndexSummary{
		Repositories: []types.RepositorySummary{{Name: "hackage", Kind: types.RepoKindRemote, Path: "/x/00-index.tar", Packages: 2}},
		Packages:     map[string][]string{"foo": {"1.0", "1.1"}},
		Preferences:  map[string]string{"foo": "<2"},
	}
	require.NoError(t, NewIndexSummaryWriterAdapter().Write(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded types.IndexSummary
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, summary.Packages, decoded.Packages)
	assert.Equal(t, summary.Preferences, decoded.Preferences)
	require.Len(t, decoded.Repositories, 1)
	assert.Equal(t, "hackage", decoded.Repositories[0].Name)
}

func TestInstalledReportWriterAdapter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.yaml")
	report := types.InstalledReport{
		Broken: []types.BrokenEdge{{Package: "app-0.1", Missing: "gone-1.0"}},
	}
	require.NoError(t, NewInstalledReportWriterAdapter().Write(path, report))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gone-1.0")
}

func TestWriteYAMLRequiresPath(t *testing.T) {
	err := NewIndexSummaryWriterAdapter().Write("  ", types.IndexSummary{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
