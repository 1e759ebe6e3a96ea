package cli

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgindex/internal/app"
	"pkgindex/internal/shared"
	"pkgindex/internal/types"
)

type repoOptions struct {
	Repos           []string
	StaleAfterDays  int
	Workers         int
	ReadPreferences bool
}

func bindRepoFlags(cmd *cobra.Command, opts *repoOptions) {
	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&opts.Repos, "repo", nil, "Repository entry: name|kind|path, name|path or path (overrides config repositories)")
	flags.IntVar(&opts.StaleAfterDays, "stale-after-days", 15, "Warn when an index is at least this many days old (0 = default)")
	flags.IntVar(&opts.Workers, "workers", 4, "Concurrent repository loads (0 = default)")
	flags.BoolVar(&opts.ReadPreferences, "read-preferences", false, "Read preferred-versions entries from index archives")
	_ = viper.BindPFlag("stale_after_days", flags.Lookup("stale-after-days"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("read_preferences", flags.Lookup("read-preferences"))
}

func resolveLoadRequest(cmd *cobra.Command, opts repoOptions) (app.LoadRequest, error) {
	repos, err := resolveRepositories(cmd, opts.Repos)
	if err != nil {
		return app.LoadRequest{}, err
	}
	days := resolveInt(cmd, opts.StaleAfterDays, "stale_after_days", "stale-after-days")
	return app.LoadRequest{
		Repositories:    repos,
		StaleAfter:      time.Duration(days) * 24 * time.Hour,
		Workers:         resolveInt(cmd, opts.Workers, "workers", "workers"),
		ReadPreferences: resolveBool(cmd, opts.ReadPreferences, "read_preferences", "read-preferences"),
	}, nil
}

func resolveRepositories(cmd *cobra.Command, values []string) ([]types.Repository, error) {
	if flagChanged(cmd, "repo") {
		repos := make([]types.Repository, 0, len(values))
		for _, value := range values {
			repo, err := parseRepository(value)
			if err != nil {
				return nil, err
			}
			repos = append(repos, repo)
		}
		return repos, nil
	}
	var repos []types.Repository
	if err := viper.UnmarshalKey("repositories", &repos); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid repositories config").
			WithCause(err)
	}
	for i := range repos {
		repos[i].IndexPath = shared.ExpandHome(repos[i].IndexPath)
		if repos[i].Kind == "" {
			repos[i].Kind = types.RepoKindRemote
		}
	}
	return repos, nil
}

// parseRepository accepts "name|kind|path", "name|path" (remote) or a bare
// path (local repository named after its directory).
func parseRepository(value string) (types.Repository, error) {
	parts := shared.SplitTrimmed(value, "|")
	switch len(parts) {
	case 1:
		path := shared.ExpandHome(parts[0])
		if path == "" {
			return types.Repository{}, invalidRepoEntry(value)
		}
		return types.Repository{
			Name:      filepath.Base(filepath.Dir(path)),
			Kind:      types.RepoKindLocal,
			IndexPath: path,
		}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return types.Repository{}, invalidRepoEntry(value)
		}
		return types.Repository{Name: parts[0], Kind: types.RepoKindRemote, IndexPath: shared.ExpandHome(parts[1])}, nil
	case 3:
		kind := types.RepoKind(strings.ToLower(parts[1]))
		if parts[0] == "" || parts[2] == "" || (kind != types.RepoKindRemote && kind != types.RepoKindLocal) {
			return types.Repository{}, invalidRepoEntry(value)
		}
		return types.Repository{Name: parts[0], Kind: kind, IndexPath: shared.ExpandHome(parts[2])}, nil
	default:
		return types.Repository{}, invalidRepoEntry(value)
	}
}

func invalidRepoEntry(value string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("invalid repository entry: " + value)
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.InheritedFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
