package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgindex/internal/adapters"
	"pkgindex/internal/app"
	"pkgindex/internal/shared"
)

type installedOptions struct {
	Dumps  []string
	Output string
}

func newInstalledCommand() *cobra.Command {
	opts := installedOptions{}
	cmd := &cobra.Command{
		Use:   "installed",
		Short: "Resolve installed packages from ghc-pkg dumps and report broken dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstalled(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Dumps, "dump", nil, "Installed package dump: scope=path, most preferred scope first")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Optional output path for the resolved installed packages YAML")
	_ = viper.BindPFlag("installed_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInstalled(ctx context.Context, cmd *cobra.Command, opts installedOptions) error {
	dumps, err := resolveDumps(cmd, opts.Dumps)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Installed(ctx, app.InstalledRequest{
		Dumps:  dumps,
		Output: resolveString(cmd, opts.Output, "installed_output", "output"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "installed: %d packages, %d broken dependencies\n", result.Index.Len(), len(result.Broken))
	for _, edge := range result.Broken {
		fmt.Fprintf(out, "  %s depends on missing %s\n", edge.Package, edge.Missing)
	}
	if result.OutputPath != "" {
		fmt.Fprintf(out, "wrote installed report: %s\n", result.OutputPath)
	}
	return nil
}

// resolveDumps reads --dump scope=path flags, falling back to the
// installed_dumps config list.
func resolveDumps(cmd *cobra.Command, values []string) ([]adapters.ScopeDump, error) {
	if !flagChanged(cmd, "dump") {
		var dumps []adapters.ScopeDump
		if err := viper.UnmarshalKey("installed_dumps", &dumps); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid installed_dumps config").
				WithCause(err)
		}
		for i := range dumps {
			dumps[i].Path = shared.ExpandHome(dumps[i].Path)
		}
		return dumps, nil
	}
	dumps := make([]adapters.ScopeDump, 0, len(values))
	for _, value := range values {
		parts := shared.SplitTrimmed(value, "=")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid dump entry: " + value)
		}
		dumps = append(dumps, adapters.ScopeDump{Scope: parts[0], Path: shared.ExpandHome(parts[1])})
	}
	return dumps, nil
}
