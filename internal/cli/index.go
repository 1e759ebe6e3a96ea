package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgindex/internal/app"
)

type indexOptions struct {
	Output string
}

func newIndexCommand(repoOpts *repoOptions) *cobra.Command {
	opts := indexOptions{}
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Load all configured repository indexes and report what they contain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), cmd, *repoOpts, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Output, "output", "", "Optional output path for an index summary YAML")
	_ = viper.BindPFlag("index_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, repoOpts repoOptions, opts indexOptions) error {
	load, err := resolveLoadRequest(cmd, repoOpts)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Index(ctx, app.IndexRequest{
		Load:   load,
		Output: resolveString(cmd, opts.Output, "index_output", "output"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, repo := range result.Load.Repositories {
		if repo.Missing {
			fmt.Fprintf(out, "%s (%s): missing\n", repo.Name, repo.Kind)
			continue
		}
		fmt.Fprintf(out, "%s (%s): %d packages\n", repo.Name, repo.Kind, repo.Packages)
	}
	db := result.Load.Db
	fmt.Fprintf(out, "total: %d packages, %d names, %d preferences\n", db.Index.Len(), len(db.Index.Names()), len(db.Preferences))
	if result.OutputPath != "" {
		fmt.Fprintf(out, "wrote index summary: %s\n", result.OutputPath)
	}
	return nil
}
