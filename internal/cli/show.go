package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pkgindex/internal/app"
)

func newShowCommand(repoOpts *repoOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <package>",
		Short: "List the indexed versions of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd, *repoOpts, args[0])
		},
	}
}

func runShow(ctx context.Context, cmd *cobra.Command, repoOpts repoOptions, name string) error {
	load, err := resolveLoadRequest(cmd, repoOpts)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Show(ctx, app.ShowRequest{Load: load, Name: name})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", result.Name)
	for _, pkg := range result.Versions {
		marker := " "
		if pkg.ID.Version.Equal(result.Preferred.ID.Version) {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s  (%s)\n", marker, pkg.ID.Version, pkg.Provenance.Repository.Label())
	}
	if !result.Preference.IsAny() {
		fmt.Fprintf(out, "preferred: %s\n", result.Preference)
	}
	return nil
}
