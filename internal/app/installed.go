package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pkgindex/internal/core"
	"pkgindex/internal/types"
)

func (s Service) Installed(ctx context.Context, req InstalledRequest) (InstalledResult, error) {
	if len(req.Dumps) == 0 {
		return InstalledResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one installed package dump is required")
	}
	source := s.InstalledSource(req.Dumps)
	records, err := source.InstalledPackages(ctx)
	if err != nil {
		return InstalledResult{}, err
	}
	index := core.ResolveInstalled(records, source.ScopeOrder())
	result := InstalledResult{
		Index:  index,
		Broken: core.BrokenEdges(index),
	}
	for _, edge := range result.Broken {
		log.Ctx(ctx).Warn().Str("package", edge.Package).Str("missing", edge.Missing).Msg("broken installed dependency")
	}
	output := strings.TrimSpace(req.Output)
	if output != "" {
		report := types.InstalledReport{Packages: index.All(), Broken: result.Broken}
		if err := s.InstalledWriter.Write(output, report); err != nil {
			return InstalledResult{}, err
		}
		result.OutputPath = output
	}
	return result, nil
}
