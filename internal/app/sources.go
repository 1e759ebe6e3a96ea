package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pkgindex/internal/core"
	"pkgindex/internal/types"
)

type repoLoad struct {
	repo        types.Repository
	packages    []types.SourcePackage
	preferences []core.Preference
	missing     bool
	modTime     time.Time
	hasModTime  bool
}

// LoadAll reads the index archive of every repository and aggregates them
// into one source package database. A missing index file only produces a
// warning; any other read or archive failure aborts the load. Packages
// that appear in several repositories are taken from the first one listed.
func (s Service) LoadAll(ctx context.Context, req LoadRequest) (LoadResult, error) {
	if len(req.Repositories) == 0 {
		warning := core.NoRepositoriesWarning()
		log.Ctx(ctx).Warn().Msg(warning.Message)
		return LoadResult{
			Db:           core.EmptySourcePackageDb(),
			Repositories: []types.RepositorySummary{},
			Warnings:     []types.Warning{warning},
		}, nil
	}
	if err := validateRepositories(req.Repositories); err != nil {
		return LoadResult{}, err
	}

	loads, err := s.loadRepositories(ctx, req)
	if err != nil {
		return LoadResult{}, err
	}

	result := LoadResult{Repositories: make([]types.RepositorySummary, 0, len(loads))}
	var packages []types.SourcePackage
	var preferenceLists [][]core.Preference
	for _, load := range loads {
		summary := types.RepositorySummary{
			Name:     load.repo.Label(),
			Kind:     repoKind(load.repo),
			Path:     load.repo.IndexPath,
			Packages: len(load.packages),
			Missing:  load.missing,
		}
		result.Repositories = append(result.Repositories, summary)
		if load.missing {
			result.Warnings = append(result.Warnings, core.MissingIndexWarning(load.repo))
			continue
		}
		packages = append(packages, load.packages...)
		preferenceLists = append(preferenceLists, load.preferences)
	}
	result.Db = core.SourcePackageDb{
		Index:       core.NewPackageIndex(packages),
		Preferences: core.MergePreferences(preferenceLists),
	}

	threshold := req.StaleAfter
	if threshold == 0 {
		threshold = core.DefaultStaleThreshold
	}
	now := s.now()
	for _, load := range loads {
		if load.missing || !load.hasModTime {
			continue
		}
		if warning, stale := core.CheckStaleness(load.repo, load.modTime, now, threshold); stale {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	for _, warning := range result.Warnings {
		log.Ctx(ctx).Warn().Str("repository", warning.Repository).Msg(warning.Message)
	}
	log.Ctx(ctx).Debug().
		Int("repositories", len(loads)).
		Int("packages", result.Db.Index.Len()).
		Int("preferences", len(result.Db.Preferences)).
		Msg("source packages loaded")
	return result, nil
}

// loadRepositories fans out one load per repository and returns the
// results in input order.
func (s Service) loadRepositories(ctx context.Context, req LoadRequest) ([]repoLoad, error) {
	workers := req.Workers
	if workers <= 0 {
		workers = defaultLoadWorkers
	}
	loads := make([]repoLoad, len(req.Repositories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, repo := range req.Repositories {
		g.Go(func() error {
			load, err := s.loadRepository(gctx, repo, req.ReadPreferences)
			if err != nil {
				return err
			}
			loads[i] = load
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loads, nil
}

func (s Service) loadRepository(ctx context.Context, repo types.Repository, readPreferences bool) (repoLoad, error) {
	assert.NotEmpty(ctx, repo.IndexPath, "repository index path must be set")
	load := repoLoad{repo: repo}
	data, err := s.IndexFiles.ReadIndex(repo.IndexPath)
	if errors.Is(err, fs.ErrNotExist) {
		load.missing = true
		return load, nil
	}
	if err != nil {
		return repoLoad{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read package index for %s", repo.Label())).
			WithCause(err)
	}
	stream, err := s.Archives.Open(data)
	if err != nil {
		return repoLoad{}, err
	}
	fold, err := core.FoldArchive(ctx, stream, s.Descriptions, core.FoldOptions{ReadPreferences: readPreferences})
	if err != nil {
		return repoLoad{}, errbuilder.New().
			WithCode(errbuilder.CodeOf(err)).
			WithMsg(fmt.Sprintf("failed to index %s: %s", repo.Label(), errorMessage(err))).
			WithCause(err)
	}
	index := core.IndexEntries(fold.Entries, core.SourcePackageMapper(repo))
	load.packages = index.All()
	load.preferences = fold.Preferences

	modTime, err := s.IndexFiles.ModTime(repo.IndexPath)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("repository", repo.Label()).Msg("index age unknown")
	} else {
		load.modTime = modTime
		load.hasModTime = true
	}
	log.Ctx(ctx).Debug().
		Str("repository", repo.Label()).
		Int("entries", len(fold.Entries)).
		Int("packages", index.Len()).
		Msg("repository indexed")
	return load, nil
}

// ReadIndexFile builds a raw index from one archive without any of the
// repository diagnostics. mapper turns each extracted description into the
// caller's record type.
func ReadIndexFile[T core.Identified](ctx context.Context, s Service, path string, mapper func(core.ExtractedEntry) T) (*core.PackageIndex[T], error) {
	if strings.TrimSpace(path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("index file path is required")
	}
	data, err := s.IndexFiles.ReadIndex(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("index file not found: %s", path)).
			WithCause(err)
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read index file: %s", path)).
			WithCause(err)
	}
	stream, err := s.Archives.Open(data)
	if err != nil {
		return nil, err
	}
	return core.BuildIndexWith(ctx, stream, s.Descriptions, mapper)
}

func validateRepositories(repos []types.Repository) error {
	for i, repo := range repos {
		if strings.TrimSpace(repo.IndexPath) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("repository %d (%s) has no index path", i, repo.Name))
		}
		switch repo.Kind {
		case "", types.RepoKindRemote, types.RepoKindLocal:
		default:
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("repository %s has unknown kind %q", repo.Label(), repo.Kind))
		}
	}
	return nil
}

func repoKind(repo types.Repository) types.RepoKind {
	if repo.IsRemote() {
		return types.RepoKindRemote
	}
	return types.RepoKindLocal
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
