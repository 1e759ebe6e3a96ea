package app

import (
	"time"

	"pkgindex/internal/adapters"
	"pkgindex/internal/core"
	"pkgindex/internal/types"
)

const defaultLoadWorkers = 4

type LoadRequest struct {
	Repositories    []types.Repository
	StaleAfter      time.Duration
	Workers         int
	ReadPreferences bool
}

type LoadResult struct {
	Db           core.SourcePackageDb
	Repositories []types.RepositorySummary
	Warnings     []types.Warning
}

type IndexRequest struct {
	Load   LoadRequest
	Output string
}

type IndexResult struct {
	Load       LoadResult
	OutputPath string
}

type ShowRequest struct {
	Load LoadRequest
	Name string
}

type ShowResult struct {
	Name       string
	Versions   []types.SourcePackage
	Preference core.VersionRange
	Preferred  types.SourcePackage
	Warnings   []types.Warning
}

type InstalledRequest struct {
	Dumps  []adapters.ScopeDump
	Output string
}

type InstalledResult struct {
	Index      *core.PackageIndex[types.InstalledPackage]
	Broken     []types.BrokenEdge
	OutputPath string
}
