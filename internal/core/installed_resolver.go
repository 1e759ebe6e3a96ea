package core

import (
	"sort"

	"pkgindex/internal/types"
)

const brokenSuffix = "-broken"

// BrokenPackageID is the placeholder for a dependency on an installation
// id that has no record. It carries the empty version.
func BrokenPackageID(installedID string) types.PackageID {
	return types.PackageID{Name: installedID + brokenSuffix}
}

// ResolveInstalled converts installation records into an index keyed by
// source package id. Each dependency id is resolved once against all
// records; ids without a record become broken edges. When several records
// share a (name, version) the one from the earliest scope in scopeOrder
// wins, then the earliest in input order. Unknown scopes rank last.
func ResolveInstalled(records []types.InstalledRecord, scopeOrder []string) *PackageIndex[types.InstalledPackage] {
	byID := make(map[string]types.InstalledRecord, len(records))
	for _, record := range records {
		if _, ok := byID[record.InstalledID]; ok {
			continue
		}
		byID[record.InstalledID] = record
	}

	packages := make([]types.InstalledPackage, 0, len(records))
	for _, record := range records {
		packages = append(packages, types.InstalledPackage{
			InstalledID: record.InstalledID,
			ID:          types.PackageID{Name: record.Name, Version: record.Version},
			Scope:       record.Scope,
			Depends:     resolveDepends(record.Depends, byID),
		})
	}

	rank := scopeRanks(scopeOrder)
	sort.SliceStable(packages, func(i, j int) bool {
		return rank(packages[i].Scope) < rank(packages[j].Scope)
	})
	return NewPackageIndex(packages)
}

func resolveDepends(ids []string, byID map[string]types.InstalledRecord) []types.Dependency {
	if len(ids) == 0 {
		return nil
	}
	deps := make([]types.Dependency, 0, len(ids))
	for _, id := range ids {
		target, ok := byID[id]
		if !ok {
			deps = append(deps, types.Dependency{
				Kind:        types.DependencyBroken,
				ID:          BrokenPackageID(id),
				InstalledID: id,
			})
			continue
		}
		deps = append(deps, types.Dependency{
			Kind:        types.DependencyResolved,
			ID:          types.PackageID{Name: target.Name, Version: target.Version},
			InstalledID: id,
		})
	}
	return deps
}

// scopeRanks maps each scope to its first position in order. Scopes not in
// order rank after every listed one.
func scopeRanks(order []string) func(scope string) int {
	ranks := make(map[string]int, len(order))
	for i, scope := range order {
		if _, ok := ranks[scope]; !ok {
			ranks[scope] = i
		}
	}
	return func(scope string) int {
		if r, ok := ranks[scope]; ok {
			return r
		}
		return len(order)
	}
}

// BrokenEdges lists every broken dependency in the index, ordered by
// package then by dependency position.
func BrokenEdges(index *PackageIndex[types.InstalledPackage]) []types.BrokenEdge {
	var edges []types.BrokenEdge
	for _, pkg := range index.All() {
		for _, dep := range pkg.Depends {
			if dep.IsBroken() {
				edges = append(edges, types.BrokenEdge{
					Package: pkg.ID.String(),
					Missing: dep.InstalledID,
				})
			}
		}
	}
	return edges
}
