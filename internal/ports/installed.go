package ports

import (
	"context"

	"pkgindex/internal/types"
)

// InstalledPackagesPort enumerates installed packages across package DB
// scopes. ScopeOrder lists scopes from most to least preferred.
type InstalledPackagesPort interface {
	InstalledPackages(ctx context.Context) ([]types.InstalledRecord, error)
	ScopeOrder() []string
}
