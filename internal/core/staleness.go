package core

import (
	"fmt"
	"time"

	"pkgindex/internal/types"
)

const DefaultStaleThreshold = 15 * 24 * time.Hour

const updateCommand = "cabal update"

// CheckStaleness reports a warning when the index is at least threshold
// old. Only remote repositories get a refresh hint.
func CheckStaleness(repo types.Repository, modTime time.Time, now time.Time, threshold time.Duration) (types.Warning, bool) {
	if threshold <= 0 {
		return types.Warning{}, false
	}
	age := now.Sub(modTime)
	if age < threshold {
		return types.Warning{}, false
	}
	days := int(age / (24 * time.Hour))
	message := fmt.Sprintf("The package list for '%s' is %d days old.", repo.Label(), days)
	if repo.IsRemote() {
		message += fmt.Sprintf(" Run '%s' to get the latest list of available packages.", updateCommand)
	}
	return types.Warning{
		Kind:       types.WarningStaleIndex,
		Repository: repo.Label(),
		Message:    message,
	}, true
}

func MissingIndexWarning(repo types.Repository) types.Warning {
	var message string
	if repo.IsRemote() {
		message = fmt.Sprintf("The package list for '%s' does not exist. Run '%s' to download it.", repo.Label(), updateCommand)
	} else {
		message = fmt.Sprintf("The package list for the local repo '%s' is missing. The repo is invalid.", repo.IndexPath)
	}
	return types.Warning{
		Kind:       types.WarningMissingIndex,
		Repository: repo.Label(),
		Message:    message,
	}
}

func NoRepositoriesWarning() types.Warning {
	return types.Warning{
		Kind:    types.WarningNoRepositories,
		Message: "No remote package servers have been specified. Usually you would have one specified in the config file.",
	}
}
