// Package shared provides common utility functions used across multiple
// packages in the pkgindex codebase.
package shared

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with the current user's home
// directory. Paths without it are returned cleaned but otherwise as-is.
func ExpandHome(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return filepath.Clean(trimmed)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(trimmed)
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
}

// SplitTrimmed splits value on sep and trims each part.
func SplitTrimmed(value string, sep string) []string {
	parts := strings.Split(value, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
