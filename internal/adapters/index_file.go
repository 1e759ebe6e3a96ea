package adapters

import (
	"os"
	"time"

	"pkgindex/internal/ports"
)

// IndexFileAdapter reads index archives from the local filesystem. Errors
// are the raw os errors so callers can tell missing files apart.
type IndexFileAdapter struct{}

func NewIndexFileAdapter() IndexFileAdapter {
	return IndexFileAdapter{}
}

func (a IndexFileAdapter) ReadIndex(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (a IndexFileAdapter) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

var _ ports.IndexFilePort = IndexFileAdapter{}
