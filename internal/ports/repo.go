package ports

import (
	"time"

	"pkgindex/internal/types"
)

// IndexFilePort reads repository index archives from local storage.
// Missing files must be reported with an error satisfying
// errors.Is(err, fs.ErrNotExist).
type IndexFilePort interface {
	ReadIndex(path string) ([]byte, error)
	ModTime(path string) (time.Time, error)
}

type IndexSummaryWriterPort interface {
	Write(path string, summary types.IndexSummary) error
}

type InstalledReportWriterPort interface {
	Write(path string, report types.InstalledReport) error
}
