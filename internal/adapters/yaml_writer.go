package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"pkgindex/internal/ports"
	"pkgindex/internal/types"
)

type IndexSummaryWriterAdapter struct{}

type InstalledReportWriterAdapter struct{}

func NewIndexSummaryWriterAdapter() IndexSummaryWriterAdapter {
	return IndexSummaryWriterAdapter{}
}

func NewInstalledReportWriterAdapter() InstalledReportWriterAdapter {
	return InstalledReportWriterAdapter{}
}

func (a IndexSummaryWriterAdapter) Write(path string, summary types.IndexSummary) error {
	return writeYAML(path, summary, "index summary")
}

func (a InstalledReportWriterAdapter) Write(path string, report types.InstalledReport) error {
	return writeYAML(path, report, "installed report")
}

func writeYAML(path string, value interface{}, what string) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal " + what).
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create " + what + " directory").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + what).
			WithCause(err)
	}
	return nil
}

var _ ports.IndexSummaryWriterPort = IndexSummaryWriterAdapter{}
var _ ports.InstalledReportWriterPort = InstalledReportWriterAdapter{}
