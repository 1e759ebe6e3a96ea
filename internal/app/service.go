package app

import (
	"time"

	"pkgindex/internal/adapters"
	"pkgindex/internal/ports"
)

type Service struct {
	IndexFiles      ports.IndexFilePort
	Archives        ports.ArchiveOpenerPort
	Descriptions    ports.DescriptionParserPort
	SummaryWriter   ports.IndexSummaryWriterPort
	InstalledWriter ports.InstalledReportWriterPort
	InstalledSource func(dumps []adapters.ScopeDump) ports.InstalledPackagesPort
	Clock           func() time.Time
}

func NewService() Service {
	return Service{
		IndexFiles:      adapters.NewIndexFileAdapter(),
		Archives:        adapters.NewTarArchiveAdapter(),
		Descriptions:    adapters.NewCabalDescriptionParser(),
		SummaryWriter:   adapters.NewIndexSummaryWriterAdapter(),
		InstalledWriter: adapters.NewInstalledReportWriterAdapter(),
		InstalledSource: func(dumps []adapters.ScopeDump) ports.InstalledPackagesPort {
			return adapters.NewInstalledDumpAdapter(dumps)
		},
		Clock: time.Now,
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}
