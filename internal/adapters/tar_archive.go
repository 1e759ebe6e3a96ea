package adapters

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/gzip"

	"pkgindex/internal/ports"
)

var gzipMagic = []byte{0x1f, 0x8b}

type TarArchiveAdapter struct{}

func NewTarArchiveAdapter() TarArchiveAdapter {
	return TarArchiveAdapter{}
}

// Open returns a lazy tar entry stream over data, gunzipping it first when
// it starts with the gzip magic bytes.
func (a TarArchiveAdapter) Open(data []byte) (ports.ArchiveEntryStream, error) {
	var reader io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(data, gzipMagic) {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read gzipped index archive").
				WithCause(err)
		}
		reader = gz
	}
	return &tarEntryStream{reader: tar.NewReader(reader)}, nil
}

type tarEntryStream struct {
	reader *tar.Reader
	err    error
}

func (s *tarEntryStream) Next() (ports.ArchiveEntry, error) {
	if s.err != nil {
		return ports.ArchiveEntry{}, s.err
	}
	header, err := s.reader.Next()
	if errors.Is(err, io.EOF) {
		s.err = io.EOF
		return ports.ArchiveEntry{}, io.EOF
	}
	if err != nil {
		s.err = err
		return ports.ArchiveEntry{}, err
	}
	entry := ports.ArchiveEntry{Path: header.Name, Kind: entryKind(header.Typeflag)}
	if entry.Kind == ports.EntryKindFile {
		content, err := io.ReadAll(s.reader)
		if err != nil {
			s.err = err
			return ports.ArchiveEntry{}, err
		}
		entry.Content = content
	}
	return entry, nil
}

func entryKind(flag byte) ports.EntryKind {
	switch flag {
	case tar.TypeReg:
		return ports.EntryKindFile
	case tar.TypeDir:
		return ports.EntryKindDirectory
	default:
		return ports.EntryKindOther
	}
}

var _ ports.ArchiveOpenerPort = TarArchiveAdapter{}
