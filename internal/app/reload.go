package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgindex/internal/core"
	"pkgindex/internal/types"
)

// ReloadDescription re-extracts the metadata file of pkg from its source
// archive and checks that the content still matches the recorded digest.
func (s Service) ReloadDescription(ctx context.Context, pkg types.SourcePackage) (types.PackageDescription, error) {
	provenance := pkg.Provenance
	data, err := s.IndexFiles.ReadIndex(provenance.Repository.IndexPath)
	if err != nil {
		return types.PackageDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read package index for %s", provenance.Repository.Label())).
			WithCause(err)
	}
	stream, err := s.Archives.Open(data)
	if err != nil {
		return types.PackageDescription{}, err
	}
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return types.PackageDescription{}, err
		}
		entry, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.PackageDescription{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read index archive").
				WithCause(err)
		}
		if index != provenance.EntryIndex || core.NormalizeEntryPath(entry.Path) != provenance.EntryPath {
			continue
		}
		if core.ContentDigest(entry.Content) != provenance.ContentDigest {
			return types.PackageDescription{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("index entry changed since it was loaded: %s", provenance.EntryPath))
		}
		return s.Descriptions.Parse(entry.Content)
	}
	return types.PackageDescription{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("index entry not found: %s", provenance.EntryPath))
}
