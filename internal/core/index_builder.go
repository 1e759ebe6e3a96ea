package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"pkgindex/internal/ports"
	"pkgindex/internal/types"
)

const (
	descriptionExt     = ".cabal"
	preferencesEntry   = "preferred-versions"
	descriptionPathLen = 3
)

// ExtractedEntry is a metadata file recognised during an archive fold.
type ExtractedEntry struct {
	ID          types.PackageID
	Description types.PackageDescription
	EntryPath   string
	EntryIndex  int
	Digest      string
}

type FoldOptions struct {
	// ReadPreferences enables parsing of the top-level preferred-versions
	// entry. Off by default.
	ReadPreferences bool
}

// ArchiveFold holds the records of one archive in archive order,
// duplicates included.
type ArchiveFold struct {
	Entries     []ExtractedEntry
	Preferences []Preference
}

// FoldArchive drains the stream. A stream failure or an unparsable
// description fails the whole fold and no entries are returned. Entries
// whose path or version does not follow the naming convention are skipped.
func FoldArchive(ctx context.Context, stream ports.ArchiveEntryStream, parser ports.DescriptionParserPort, opts FoldOptions) (ArchiveFold, error) {
	if stream == nil || parser == nil {
		return ArchiveFold{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive fold requires an entry stream and a description parser")
	}
	var fold ArchiveFold
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return ArchiveFold{}, err
		}
		entry, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ArchiveFold{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read index archive").
				WithCause(err)
		}
		if opts.ReadPreferences && isPreferencesEntry(entry) {
			fold.Preferences = append(fold.Preferences, ParsePreferences(ctx, bytes.NewReader(entry.Content))...)
			continue
		}
		extracted, ok, err := extractEntry(ctx, entry, index, parser)
		if err != nil {
			return ArchiveFold{}, err
		}
		if ok {
			fold.Entries = append(fold.Entries, extracted)
		}
	}
	return fold, nil
}

// BuildIndexWith folds the stream and maps each surviving description to
// a caller-defined record. The earliest archive entry wins over later
// duplicates of the same (name, version).
func BuildIndexWith[T Identified](ctx context.Context, stream ports.ArchiveEntryStream, parser ports.DescriptionParserPort, mapper func(ExtractedEntry) T) (*PackageIndex[T], error) {
	fold, err := FoldArchive(ctx, stream, parser, FoldOptions{})
	if err != nil {
		return nil, err
	}
	return IndexEntries(fold.Entries, mapper), nil
}

func BuildIndex(ctx context.Context, stream ports.ArchiveEntryStream, repo types.Repository, parser ports.DescriptionParserPort) (*PackageIndex[types.SourcePackage], error) {
	return BuildIndexWith(ctx, stream, parser, SourcePackageMapper(repo))
}

func IndexEntries[T Identified](entries []ExtractedEntry, mapper func(ExtractedEntry) T) *PackageIndex[T] {
	items := make([]T, 0, len(entries))
	for _, entry := range entries {
		items = append(items, mapper(entry))
	}
	return NewPackageIndex(items)
}

func SourcePackageMapper(repo types.Repository) func(ExtractedEntry) types.SourcePackage {
	return func(entry ExtractedEntry) types.SourcePackage {
		return types.SourcePackage{
			ID:          entry.ID,
			Description: entry.Description,
			Provenance: types.Provenance{
				Repository:    repo,
				EntryPath:     entry.EntryPath,
				EntryIndex:    entry.EntryIndex,
				ContentDigest: entry.Digest,
			},
		}
	}
}

func extractEntry(ctx context.Context, entry ports.ArchiveEntry, index int, parser ports.DescriptionParserPort) (ExtractedEntry, bool, error) {
	if entry.Kind != ports.EntryKindFile {
		return ExtractedEntry{}, false, nil
	}
	entryPath := NormalizeEntryPath(entry.Path)
	if path.Ext(entryPath) != descriptionExt {
		return ExtractedEntry{}, false, nil
	}
	parts := strings.Split(entryPath, "/")
	if len(parts) != descriptionPathLen {
		return ExtractedEntry{}, false, nil
	}
	version, err := ParseVersion(parts[1])
	if err != nil {
		log.Ctx(ctx).Debug().Str("entry", entryPath).Msg("skipping entry with invalid version")
		return ExtractedEntry{}, false, nil
	}
	description, err := parser.Parse(entry.Content)
	if err != nil {
		return ExtractedEntry{}, false, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("unparsable package description: %s", entryPath)).
			WithCause(err)
	}
	return ExtractedEntry{
		ID:          types.PackageID{Name: parts[0], Version: version},
		Description: description,
		EntryPath:   entryPath,
		EntryIndex:  index,
		Digest:      ContentDigest(entry.Content),
	}, true, nil
}

// NormalizeEntryPath cleans a slash-separated archive path and drops any
// leading "./" or "/".
func NormalizeEntryPath(raw string) string {
	cleaned := path.Clean(strings.ReplaceAll(raw, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

func isPreferencesEntry(entry ports.ArchiveEntry) bool {
	return entry.Kind == ports.EntryKindFile && NormalizeEntryPath(entry.Path) == preferencesEntry
}

// ContentDigest is the xxhash64 of content in hex.
func ContentDigest(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}
