package ports

type EntryKind string

const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
	EntryKindOther     EntryKind = "other"
)

// ArchiveEntry is one record of a sequential archive. Content is only set
// for EntryKindFile.
type ArchiveEntry struct {
	Path    string
	Kind    EntryKind
	Content []byte
}

// ArchiveEntryStream yields entries lazily. Next returns io.EOF once the
// archive ends normally; any other error is terminal.
type ArchiveEntryStream interface {
	Next() (ArchiveEntry, error)
}

// ArchiveOpenerPort turns the raw bytes of an index file into an entry
// stream, undoing any compression envelope.
type ArchiveOpenerPort interface {
	Open(data []byte) (ArchiveEntryStream, error)
}
