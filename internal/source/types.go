package source

type (
	// FileID uniquely identifies a file path within a Store.
	// IDs are stable for the lifetime of the session: re-opening or editing
	// a path never mints a new one.
	FileID uint32
	// FileFlags encodes metadata about how a file's content was ingested.
	FileFlags uint8
)

// NoFileID is the zero FileID; it never names a real file.
const NoFileID FileID = 0

// IsValid reports whether the ID names a real file.
func (id FileID) IsValid() bool { return id != NoFileID }

const (
	// FileVirtual indicates content came from memory (editor buffer, test).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 BOM was stripped on ingest.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF sequences were rewritten to LF.
	FileNormalizedCRLF
	// FileNormalizedNFC indicates the content was not NFC and was renormalized.
	FileNormalizedNFC
	// FileBuiltin marks a bundled standard-library file. Builtin files are
	// permanently live and never invalidated by workspace edits.
	FileBuiltin
)

// Text is an immutable snapshot of one file revision. Once published by the
// Store it is never mutated, so readers may hold it without locks.
type Text struct {
	File     FileID
	Revision uint64
	Content  []byte
	LineIdx  []uint32 // byte offsets of '\n' in Content
	Hash     [32]byte
	Flags    FileFlags
}

// LineCol is a human-readable position. Both fields are 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}
