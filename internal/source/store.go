package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
)

var (
	// ErrUnknownFile reports a FileID the store never interned.
	ErrUnknownFile = errors.New("unknown file")
	// ErrNotLive reports a file that was retired from the workspace.
	ErrNotLive = errors.New("file is not live")
	// ErrBuiltin reports an attempt to mutate a bundled standard-library file.
	ErrBuiltin = errors.New("builtin file is read-only")
	// ErrNoContent reports a file that was interned but never given content.
	ErrNoContent = errors.New("file has no content")
)

type fileEntry struct {
	path    string
	text    *Text
	rev     uint64
	open    bool // held by an editor
	onDisk  bool // member of the scanned workspace
	builtin bool
	live    bool
}

// Store is the text store: the only externally-mutable input of the engine.
// It interns paths to stable FileIDs, holds the current content and revision
// per file, and tracks workspace membership (the live set). Every content
// mutation bumps the file's revision; every membership change bumps the
// live-set revision. Reads hand out immutable Text snapshots.
type Store struct {
	mu      sync.RWMutex
	files   []fileEntry // index is FileID-1
	byPath  map[string]FileID
	liveRev uint64
	names   *Interner
	baseDir string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byPath: make(map[string]FileID),
		names:  NewInterner(),
	}
}

// Names returns the session-wide identifier interner.
func (s *Store) Names() *Interner { return s.names }

// SetBaseDir records the directory relative paths are rendered against.
func (s *Store) SetBaseDir(dir string) {
	s.mu.Lock()
	s.baseDir = dir
	s.mu.Unlock()
}

// BaseDir returns the directory for relative path rendering.
func (s *Store) BaseDir() string {
	s.mu.RLock()
	dir := s.baseDir
	s.mu.RUnlock()
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return dir
}

// Intern returns the stable FileID for path, creating it on first sight.
// The new file starts with no content and outside the live set.
func (s *Store) Intern(path string) FileID {
	normalized := normalizePath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byPath[normalized]; ok {
		return id
	}
	next, err := safecast.Conv[uint32](len(s.files) + 1)
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(next)
	s.files = append(s.files, fileEntry{path: normalized})
	s.byPath[normalized] = id
	return id
}

// LookupPath returns the FileID previously interned for path.
func (s *Store) LookupPath(path string) (FileID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPath[normalizePath(path)]
	return id, ok
}

// PathOf returns the normalized path for id, or "" for an unknown ID.
func (s *Store) PathOf(id FileID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(id)
	if e == nil {
		return ""
	}
	return e.path
}

// Set replaces the file's content and returns the bumped revision.
// Content is normalized on ingest (BOM, CRLF, NFC); extra flags are merged
// into the normalization flags. Builtin files reject mutation.
func (s *Store) Set(id FileID, content []byte, extra FileFlags) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(id)
	if e == nil {
		return 0, fmt.Errorf("set %d: %w", id, ErrUnknownFile)
	}
	if e.builtin {
		return 0, fmt.Errorf("set %s: %w", e.path, ErrBuiltin)
	}
	s.publish(id, e, content, extra)
	return e.rev, nil
}

// SetBuiltin installs bundled standard-library content. The file becomes
// permanently live and read-only from then on.
func (s *Store) SetBuiltin(id FileID, content []byte) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(id)
	if e == nil {
		return 0, fmt.Errorf("set builtin %d: %w", id, ErrUnknownFile)
	}
	if e.builtin {
		return 0, fmt.Errorf("set builtin %s: %w", e.path, ErrBuiltin)
	}
	s.publish(id, e, content, FileVirtual|FileBuiltin)
	e.builtin = true
	s.setLive(e, true)
	return e.rev, nil
}

// publish normalizes content and installs a fresh Text snapshot.
// Caller holds the write lock.
func (s *Store) publish(id FileID, e *fileEntry, content []byte, extra FileFlags) {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	content, renorm := normalizeNFC(content)

	flags := extra
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if renorm {
		flags |= FileNormalizedNFC
	}

	e.rev++
	e.text = &Text{
		File:     id,
		Revision: e.rev,
		Content:  content,
		LineIdx:  buildLineIndex(content),
		Hash:     sha256.Sum256(content),
		Flags:    flags,
	}
}

// Load reads path from disk, interns it, installs its content, and marks it
// a workspace member.
func (s *Store) Load(path string) (FileID, uint64, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, 0, err
	}
	id := s.Intern(path)
	rev, err := s.Set(id, content, 0)
	if err != nil {
		return NoFileID, 0, err
	}
	s.MarkOnDisk(id, true)
	return id, rev, nil
}

// Text returns the current immutable snapshot for a live file.
func (s *Store) Text(id FileID) (*Text, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(id)
	switch {
	case e == nil:
		return nil, fmt.Errorf("text %d: %w", id, ErrUnknownFile)
	case !e.live:
		return nil, fmt.Errorf("text %s: %w", e.path, ErrNotLive)
	case e.text == nil:
		return nil, fmt.Errorf("text %s: %w", e.path, ErrNoContent)
	}
	return e.text, nil
}

// Revision returns the current content revision for id.
func (s *Store) Revision(id FileID) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(id)
	if e == nil {
		return 0, false
	}
	return e.rev, true
}

// MarkOpen records whether an editor holds the file.
func (s *Store) MarkOpen(id FileID, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.entry(id); e != nil && !e.builtin {
		e.open = open
		s.setLive(e, e.open || e.onDisk)
	}
}

// MarkOnDisk records whether the file is a scanned workspace member.
func (s *Store) MarkOnDisk(id FileID, onDisk bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.entry(id); e != nil && !e.builtin {
		e.onDisk = onDisk
		s.setLive(e, e.open || e.onDisk)
	}
}

// setLive flips liveness and bumps the live-set revision on a real change.
// Caller holds the write lock.
func (s *Store) setLive(e *fileEntry, live bool) {
	if e.live == live {
		return
	}
	e.live = live
	s.liveRev++
}

// IsLive reports workspace membership.
func (s *Store) IsLive(id FileID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(id)
	return e != nil && e.live
}

// IsOpen reports whether an editor holds the file.
func (s *Store) IsOpen(id FileID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(id)
	return e != nil && e.open
}

// IsBuiltin reports whether id names a bundled standard-library file.
func (s *Store) IsBuiltin(id FileID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(id)
	return e != nil && e.builtin
}

// Live returns the live FileIDs in ascending order.
func (s *Store) Live() []FileID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]FileID, 0, len(s.files))
	for i := range s.files {
		if s.files[i].live {
			ids = append(ids, FileID(i+1)) // #nosec G115 -- bounded by Intern
		}
	}
	return ids
}

// LiveRevision returns the monotonic live-set revision.
func (s *Store) LiveRevision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveRev
}

// Resolve converts a span into 1-based line/column positions.
// Unknown or content-less files resolve to zero positions.
func (s *Store) Resolve(span Span) (start, end LineCol) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(span.File)
	if e == nil || e.text == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(e.text.LineIdx, span.Start), toLineCol(e.text.LineIdx, span.End)
}

// entry returns the slot for id, or nil. Caller holds a lock.
func (s *Store) entry(id FileID) *fileEntry {
	if !id.IsValid() || int(id) > len(s.files) {
		return nil
	}
	return &s.files[id-1]
}

// Position converts a byte offset into a 1-based line/column.
func (t *Text) Position(off uint32) LineCol {
	return toLineCol(t.LineIdx, off)
}

// Offset converts a 1-based line/column back into a byte offset.
func (t *Text) Offset(pos LineCol) (uint32, error) {
	start, ok := lineStart(t.LineIdx, pos.Line)
	if !ok {
		return 0, fmt.Errorf("line %d out of range", pos.Line)
	}
	if pos.Col == 0 {
		return 0, fmt.Errorf("column must be 1-based")
	}
	off := start + pos.Col - 1
	size, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if off > size {
		return 0, fmt.Errorf("offset %d past end of file", off)
	}
	return off, nil
}

// Line returns the 1-based line's text without its newline, or "" when the
// line does not exist.
func (t *Text) Line(lineNum uint32) string {
	start, ok := lineStart(t.LineIdx, lineNum)
	if !ok {
		return ""
	}

	size, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	idxLen, err := safecast.Conv[uint32](len(t.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}

	var end uint32
	if lineNum-1 < idxLen {
		end = t.LineIdx[lineNum-1]
	} else {
		end = size
	}

	if start >= size {
		return ""
	}
	if end > size {
		end = size
	}
	return string(t.Content[start:end])
}
