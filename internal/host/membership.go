package host

import (
	"fmt"
	"os"

	"syster/internal/diag"
	"syster/internal/source"
)

// OpenFile installs editor-held content for path and adds the file to
// the live set. Opening a file that is also on disk just layers the
// editor's content over it.
func (h *Host) OpenFile(path string, content []byte) (source.FileID, error) {
	id := h.store.Intern(path)
	var err error
	h.engine.Write(func() {
		if _, e := h.store.Set(id, content, 0); e != nil {
			err = e
			return
		}
		h.store.MarkOpen(id, true)
	})
	if err != nil {
		return source.NoFileID, err
	}
	return id, nil
}

// ChangeFile replaces the content of an open or on-disk file.
func (h *Host) ChangeFile(id source.FileID, content []byte) error {
	var err error
	h.engine.Write(func() {
		_, err = h.store.Set(id, content, 0)
	})
	return err
}

// CloseFile releases the editor's hold. The file stays live while it
// remains a scanned workspace member.
func (h *Host) CloseFile(id source.FileID) {
	h.engine.Write(func() {
		h.store.MarkOpen(id, false)
	})
}

// AddFile installs on-disk content for path and marks it a workspace
// member.
func (h *Host) AddFile(path string, content []byte) (source.FileID, error) {
	id := h.store.Intern(path)
	var err error
	h.engine.Write(func() {
		if _, e := h.store.Set(id, content, 0); e != nil {
			err = e
			return
		}
		h.store.MarkOnDisk(id, true)
	})
	if err != nil {
		return source.NoFileID, err
	}
	return id, nil
}

// RemoveFile retires a workspace member. The file stays live if an
// editor still holds it open.
func (h *Host) RemoveFile(id source.FileID) {
	h.engine.Write(func() {
		h.store.MarkOnDisk(id, false)
	})
}

// WorkspaceLoad reports the outcome of a batch load.
type WorkspaceLoad struct {
	Files []source.FileID
	// Diags carries one IOLoadFileError per unreadable path.
	Diags []diag.Diagnostic
}

// LoadWorkspace reads the given paths from disk and installs them under
// one write barrier, so analysis never observes a half-loaded
// workspace. Unreadable paths become diagnostics instead of failing
// the batch.
func (h *Host) LoadWorkspace(paths []string) WorkspaceLoad {
	type loaded struct {
		id      source.FileID
		content []byte
	}
	batch := make([]loaded, 0, len(paths))
	var out WorkspaceLoad
	for _, p := range paths {
		// #nosec G304 -- paths come from the workspace scan
		content, err := os.ReadFile(p)
		if err != nil {
			out.Diags = append(out.Diags, diag.NewError(diag.IOLoadFileError, source.Span{},
				fmt.Sprintf("cannot read %s: %v", p, err)))
			continue
		}
		batch = append(batch, loaded{id: h.store.Intern(p), content: content})
	}

	h.engine.Write(func() {
		for _, l := range batch {
			if _, err := h.store.Set(l.id, l.content, 0); err != nil {
				out.Diags = append(out.Diags, diag.NewError(diag.IOLoadFileError, source.Span{},
					fmt.Sprintf("cannot install %s: %v", h.store.PathOf(l.id), err)))
				continue
			}
			h.store.MarkOnDisk(l.id, true)
			out.Files = append(out.Files, l.id)
		}
	})
	return out
}
