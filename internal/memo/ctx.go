package memo

import (
	"syster/internal/source"
)

// Ctx is the handle a query function reads through. Every read is
// recorded as a dependency of the running computation; reads after a
// write fail with ErrSuperseded so stale work stops early instead of
// finishing against a torn snapshot.
type Ctx struct {
	engine *Engine
	rev    uint64
	path   *evalPath
	key    Key
	deps   []dep
}

// Revision is the revision this computation is pinned to.
func (c *Ctx) Revision() uint64 { return c.rev }

// Text reads a file's content, recording the content revision observed.
func (c *Ctx) Text(file source.FileID) (*source.Text, error) {
	c.engine.mu.RLock()
	if c.engine.rev != c.rev {
		c.engine.mu.RUnlock()
		return nil, ErrSuperseded
	}
	txt, err := c.engine.inputs.Text(file)
	frev, ok := c.engine.inputs.Revision(file)
	c.engine.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if !ok {
		frev = 0
	}
	c.deps = append(c.deps, dep{kind: depText, file: file, at: frev})
	return txt, nil
}

// LiveFiles reads the set of files under analysis, recording the
// membership revision so the computation invalidates on add or remove.
func (c *Ctx) LiveFiles() ([]source.FileID, error) {
	c.engine.mu.RLock()
	if c.engine.rev != c.rev {
		c.engine.mu.RUnlock()
		return nil, ErrSuperseded
	}
	ids := c.engine.inputs.Live()
	lrev := c.engine.inputs.LiveRevision()
	c.engine.mu.RUnlock()
	c.deps = append(c.deps, dep{kind: depLive, at: lrev})
	return ids, nil
}

// Get evaluates another query and records it as a dependency. The
// recorded version is the dependency's changedAt, so an intermediate
// that recomputes to an equal value does not invalidate this caller.
func (c *Ctx) Get(key Key) (any, error) {
	v, at, err := c.engine.ensure(c.path, key, c.rev)
	if err != nil {
		return nil, err
	}
	c.deps = append(c.deps, dep{kind: depQuery, key: key, at: at})
	return v, nil
}

// Prior returns this computation's own previous value, if any, without
// recording a dependency. It may be arbitrarily stale; incremental
// queries use it as a merge base and decide per input what to reapply.
func (c *Ctx) Prior() (any, bool) {
	ent := c.engine.lookup(c.key)
	if ent == nil {
		return nil, false
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if !ent.valid {
		return nil, false
	}
	return ent.value, true
}
