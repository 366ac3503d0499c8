package memo

import (
	"errors"
	"strconv"
	"sync"

	"syster/internal/source"
)

type depKind uint8

const (
	depQuery depKind = iota // another memoized query
	depText                 // file content read
	depLive                 // live file set read
)

// dep is one tracked read, recorded in evaluation order. at holds the
// version observed: the dependency entry's changedAt for depQuery, the
// file content revision for depText, the live-set revision for depLive.
type dep struct {
	kind depKind
	key  Key
	file source.FileID
	at   uint64
}

// entry is one memoized result.
//
// verifiedAt is the last revision at which the entry was known valid,
// changedAt the last revision at which the value actually changed. The
// gap between them is what makes early cutoff work: a dependent that
// recorded changedAt stays valid even when this entry was since
// recomputed to an equal value.
type entry struct {
	mu         sync.Mutex
	valid      bool
	value      any
	fp         uint64
	hasFP      bool
	deps       []dep
	verifiedAt uint64
	changedAt  uint64
}

// evalPath is the chain of keys currently being evaluated by one
// computation, innermost last. Detecting a repeated key here is the
// cycle check; it is complete because the registered query graph is
// acyclic across goroutines.
type evalPath struct {
	key  Key
	prev *evalPath
}

func (p *evalPath) contains(key Key) bool {
	for n := p; n != nil; n = n.prev {
		if n.key == key {
			return true
		}
	}
	return false
}

func (e *Engine) lookup(key Key) *entry {
	e.entriesMu.RLock()
	ent := e.entries[key]
	e.entriesMu.RUnlock()
	return ent
}

func (e *Engine) entryFor(key Key) *entry {
	e.entriesMu.Lock()
	ent := e.entries[key]
	if ent == nil {
		ent = &entry{}
		e.entries[key] = ent
	}
	e.entriesMu.Unlock()
	return ent
}

// ensure returns the value for key, valid at rev. It serves a memoized
// hit, revalidates against recorded dependencies, or recomputes, in that
// order of preference. The returned uint64 is the entry's changedAt, for
// the caller's own dependency record.
func (e *Engine) ensure(path *evalPath, key Key, rev uint64) (any, uint64, error) {
	if path.contains(key) {
		return nil, 0, ErrCycle
	}
	if ent := e.lookup(key); ent != nil {
		ent.mu.Lock()
		if ent.valid && ent.verifiedAt == rev {
			v, at := ent.value, ent.changedAt
			ent.mu.Unlock()
			e.countHit(key.Query)
			return v, at, nil
		}
		valid := ent.valid
		deps := make([]dep, len(ent.deps))
		copy(deps, ent.deps)
		ent.mu.Unlock()

		if valid {
			ok, err := e.depsStillValid(path, key, deps, rev)
			if err != nil {
				return nil, 0, err
			}
			if ok {
				if v, at, marked := e.markValid(ent, rev); marked {
					e.countHit(key.Query)
					return v, at, nil
				}
				return nil, 0, ErrSuperseded
			}
		}
	}

	// Recompute, deduplicated so concurrent readers of the same key at
	// the same revision share one execution.
	type result struct {
		value any
		at    uint64
	}
	v, err, _ := e.flights.Do(flightKey(key, rev), func() (any, error) {
		if ent := e.lookup(key); ent != nil {
			ent.mu.Lock()
			if ent.valid && ent.verifiedAt == rev {
				r := result{ent.value, ent.changedAt}
				ent.mu.Unlock()
				e.countHit(key.Query)
				return r, nil
			}
			ent.mu.Unlock()
		}
		val, at, err := e.compute(path, key, rev)
		if err != nil {
			return nil, err
		}
		return result{val, at}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	r := v.(result)
	return r.value, r.at, nil
}

// depsStillValid replays the recorded reads in order against current
// state. Query deps revalidate recursively, so a chain of unchanged
// intermediates verifies without recomputing anything.
func (e *Engine) depsStillValid(path *evalPath, key Key, deps []dep, rev uint64) (bool, error) {
	self := &evalPath{key: key, prev: path}
	for _, d := range deps {
		switch d.kind {
		case depText:
			cur, ok := e.readFileRevision(d.file, rev)
			if !ok {
				return false, nil
			}
			if cur != d.at {
				return false, nil
			}
		case depLive:
			cur, err := e.readLiveRevision(rev)
			if err != nil {
				return false, err
			}
			if cur != d.at {
				return false, nil
			}
		case depQuery:
			_, at, err := e.ensure(self, d.key, rev)
			if err != nil {
				if errors.Is(err, ErrSuperseded) || errors.Is(err, ErrCycle) || errors.Is(err, ErrUnregistered) {
					return false, err
				}
				// The dependency now fails (its file may have left the
				// workspace). That is a change; recompute the dependent
				// against current state.
				return false, nil
			}
			if at != d.at {
				return false, nil
			}
		}
	}
	return true, nil
}

// markValid records a successful revalidation. It fails when a write
// landed after the dependency checks, in which case nothing is recorded.
func (e *Engine) markValid(ent *entry, rev uint64) (any, uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.rev != rev {
		return nil, 0, false
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if !ent.valid {
		return nil, 0, false
	}
	ent.verifiedAt = rev
	return ent.value, ent.changedAt, true
}

func (e *Engine) compute(path *evalPath, key Key, rev uint64) (any, uint64, error) {
	fn := e.fns[key.Query]
	if fn == nil {
		return nil, 0, ErrUnregistered
	}
	ctx := &Ctx{
		engine: e,
		rev:    rev,
		path:   &evalPath{key: key, prev: path},
		key:    key,
	}
	e.countCompute(key.Query)
	val, err := fn(ctx, key)
	if err != nil {
		// Errors are never memoized; the next read retries the function.
		return nil, 0, err
	}
	return e.commit(key, rev, val, ctx.deps)
}

// commit installs a computed value. Under the read side of the write
// barrier the revision cannot advance mid-commit, so a committed entry
// is genuinely valid at rev; a computation already passed by a write is
// discarded here.
func (e *Engine) commit(key Key, rev uint64, val any, deps []dep) (any, uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.rev != rev {
		return nil, 0, ErrSuperseded
	}
	ent := e.entryFor(key)
	ent.mu.Lock()
	defer ent.mu.Unlock()

	fp, hasFP := fingerprintOf(val)
	if ent.valid && ent.hasFP && hasFP && ent.fp == fp {
		// Equal result: refresh deps and verification, keep the old value
		// and changedAt so dependents stay valid.
		ent.deps = deps
		ent.verifiedAt = rev
		e.countCutoff(key.Query)
		return ent.value, ent.changedAt, nil
	}

	ent.valid = true
	ent.value = val
	ent.fp = fp
	ent.hasFP = hasFP
	ent.deps = deps
	ent.verifiedAt = rev
	ent.changedAt = rev
	return val, rev, nil
}

// readFileRevision is a tracked read of one file's content revision.
func (e *Engine) readFileRevision(file source.FileID, rev uint64) (uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.rev != rev {
		return 0, false
	}
	cur, ok := e.inputs.Revision(file)
	if !ok {
		return 0, false
	}
	return cur, true
}

func (e *Engine) readLiveRevision(rev uint64) (uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.rev != rev {
		return 0, ErrSuperseded
	}
	return e.inputs.LiveRevision(), nil
}

func flightKey(key Key, rev uint64) string {
	// Revision in the flight key keeps superseded computations from
	// blocking readers at the new revision.
	return key.String() + "@" + strconv.FormatUint(rev, 10)
}
