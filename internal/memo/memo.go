package memo

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"syster/internal/source"
)

var (
	// ErrSuperseded aborts a computation whose base revision was passed by
	// a write. The caller re-reads at the new revision.
	ErrSuperseded = errors.New("computation superseded by a write")
	// ErrCycle reports a query that depends on itself.
	ErrCycle = errors.New("query dependency cycle")
	// ErrUnregistered reports a query kind with no registered function.
	ErrUnregistered = errors.New("unregistered query kind")
)

// QueryKind identifies a registered query function.
type QueryKind uint8

// MaxQueryKinds bounds the registration table.
const MaxQueryKinds = 32

// Key addresses one memoized computation: a query kind applied to an
// input key. File and Arg are free-form; kinds without a file use
// NoFileID, kinds with an extra argument (an interned name, a local id)
// put it in Arg.
type Key struct {
	Query QueryKind
	File  source.FileID
	Arg   uint32
}

func (k Key) String() string {
	return fmt.Sprintf("q%d:f%d:a%d", k.Query, k.File, k.Arg)
}

// Fn computes the value for a key. It must be pure apart from reads
// through the Ctx: same inputs, same value. Results must be treated as
// immutable once returned.
type Fn func(ctx *Ctx, key Key) (any, error)

// Inputs is the external state queries read through the engine. A
// *source.Store satisfies it.
type Inputs interface {
	Text(id source.FileID) (*source.Text, error)
	Revision(id source.FileID) (uint64, bool)
	Live() []source.FileID
	LiveRevision() uint64
}

// Engine is the memoization table and revision clock. Reads run
// concurrently; writes are barriers that advance the revision and
// invalidate affected entries lazily.
type Engine struct {
	inputs Inputs

	// mu orders tracked input reads against writes. A write holds the
	// write side across mutation plus revision bump, so no tracked read
	// can observe mutated state under an unchanged revision.
	mu  sync.RWMutex
	rev uint64

	entriesMu sync.RWMutex
	entries   map[Key]*entry

	flights singleflight.Group

	fns   [MaxQueryKinds]Fn
	names [MaxQueryKinds]string

	statsMu sync.Mutex
	stats   [MaxQueryKinds]KindStats
}

// KindStats counts engine activity for one query kind.
type KindStats struct {
	Name     string
	Computes uint64 // query function executions
	Hits     uint64 // served without running the function
	Cutoffs  uint64 // recomputed to an equal value, change not propagated
}

// New creates an engine over the given inputs.
func New(inputs Inputs) *Engine {
	return &Engine{
		inputs:  inputs,
		entries: make(map[Key]*entry),
	}
}

// Register installs the function for a query kind. Must be called before
// the first Get; kinds are fixed for the engine's lifetime. The query
// graph formed by registered functions must be acyclic.
func (e *Engine) Register(q QueryKind, name string, fn Fn) {
	if q >= MaxQueryKinds {
		panic(fmt.Errorf("query kind %d out of range", q))
	}
	if e.fns[q] != nil {
		panic(fmt.Errorf("query kind %d registered twice", q))
	}
	e.fns[q] = fn
	e.names[q] = name
}

// Write runs a mutation of the engine's inputs as a barrier: it waits for
// in-flight tracked reads, applies the mutation, and advances the
// revision. Computations based on the old revision abort at their next
// tracked read.
func (e *Engine) Write(mutate func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mutate()
	e.rev++
}

// Revision returns the current revision.
func (e *Engine) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rev
}

// Get evaluates a query at the current revision, reusing every memoized
// result that is still valid. It returns ErrSuperseded when a write lands
// mid-evaluation; callers retry to read post-write state.
func (e *Engine) Get(key Key) (any, error) {
	rev := e.Revision()
	v, _, err := e.ensure(nil, key, rev)
	return v, err
}

// Stats snapshots the per-kind counters.
func (e *Engine) Stats() []KindStats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	out := make([]KindStats, 0, MaxQueryKinds)
	for q := range e.stats {
		if e.fns[q] == nil {
			continue
		}
		s := e.stats[q]
		s.Name = e.names[q]
		out = append(out, s)
	}
	return out
}

// Computes returns the execution count for one kind, for tests and
// timing reports.
func (e *Engine) Computes(q QueryKind) uint64 {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats[q].Computes
}

func (e *Engine) countCompute(q QueryKind) {
	e.statsMu.Lock()
	e.stats[q].Computes++
	e.statsMu.Unlock()
}

func (e *Engine) countHit(q QueryKind) {
	e.statsMu.Lock()
	e.stats[q].Hits++
	e.statsMu.Unlock()
}

func (e *Engine) countCutoff(q QueryKind) {
	e.statsMu.Lock()
	e.stats[q].Cutoffs++
	e.statsMu.Unlock()
}
