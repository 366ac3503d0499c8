package host

import (
	"errors"
	"fmt"
	"slices"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/index"
	"syster/internal/memo"
	"syster/internal/parser"
	"syster/internal/resolve"
	"syster/internal/sema"
	"syster/internal/source"
	"syster/internal/symbols"
)

// maxParseDiags caps syntax diagnostics per file.
const maxParseDiags = 128

// parseValue is the memoized outcome of parsing one file. It has no
// fingerprint: cutoff happens downstream, where values abstract away
// from the tree.
type parseValue struct {
	tree    *ast.Tree
	diags   []diag.Diagnostic
	builtin bool
}

func (h *Host) parseQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	txt, err := ctx.Text(key.File)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxParseDiags)
	res := parser.ParseText(txt, h.store.Names(), parser.Options{
		MaxErrors: maxParseDiags,
		// Recovery can trip over the same spot twice; report it once.
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	})
	return &parseValue{
		tree:    res.Tree,
		diags:   slices.Clone(bag.Items()),
		builtin: txt.Flags&source.FileBuiltin != 0,
	}, nil
}

func (h *Host) symbolsQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	v, err := ctx.Get(memo.Key{Query: qParse, File: key.File})
	if err != nil {
		return nil, err
	}
	pv := v.(*parseValue)
	return symbols.Extract(pv.tree, h.store.Names(), pv.builtin), nil
}

func (h *Host) contributionQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	v, err := ctx.Get(memo.Key{Query: qSymbols, File: key.File})
	if err != nil {
		return nil, err
	}
	return index.BuildContribution(v.(*symbols.FileSymbols)), nil
}

// indexQuery folds every live file's contribution into one snapshot.
// It merges from its own prior value: files whose contribution is the
// same object are already folded in, so an edit to one file costs one
// WithFile, not a rebuild from scratch.
func (h *Host) indexQuery(ctx *memo.Ctx, _ memo.Key) (any, error) {
	live, err := ctx.LiveFiles()
	if err != nil {
		return nil, err
	}

	snap := index.Empty()
	var prior *index.Snapshot
	if v, ok := ctx.Prior(); ok {
		prior = v.(*index.Snapshot)
		snap = prior
	}

	seen := make(map[source.FileID]bool, len(live))
	for _, f := range live {
		v, err := ctx.Get(memo.Key{Query: qContribution, File: f})
		if err != nil {
			return nil, err
		}
		c := v.(*index.Contribution)
		seen[f] = true
		if prior != nil && prior.ContributionOf(f) == c {
			continue
		}
		snap = snap.WithFile(c)
	}
	if prior != nil {
		for _, f := range prior.Files() {
			if !seen[f] {
				snap = snap.WithoutFile(f)
			}
		}
	}
	return snap, nil
}

// lookupQuery narrows the index to one qualified name. Its fingerprint
// is what isolates resolutions from each other: an edit invalidates
// only the resolutions that looked up a name it changed.
func (h *Host) lookupQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	v, err := ctx.Get(memo.Key{Query: qIndex})
	if err != nil {
		return nil, err
	}
	return v.(*index.Snapshot).Name(source.StringID(key.Arg)), nil
}

func (h *Host) membersQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	v, err := ctx.Get(memo.Key{Query: qIndex})
	if err != nil {
		return nil, err
	}
	return v.(*index.Snapshot).Members(source.StringID(key.Arg)), nil
}

// abortive reports engine-level errors that must cancel the running
// evaluation instead of being absorbed as missing data.
func abortive(err error) bool {
	return errors.Is(err, memo.ErrSuperseded) ||
		errors.Is(err, memo.ErrCycle) ||
		errors.Is(err, memo.ErrUnregistered)
}

// view is the dependency-tracked lens a query evaluation reads the
// workspace through. It satisfies both the resolver's index.Reader and
// its Workspace, backed by sub-queries so every read becomes a
// dependency of the caller. Data-level failures (a file retired while
// this evaluation ran) surface as zero results, which resolution treats
// as dead ends; engine-level failures latch into err and abort the
// evaluation.
type view struct {
	h   *Host
	ctx *memo.Ctx
	err error
}

func (v *view) fail(err error) {
	if v.err == nil {
		v.err = err
	}
}

func (v *view) Name(q source.StringID) index.NameInfo {
	val, err := v.ctx.Get(memo.Key{Query: qLookup, Arg: uint32(q)})
	if err != nil {
		if abortive(err) {
			v.fail(err)
		}
		return index.NameInfo{}
	}
	return val.(index.NameInfo)
}

func (v *view) Members(owner source.StringID) index.MemberInfo {
	val, err := v.ctx.Get(memo.Key{Query: qMembers, Arg: uint32(owner)})
	if err != nil {
		if abortive(err) {
			v.fail(err)
		}
		return index.MemberInfo{}
	}
	return val.(index.MemberInfo)
}

func (v *view) FileSymbols(f source.FileID) *symbols.FileSymbols {
	val, err := v.ctx.Get(memo.Key{Query: qSymbols, File: f})
	if err != nil {
		if abortive(err) {
			v.fail(err)
		}
		return nil
	}
	return val.(*symbols.FileSymbols)
}

func (v *view) Tree(f source.FileID) *ast.Tree {
	val, err := v.ctx.Get(memo.Key{Query: qParse, File: f})
	if err != nil {
		if abortive(err) {
			v.fail(err)
		}
		return nil
	}
	return val.(*parseValue).tree
}

func (v *view) resolver() *resolve.Resolver {
	return resolve.New(v, v.h.store.Names(), v)
}

// base loads the evaluation's own file. A nil result means the file
// left the live set; the caller returns the error to keep the stale
// evaluation out of the cache.
func (v *view) base(f source.FileID) (*symbols.FileSymbols, *ast.Tree, error) {
	fs := v.FileSymbols(f)
	tree := v.Tree(f)
	if v.err != nil {
		return nil, nil, v.err
	}
	if fs == nil || tree == nil {
		return nil, nil, fmt.Errorf("analyze %s: %w", v.h.store.PathOf(f), source.ErrNotLive)
	}
	return fs, tree, nil
}

func (h *Host) resolveQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	v := &view{h: h, ctx: ctx}
	fs, tree, err := v.base(key.File)
	if err != nil {
		return nil, err
	}
	out := v.resolver().Resolve(fs, tree, ast.RefID(key.Arg))
	if v.err != nil {
		return nil, v.err
	}
	return out, nil
}

// refPair records where one reference site lands.
type refPair struct {
	Ref    ast.RefID
	Target index.DefRef
}

// fileRefs is every resolved reference site of one file in document
// order. Unresolved and ambiguous sites are absent.
type fileRefs struct {
	pairs []refPair
}

func (r *fileRefs) Fingerprint() uint64 {
	d := memo.NewDigest()
	d.Uint64(uint64(len(r.pairs)))
	for _, p := range r.pairs {
		d.Uint32(uint32(p.Ref))
		d.Uint32(uint32(p.Target.File)).Uint32(uint32(p.Target.Local))
	}
	return d.Sum()
}

func (h *Host) fileRefsQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	v := &view{h: h, ctx: ctx}
	fs, tree, err := v.base(key.File)
	if err != nil {
		return nil, err
	}
	r := v.resolver()
	out := &fileRefs{}
	for i := range fs.Refs {
		site := &fs.Refs[i]
		oc := r.Resolve(fs, tree, site.Ref)
		if v.err != nil {
			return nil, v.err
		}
		if oc.Status != resolve.Resolved {
			continue
		}
		out.pairs = append(out.pairs, refPair{Ref: site.Ref, Target: oc.Target()})
	}
	return out, nil
}

// siteRef locates one referencing site in the workspace.
type siteRef struct {
	File source.FileID
	Ref  ast.RefID
}

// refList is every site that resolves to one definition, ordered by
// file then document position.
type refList struct {
	sites []siteRef
}

func (r *refList) Fingerprint() uint64 {
	d := memo.NewDigest()
	d.Uint64(uint64(len(r.sites)))
	for _, s := range r.sites {
		d.Uint32(uint32(s.File)).Uint32(uint32(s.Ref))
	}
	return d.Sum()
}

func (h *Host) refsToQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	target := index.DefRef{File: key.File, Local: symbols.LocalID(key.Arg)}
	live, err := ctx.LiveFiles()
	if err != nil {
		return nil, err
	}
	out := &refList{}
	for _, f := range live {
		v, err := ctx.Get(memo.Key{Query: qFileRefs, File: f})
		if err != nil {
			if abortive(err) {
				return nil, err
			}
			// The file fell out mid-walk; its sites went with it.
			continue
		}
		for _, p := range v.(*fileRefs).pairs {
			if p.Target == target {
				out.sites = append(out.sites, siteRef{File: f, Ref: p.Ref})
			}
		}
	}
	return out, nil
}

// checkResult wraps one file's semantic diagnostics. The pointer is the
// cached value: when a recheck cuts off, dependents keep observing the
// same object.
type checkResult struct {
	diags []diag.Diagnostic
}

func (c *checkResult) Fingerprint() uint64 {
	d := memo.NewDigest()
	d.Uint64(uint64(len(c.diags)))
	for i := range c.diags {
		hashDiagnostic(d, &c.diags[i])
	}
	return d.Sum()
}

func hashDiagnostic(d *memo.Digest, dg *diag.Diagnostic) {
	d.Byte(byte(dg.Severity)).Uint32(uint32(dg.Code))
	d.String(dg.Message)
	hashSpan(d, dg.Primary)
	d.Uint64(uint64(len(dg.Notes)))
	for _, n := range dg.Notes {
		hashSpan(d, n.Span)
		d.String(n.Msg)
	}
	d.Uint64(uint64(len(dg.Fixes)))
	for _, f := range dg.Fixes {
		d.String(f.Title)
		d.Uint64(uint64(len(f.Edits)))
		for _, e := range f.Edits {
			hashSpan(d, e.Span)
			d.String(e.NewText)
		}
	}
}

func hashSpan(d *memo.Digest, sp source.Span) {
	d.Uint32(uint32(sp.File)).Uint32(sp.Start).Uint32(sp.End)
}

// refsView answers the unused-symbol pass from the reverse-reference
// query.
type refsView struct {
	v *view
}

func (r refsView) Referenced(def index.DefRef) bool {
	val, err := r.v.ctx.Get(memo.Key{Query: qRefsTo, File: def.File, Arg: uint32(def.Local)})
	if err != nil {
		if abortive(err) {
			r.v.fail(err)
		}
		// Suppress the warning rather than invent one from a failed read.
		return true
	}
	return len(val.(*refList).sites) > 0
}

func (h *Host) checkQuery(ctx *memo.Ctx, key memo.Key) (any, error) {
	v := &view{h: h, ctx: ctx}
	fs, tree, err := v.base(key.File)
	if err != nil {
		return nil, err
	}
	diags := sema.CheckFile(fs, tree, sema.Options{
		Resolver: v.resolver(),
		Snap:     v,
		Names:    h.store.Names(),
		Src:      v,
		Refs:     refsView{v: v},
		MaxDiags: h.opts.MaxDiagnostics,
	})
	if v.err != nil {
		return nil, v.err
	}
	return &checkResult{diags: diags}, nil
}
