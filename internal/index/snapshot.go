package index

import (
	"cmp"
	"encoding/binary"
	"maps"
	"slices"

	"github.com/zeebo/xxh3"

	"syster/internal/memo"
	"syster/internal/source"
)

// shardCount fixes the shard array size. Shards bound how much a
// single-file merge copies: only shards holding one of the file's keys
// are cloned, the rest are shared with the previous snapshot.
const shardCount = 64

type shard struct {
	defs          map[source.StringID][]Entry      // qualified name -> candidates
	aliases       map[source.StringID][]AliasEntry // alias qualified name -> records
	members       map[source.StringID][]Entry      // namespace -> member declarations
	memberAliases map[source.StringID][]AliasEntry // namespace -> member aliases
	reex          map[source.StringID][]ReExport   // namespace -> re-exports
	simple        map[source.StringID][]Entry      // simple name -> declarations
}

func newShard() *shard {
	return &shard{
		defs:          make(map[source.StringID][]Entry),
		aliases:       make(map[source.StringID][]AliasEntry),
		members:       make(map[source.StringID][]Entry),
		memberAliases: make(map[source.StringID][]AliasEntry),
		reex:          make(map[source.StringID][]ReExport),
		simple:        make(map[source.StringID][]Entry),
	}
}

func cloneShard(sh *shard) *shard {
	if sh == nil {
		return newShard()
	}
	return &shard{
		defs:          maps.Clone(sh.defs),
		aliases:       maps.Clone(sh.aliases),
		members:       maps.Clone(sh.members),
		memberAliases: maps.Clone(sh.memberAliases),
		reex:          maps.Clone(sh.reex),
		simple:        maps.Clone(sh.simple),
	}
}

func shardOf(id source.StringID) int {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(id))
	return int(xxh3.Hash(buf[:]) % shardCount)
}

// Reader is the lookup surface resolution walks read. *Snapshot
// implements it directly; the host wraps the same surface in
// dependency-tracked sub-queries so an edit only invalidates
// resolutions whose looked-up names actually changed.
type Reader interface {
	Name(q source.StringID) NameInfo
	Members(owner source.StringID) MemberInfo
}

// Snapshot is one immutable state of the whole-workspace symbol index.
// Deriving the next snapshot shares every untouched shard, so readers
// holding an old snapshot are never disturbed and a one-file edit stays
// cheap regardless of workspace size.
type Snapshot struct {
	shards   [shardCount]*shard
	contribs map[source.FileID]*Contribution
}

// Empty is the index of zero files.
func Empty() *Snapshot {
	return &Snapshot{contribs: make(map[source.FileID]*Contribution)}
}

// Name returns everything keyed directly under a qualified name.
func (s *Snapshot) Name(q source.StringID) NameInfo {
	sh := s.shards[shardOf(q)]
	if sh == nil {
		return NameInfo{}
	}
	return NameInfo{Defs: sh.defs[q], Aliases: sh.aliases[q]}
}

// Members returns the direct membership of a namespace, including the
// re-exports donated to it. The file root namespace is NoStringID.
func (s *Snapshot) Members(owner source.StringID) MemberInfo {
	sh := s.shards[shardOf(owner)]
	if sh == nil {
		return MemberInfo{}
	}
	return MemberInfo{
		Defs:      sh.members[owner],
		Aliases:   sh.memberAliases[owner],
		ReExports: sh.reex[owner],
	}
}

// Simple returns every declaration with the given last segment.
func (s *Snapshot) Simple(name source.StringID) []Entry {
	sh := s.shards[shardOf(name)]
	if sh == nil {
		return nil
	}
	return sh.simple[name]
}

// ContributionOf returns the contribution currently applied for a file.
func (s *Snapshot) ContributionOf(f source.FileID) *Contribution {
	return s.contribs[f]
}

// Files returns the indexed files in ascending order.
func (s *Snapshot) Files() []source.FileID {
	ids := make([]source.FileID, 0, len(s.contribs))
	for f := range s.contribs {
		ids = append(ids, f)
	}
	slices.Sort(ids)
	return ids
}

// WithFile derives a snapshot with the file's contribution replaced.
func (s *Snapshot) WithFile(c *Contribution) *Snapshot {
	return s.apply(c.File, c)
}

// WithoutFile derives a snapshot with the file's entries dropped.
func (s *Snapshot) WithoutFile(f source.FileID) *Snapshot {
	if s.contribs[f] == nil {
		return s
	}
	return s.apply(f, nil)
}

// Fingerprint combines per-file contribution fingerprints order
// independently, so two snapshots built from the same contributions in
// any merge order compare equal.
func (s *Snapshot) Fingerprint() uint64 {
	var acc uint64
	for f, c := range s.contribs {
		d := memo.NewDigest()
		d.Uint32(uint32(f)).Uint64(c.fp)
		acc ^= d.Sum()
	}
	return acc
}

func (s *Snapshot) apply(file source.FileID, next *Contribution) *Snapshot {
	out := &Snapshot{
		shards:   s.shards,
		contribs: maps.Clone(s.contribs),
	}
	if out.contribs == nil {
		out.contribs = make(map[source.FileID]*Contribution)
	}

	prev := s.contribs[file]
	var touched [shardCount]bool
	markTouched(prev, &touched)
	markTouched(next, &touched)
	for i := range touched {
		if touched[i] {
			out.shards[i] = cloneShard(s.shards[i])
		}
	}

	if prev != nil {
		out.scrub(prev)
	}
	if next != nil {
		out.insert(next)
		out.contribs[file] = next
	} else {
		delete(out.contribs, file)
	}
	return out
}

func markTouched(c *Contribution, touched *[shardCount]bool) {
	if c == nil {
		return
	}
	for i := range c.Defs {
		e := &c.Defs[i]
		touched[shardOf(e.QName)] = true
		touched[shardOf(e.Owner)] = true
		touched[shardOf(e.Name)] = true
	}
	for i := range c.Aliases {
		a := &c.Aliases[i]
		touched[shardOf(a.QName)] = true
		touched[shardOf(a.Owner)] = true
	}
	for i := range c.ReExports {
		touched[shardOf(c.ReExports[i].Owner)] = true
	}
}

// scrub drops every record the contribution's file donated under the
// contribution's keys. Touched shards are already private copies.
func (s *Snapshot) scrub(c *Contribution) {
	for i := range c.Defs {
		e := &c.Defs[i]
		scrubEntries(s.shards[shardOf(e.QName)].defs, e.QName, c.File)
		scrubEntries(s.shards[shardOf(e.Owner)].members, e.Owner, c.File)
		scrubEntries(s.shards[shardOf(e.Name)].simple, e.Name, c.File)
	}
	for i := range c.Aliases {
		a := &c.Aliases[i]
		scrubAliases(s.shards[shardOf(a.QName)].aliases, a.QName, c.File)
		scrubAliases(s.shards[shardOf(a.Owner)].memberAliases, a.Owner, c.File)
	}
	for i := range c.ReExports {
		owner := c.ReExports[i].Owner
		scrubReExports(s.shards[shardOf(owner)].reex, owner, c.File)
	}
}

func (s *Snapshot) insert(c *Contribution) {
	for i := range c.Defs {
		e := c.Defs[i]
		putEntry(s.shards[shardOf(e.QName)].defs, e.QName, e)
		putEntry(s.shards[shardOf(e.Owner)].members, e.Owner, e)
		putEntry(s.shards[shardOf(e.Name)].simple, e.Name, e)
	}
	for i := range c.Aliases {
		a := c.Aliases[i]
		putAlias(s.shards[shardOf(a.QName)].aliases, a.QName, a)
		putAlias(s.shards[shardOf(a.Owner)].memberAliases, a.Owner, a)
	}
	for i := range c.ReExports {
		re := c.ReExports[i]
		putReExport(s.shards[shardOf(re.Owner)].reex, re.Owner, re)
	}
}

// Candidate lists stay sorted by identity so lookup order never depends
// on merge order.

func scrubEntries(m map[source.StringID][]Entry, key source.StringID, file source.FileID) {
	old, ok := m[key]
	if !ok {
		return
	}
	kept := slices.DeleteFunc(slices.Clone(old), func(e Entry) bool { return e.Def.File == file })
	if len(kept) == 0 {
		delete(m, key)
		return
	}
	m[key] = kept
}

func scrubAliases(m map[source.StringID][]AliasEntry, key source.StringID, file source.FileID) {
	old, ok := m[key]
	if !ok {
		return
	}
	kept := slices.DeleteFunc(slices.Clone(old), func(a AliasEntry) bool { return a.File == file })
	if len(kept) == 0 {
		delete(m, key)
		return
	}
	m[key] = kept
}

func scrubReExports(m map[source.StringID][]ReExport, key source.StringID, file source.FileID) {
	old, ok := m[key]
	if !ok {
		return
	}
	kept := slices.DeleteFunc(slices.Clone(old), func(re ReExport) bool { return re.File == file })
	if len(kept) == 0 {
		delete(m, key)
		return
	}
	m[key] = kept
}

func putEntry(m map[source.StringID][]Entry, key source.StringID, e Entry) {
	list := append(slices.Clone(m[key]), e)
	slices.SortFunc(list, func(a, b Entry) int {
		if c := cmp.Compare(a.Def.File, b.Def.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Def.Local, b.Def.Local)
	})
	m[key] = list
}

func putAlias(m map[source.StringID][]AliasEntry, key source.StringID, a AliasEntry) {
	list := append(slices.Clone(m[key]), a)
	slices.SortFunc(list, func(x, y AliasEntry) int {
		if c := cmp.Compare(x.File, y.File); c != 0 {
			return c
		}
		return cmp.Compare(x.Alias, y.Alias)
	})
	m[key] = list
}

func putReExport(m map[source.StringID][]ReExport, key source.StringID, re ReExport) {
	list := append(slices.Clone(m[key]), re)
	slices.SortFunc(list, func(x, y ReExport) int {
		if c := cmp.Compare(x.File, y.File); c != 0 {
			return c
		}
		return cmp.Compare(x.Import, y.Import)
	})
	m[key] = list
}
