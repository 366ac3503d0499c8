package resolve

import (
	"syster/internal/index"
	"syster/internal/memo"
)

// Status is the overall verdict of a resolution.
type Status uint8

const (
	// Unresolved means no visible declaration matched.
	Unresolved Status = iota
	// Resolved means exactly one declaration won.
	Resolved
	// Ambiguous means several declarations tied at the winning level.
	Ambiguous
)

var statusNames = [...]string{
	Unresolved: "unresolved",
	Resolved:   "resolved",
	Ambiguous:  "ambiguous",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "status(?)"
}

// Provenance says how a candidate became visible at its scope level.
// Lower values dominate when candidates tie at one level.
type Provenance uint8

const (
	// ProvDeclared is an own declaration at the level.
	ProvDeclared Provenance = iota
	// ProvImported is a name brought in by an alias or a named import.
	ProvImported
	// ProvWildcard is a name brought in by a wildcard import.
	ProvWildcard
	// ProvInherited is a name reached through the specialization chain.
	ProvInherited
)

var provenanceNames = [...]string{
	ProvDeclared:  "declared",
	ProvImported:  "imported",
	ProvWildcard:  "wildcard",
	ProvInherited: "inherited",
}

func (p Provenance) String() string {
	if int(p) < len(provenanceNames) {
		return provenanceNames[p]
	}
	return "provenance(?)"
}

// Candidate is one declaration a resolution considered, with the route
// that made it visible.
type Candidate struct {
	Entry index.Entry
	Rank  Provenance
}

// Outcome is the result of resolving a reference.
type Outcome struct {
	Status Status
	// Candidates holds the winner when Resolved and the surviving tie
	// when Ambiguous, in definition identity order. Empty when
	// Unresolved.
	Candidates []Candidate
	// FailedAt is the zero-based index of the qualified-name segment
	// that produced no match. Always 0 for simple names; meaningful
	// only when Unresolved.
	FailedAt int
}

// Target returns the single resolved definition identity.
func (o Outcome) Target() index.DefRef {
	if o.Status != Resolved || len(o.Candidates) == 0 {
		return index.NoDefRef
	}
	return o.Candidates[0].Entry.Def
}

// Entry returns the single resolved entry.
func (o Outcome) Entry() (index.Entry, bool) {
	if o.Status != Resolved || len(o.Candidates) == 0 {
		return index.Entry{}, false
	}
	return o.Candidates[0].Entry, true
}

// Fingerprint covers everything a consumer of the outcome can observe,
// so memoized resolutions cut off when an edit leaves them unchanged.
func (o Outcome) Fingerprint() uint64 {
	d := memo.NewDigest()
	d.Byte(byte(o.Status))
	d.Uint64(uint64(int64(o.FailedAt)))
	d.Uint64(uint64(len(o.Candidates)))
	for _, c := range o.Candidates {
		e := c.Entry
		d.Uint32(uint32(e.Def.File)).Uint32(uint32(e.Def.Local))
		d.Uint32(uint32(e.Name)).Uint32(uint32(e.QName)).Uint32(uint32(e.Owner))
		d.Byte(byte(e.Kind)).Byte(byte(e.Flags)).Bool(e.Public)
		d.Byte(byte(c.Rank))
	}
	return d.Sum()
}

func unresolvedAt(seg int) Outcome {
	return Outcome{Status: Unresolved, FailedAt: seg}
}
