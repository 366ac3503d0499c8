// Package resolve turns reference sites into definition identities.
//
// Resolution walks the site's scope chain innermost to outermost and
// stops at the first level that offers a candidate, so inner
// declarations shadow outer ones. Within a level every candidate
// carries a provenance rank (declared, imported, wildcard, inherited);
// only the strongest rank present survives, identical identities
// reached through different routes collapse, and a surviving tie is an
// ambiguity rather than a pick. Qualified names anchor their first
// segment through the scope chain and then descend namespace by
// namespace through members, re-exports, and inherited members.
//
// A Resolver is a per-evaluation object over one index snapshot.
// Aliases resolve in the scope they are declared in, imports in the
// scope they are written in, and all three indirections (aliases,
// import paths, specialization chains) are cycle-guarded by trails on
// the resolver.
package resolve
