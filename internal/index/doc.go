// Package index maintains the whole-workspace symbol index as a chain
// of immutable snapshots. Each file donates a Contribution (its
// declarations, aliases, and re-exports); merging a contribution derives
// a new snapshot that shares every untouched shard with its
// predecessor, so the edit path never refolds the workspace. The
// specialization chain walk and the implicit supertype table live here
// because both the resolver and the checker consume them.
package index
