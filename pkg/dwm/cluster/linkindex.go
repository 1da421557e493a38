package cluster

import "github.com/oysterer/dwm/pkg/dwm/reftoken"

// LinkIndex maps every known RefID to its cluster's representative
// RefID. It is idempotent and path-compressed: LinkIndex[r] always
// names a representative directly, never a RefID that itself needs
// another lookup (spec §3).
type LinkIndex map[reftoken.RefID]reftoken.RefID

// BuildLinkIndex seeds a fresh LinkIndex with every known RefID mapped
// to itself (a singleton cluster), per the Open Questions decision in
// SPEC_FULL.md §9: every input reference is present in the LinkIndex
// from the start and is never removed by later merges, only re-pointed
// to a larger cluster's representative.
func BuildLinkIndex(refIDs []reftoken.RefID) LinkIndex {
	idx := make(LinkIndex, len(refIDs))
	for _, id := range refIDs {
		idx[id] = id
	}
	return idx
}

// Update merges the current clusters into old, a previous LinkIndex,
// and returns a brand new LinkIndex — it never mutates old, so callers
// that still hold a reference to the prior iteration's index see it
// unchanged (spec §9 redesign note: functional merge, not in-place
// mutation).
//
// Merging works by union-find: every reference is first unioned with
// whatever representative old already assigned it (preserving clusters
// formed in earlier iterations), then every member of each new cluster
// is unioned together. A reference that appears in both an old cluster
// and a new one transitively merges the two. The result is
// re-flattened so every reference maps directly to its final
// representative — this is what keeps the output idempotent and
// path-compressed even though several iterations' worth of clusters
// have been folded in.
func Update(old LinkIndex, clusters []Cluster) LinkIndex {
	uf := newUnionFind()

	for ref, rep := range old {
		uf.union(ref, rep)
	}
	for _, c := range clusters {
		for _, member := range c.Members {
			uf.union(c.Rep, member)
		}
	}

	seen := make(map[reftoken.RefID]struct{})
	for ref := range old {
		seen[ref] = struct{}{}
	}
	for _, c := range clusters {
		for _, member := range c.Members {
			seen[member] = struct{}{}
		}
	}

	next := make(LinkIndex, len(seen))
	for ref := range seen {
		next[ref] = uf.find(ref)
	}
	return next
}
