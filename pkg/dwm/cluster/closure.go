// Package cluster computes transitive closures over linked pairs and
// maintains the LinkIndex that survives across iterations (§4.7, §4.8).
package cluster

import (
	"sort"

	"github.com/oysterer/dwm/pkg/dwm/reftoken"
	"github.com/oysterer/dwm/pkg/dwm/score"
)

// Cluster is a group of references judged to be the same entity. Rep is
// always the lexicographically smallest RefID in Members (spec §3).
type Cluster struct {
	Rep     reftoken.RefID
	Members []reftoken.RefID
}

// unionFind is a standard disjoint-set structure keyed by RefID.
type unionFind struct {
	parent map[reftoken.RefID]reftoken.RefID
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[reftoken.RefID]reftoken.RefID)}
}

func (u *unionFind) find(x reftoken.RefID) reftoken.RefID {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
		return x
	}
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		next := u.parent[x]
		u.parent[x] = root
		x = next
	}
	return root
}

func (u *unionFind) union(a, b reftoken.RefID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Always attach the lexicographically larger root under the smaller
	// one, so the eventual representative is the minimum RefID without
	// a separate relabeling pass.
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

// TransitiveClosure groups linked pairs into clusters via union-find:
// any chain of pairwise links puts every reference in the chain into
// one cluster, represented by its lexicographically smallest RefID.
func TransitiveClosure(pairs []score.LinkedPair) []Cluster {
	uf := newUnionFind()
	for _, p := range pairs {
		uf.union(p.A, p.B)
	}

	groups := make(map[reftoken.RefID][]reftoken.RefID)
	for x := range uf.parent {
		root := uf.find(x)
		groups[root] = append(groups[root], x)
	}

	out := make([]Cluster, 0, len(groups))
	for root, members := range groups {
		sort.Strings(members)
		out = append(out, Cluster{Rep: root, Members: members})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rep < out[j].Rep })
	return out
}
