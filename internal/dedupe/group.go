package dedupe

import (
	"sort"

	"github.com/Nomadcxx/findedupe/internal/matching"
	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/Nomadcxx/findedupe/internal/quality"
)

// Grouper clusters fingerprints of the same kind that the matcher considers
// the same title. Matches are transitive within a group.
type Grouper struct {
	Matcher *matching.Matcher
}

func NewGrouper(m *matching.Matcher) *Grouper {
	return &Grouper{Matcher: m}
}

// Group returns every cluster with at least two members, ordered by group key.
// Candidates inside a group keep their input order.
func (g *Grouper) Group(fps []*media.Fingerprint) []media.DuplicateGroup {
	m := g.Matcher
	if m == nil {
		m = matching.NewMatcher(matching.DefaultThresholds())
	}

	byKind := make(map[media.Kind][]*media.Fingerprint)
	var kinds []media.Kind
	for _, fp := range fps {
		if fp == nil {
			continue
		}
		if _, ok := byKind[fp.Key.Kind]; !ok {
			kinds = append(kinds, fp.Key.Kind)
		}
		byKind[fp.Key.Kind] = append(byKind[fp.Key.Kind], fp)
	}

	var groups []media.DuplicateGroup
	for _, kind := range kinds {
		groups = append(groups, groupKind(m, kind, byKind[kind])...)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].GroupKey != groups[j].GroupKey {
			return groups[i].GroupKey < groups[j].GroupKey
		}
		return groups[i].SuggestedKeeper.String() < groups[j].SuggestedKeeper.String()
	})
	return groups
}

func groupKind(m *matching.Matcher, kind media.Kind, fps []*media.Fingerprint) []media.DuplicateGroup {
	uf := newUnionFind(len(fps))
	for i := 0; i < len(fps); i++ {
		for j := i + 1; j < len(fps); j++ {
			if uf.find(i) == uf.find(j) {
				continue
			}
			if m.Match(fps[i], fps[j]).Same {
				uf.union(i, j)
			}
		}
	}

	members := make(map[int][]int)
	var roots []int
	for i := range fps {
		r := uf.find(i)
		if _, ok := members[r]; !ok {
			roots = append(roots, r)
		}
		members[r] = append(members[r], i)
	}

	var groups []media.DuplicateGroup
	for _, r := range roots {
		idx := members[r]
		if len(idx) < 2 {
			continue
		}

		candidates := make([]*media.Fingerprint, len(idx))
		for n, i := range idx {
			candidates[n] = fps[i]
		}

		keeper := pickKeeper(candidates)
		key := keeper.Key
		groups = append(groups, media.DuplicateGroup{
			GroupKey:        kind.String() + ":" + keeper.Normalized(),
			Kind:            kind,
			Candidates:      candidates,
			SuggestedKeeper: &key,
		})
	}
	return groups
}

func pickKeeper(candidates []*media.Fingerprint) *media.Fingerprint {
	best := candidates[0]
	bestRank := quality.RankOf(best.Path, best.Bytes)
	for _, fp := range candidates[1:] {
		r := quality.RankOf(fp.Path, fp.Bytes)
		if quality.Better(r, bestRank) {
			best, bestRank = fp, r
		}
	}
	return best
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}
