package fingerprint

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// Group is a set of fingerprints considered the same visual change.
type Group struct {
	ID             int
	Representative *types.DiffFingerprint
	Members        int
}

// Grouper assigns fingerprints to groups, first by exact hash and then by
// the best similarity to a recently seen group. Only the most recently used
// hashes are remembered, so memory stays bounded.
type Grouper struct {
	threshold float64

	mtx    sync.Mutex
	recent *lru.Cache // hash -> *Group
	nextID int
}

// NewGrouper returns a Grouper that remembers up to size hashes and joins
// groups at or above the given similarity.
func NewGrouper(size int, threshold float64) (*Grouper, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, skerr.Wrapf(err, "failed to create fingerprint index of size: %d", size)
	}
	return &Grouper{threshold: threshold, recent: c}, nil
}

// Assign returns the group fp belongs to, creating one if needed.
func (g *Grouper) Assign(fp *types.DiffFingerprint) *Group {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if v, ok := g.recent.Get(fp.Hash); ok {
		grp := v.(*Group)
		grp.Members++
		return grp
	}
	var best *Group
	bestScore := g.threshold
	for _, k := range g.recent.Keys() {
		v, ok := g.recent.Peek(k)
		if !ok {
			continue
		}
		grp := v.(*Group)
		if s := Similarity(fp, grp.Representative); s >= bestScore && (best == nil || s > bestScore || grp.ID < best.ID) {
			best, bestScore = grp, s
		}
	}
	if best == nil {
		best = &Group{ID: g.nextID, Representative: fp}
		g.nextID++
	}
	best.Members++
	g.recent.Add(fp.Hash, best)
	return best
}

// Len returns the number of remembered hashes.
func (g *Grouper) Len() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.recent.Len()
}
