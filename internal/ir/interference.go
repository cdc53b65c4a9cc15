package ir

import (
	"fmt"
	"math/bits"
)

// Live ranges and the interference graph. One range per SSA name: every
// occurrence of a (variable, generation) pair must land in the same
// storage, so occurrences of one name always share a range. Coalescing
// merges move-related ranges; the heuristic deciding which moves to
// coalesce belongs to the register allocator.

// LiveRange groups the occurrences that must share a storage location.
// The register allocator writes its assignment into Reg.
type LiveRange struct {
	ID   int
	Keys []VarKey // member names, grows under coalescing
	Reg  int      // physical register, -1 until allocated
}

func (r *LiveRange) String() string {
	if len(r.Keys) == 1 {
		return r.Keys[0].String()
	}
	return fmt.Sprintf("lr%d", r.ID)
}

// InterferenceGraph is a symmetric adjacency structure over live ranges,
// one bit row per range. Mutations keep the rows consistent immediately;
// there is no deferred-rebuild state.
type InterferenceGraph struct {
	Ranges []*LiveRange // indexed by ID; nil after coalescing away
	rows   []bitset
	fn     *Function // owner, for retagging occurrences on coalesce
}

func NewInterferenceGraph() *InterferenceGraph {
	return &InterferenceGraph{}
}

func (g *InterferenceGraph) NewRange(keys ...VarKey) *LiveRange {
	r := &LiveRange{ID: len(g.Ranges), Keys: keys, Reg: -1}
	g.Ranges = append(g.Ranges, r)
	g.rows = append(g.rows, newBitset(len(g.Ranges)))
	return r
}

// AddInterference records that a and b are simultaneously live. The graph
// is irreflexive: a range never interferes with itself.
func (g *InterferenceGraph) AddInterference(a, b *LiveRange) {
	if a == b {
		return
	}
	g.rows[a.ID] = g.rows[a.ID].set(b.ID)
	g.rows[b.ID] = g.rows[b.ID].set(a.ID)
}

func (g *InterferenceGraph) RemoveInterference(a, b *LiveRange) {
	g.rows[a.ID].clear(b.ID)
	g.rows[b.ID].clear(a.ID)
}

func (g *InterferenceGraph) Interferes(a, b *LiveRange) bool {
	return g.rows[a.ID].has(b.ID)
}

// Degree returns the number of ranges a interferes with.
func (g *InterferenceGraph) Degree(a *LiveRange) int {
	return g.rows[a.ID].count()
}

// Coalesce merges source into target: the member list grows, target's row
// becomes the union of both rows, and source disappears from the graph,
// including from every neighbor's row and from every tagged occurrence.
// Everything is rebuilt inside the operation; callers never patch rows or
// chase forwarding pointers, and no query can observe a stale source.
func (g *InterferenceGraph) Coalesce(target, source *LiveRange) {
	if target == source {
		return
	}
	target.Keys = append(target.Keys, source.Keys...)

	row := g.rows[target.ID].union(g.rows[source.ID])
	row.clear(target.ID)
	row.clear(source.ID)
	g.rows[target.ID] = row

	for _, n := range g.Ranges {
		if n == nil || n == target || n == source {
			continue
		}
		if g.rows[n.ID].has(source.ID) {
			g.rows[n.ID].clear(source.ID)
			g.rows[n.ID] = g.rows[n.ID].set(target.ID)
		}
	}

	g.Ranges[source.ID] = nil
	g.rows[source.ID] = nil
	g.retag(target, source)
}

// retag repoints every occurrence of the coalesced-away range at its new
// home and drops it from the function's range list.
func (g *InterferenceGraph) retag(target, source *LiveRange) {
	if g.fn == nil {
		return
	}
	for _, b := range g.fn.Blocks {
		for in := b.First(); in != nil; in = in.Next() {
			if in.Dst != nil && in.Dst.Range == source {
				in.Dst.Range = target
			}
			for _, u := range in.Uses() {
				if u.Range == source {
					u.Range = target
				}
			}
		}
	}
	for i, r := range g.fn.Ranges {
		if r == source {
			g.fn.Ranges = append(g.fn.Ranges[:i], g.fn.Ranges[i+1:]...)
			break
		}
	}
}

// BuildLiveRanges creates one live range per SSA name of fn, tags every
// named occurrence with its range, and fills the interference graph from
// a backward per-block scan: a definition interferes with everything live
// across it. ComputeLiveness must reflect the current graph.
func BuildLiveRanges(fn *Function) {
	g := NewInterferenceGraph()
	g.fn = fn
	byKey := make(map[VarKey]*LiveRange)

	rangeOf := func(k VarKey) *LiveRange {
		r := byKey[k]
		if r == nil {
			r = g.NewRange(k)
			byKey[k] = r
		}
		return r
	}

	for _, b := range fn.Blocks {
		if b.Dom == nil {
			continue
		}
		for in := b.First(); in != nil; in = in.Next() {
			if in.Dst != nil && in.Dst.Sym != nil {
				in.Dst.Range = rangeOf(in.Dst.Key())
			}
			for _, u := range in.Uses() {
				if u.Sym != nil {
					u.Range = rangeOf(u.Key())
				}
			}
		}
	}

	for _, b := range fn.Blocks {
		if b.Dom == nil {
			continue
		}
		live := b.LiveOut.Clone()
		for in := b.Last(); in != nil; in = in.Prev() {
			if in.Dst != nil && in.Dst.Sym != nil {
				def := in.Dst.Key()
				for k := range live {
					if k != def {
						g.AddInterference(rangeOf(def), rangeOf(k))
					}
				}
				live.Remove(def)
			}
			if in.Op == OpPhi {
				continue // arguments are live on predecessor edges
			}
			for _, u := range in.Uses() {
				if u.Sym != nil {
					live.Add(u.Key())
				}
			}
		}
	}

	fn.Interference = g
	fn.Ranges = fn.Ranges[:0]
	for _, r := range g.Ranges {
		if r != nil {
			fn.Ranges = append(fn.Ranges, r)
		}
	}
}

// bitset is a fixed-width bit row that grows on set.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (s bitset) set(i int) bitset {
	for i/64 >= len(s) {
		s = append(s, 0)
	}
	s[i/64] |= 1 << (i % 64)
	return s
}

func (s bitset) clear(i int) {
	if i/64 < len(s) {
		s[i/64] &^= 1 << (i % 64)
	}
}

func (s bitset) has(i int) bool {
	return i/64 < len(s) && s[i/64]&(1<<(i%64)) != 0
}

func (s bitset) count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

func (s bitset) union(o bitset) bitset {
	out := make(bitset, len(s))
	copy(out, s)
	for i, w := range o {
		for i >= len(out) {
			out = append(out, 0)
		}
		out[i] |= w
	}
	return out
}
