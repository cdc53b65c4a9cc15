package ir

// Dominance analysis: iterative set intersection over a reverse postorder
// sweep, immediate dominators read off the set sizes, and dominance
// frontiers by walking from each join point's predecessors up the
// dominator tree. Postdominance reuses the same solver on the reversed
// graph rooted at the exit block, which always exists and is the single
// sink of every function.

// ComputeDominance fills in the dominator sets, tree, and frontiers of
// every reachable block of fn, then the postdominance mirror. Blocks the
// entry cannot reach keep nil sets; later passes skip them.
func ComputeDominance(fn *Function) {
	for _, b := range fn.Blocks {
		b.Dom = nil
		b.IDom = nil
		b.DomChildren = nil
		b.Frontier = nil
		b.PostDom = nil
		b.IPDom = nil
		b.PostDomChildren = nil
		b.RevFrontier = nil
	}

	succs := func(b *Block) []*Block { return b.Succs }
	preds := func(b *Block) []*Block { return b.Preds }

	order, dom := solveDominators(fn.Entry, succs, preds)
	for _, b := range order {
		b.Dom = dom[b]
	}
	assignTree(order, dom, preds,
		func(b, d *Block) { b.IDom = d; d.DomChildren = append(d.DomChildren, b) },
		func(b *Block) *Block { return b.IDom },
		func(runner, frontier *Block) {
			if !containsBlock(runner.Frontier, frontier) {
				runner.Frontier = append(runner.Frontier, frontier)
			}
		})

	order, dom = solveDominators(fn.Exit, preds, succs)
	for _, b := range order {
		b.PostDom = dom[b]
	}
	assignTree(order, dom, succs,
		func(b, d *Block) { b.IPDom = d; d.PostDomChildren = append(d.PostDomChildren, b) },
		func(b *Block) *Block { return b.IPDom },
		func(runner, frontier *Block) {
			if !containsBlock(runner.RevFrontier, frontier) {
				runner.RevFrontier = append(runner.RevFrontier, frontier)
			}
		})
}

// solveDominators runs the dataflow fixpoint: DOM(root) = {root},
// DOM(b) = {b} ∪ ⋂ DOM(p) over processed predecessors, iterated in
// reverse postorder until no set changes.
func solveDominators(root *Block, succs, preds func(*Block) []*Block) ([]*Block, map[*Block]map[*Block]bool) {
	order := reversePostorder(root, succs)
	dom := make(map[*Block]map[*Block]bool, len(order))

	all := make(map[*Block]bool, len(order))
	for _, b := range order {
		all[b] = true
	}
	dom[root] = map[*Block]bool{root: true}
	for _, b := range order[1:] {
		dom[b] = cloneBlockSet(all)
	}

	for changed := true; changed; {
		changed = false
		for _, b := range order[1:] {
			var next map[*Block]bool
			for _, p := range preds(b) {
				pdom := dom[p]
				if pdom == nil {
					continue // unreachable predecessor
				}
				if next == nil {
					next = cloneBlockSet(pdom)
					continue
				}
				for d := range next {
					if !pdom[d] {
						delete(next, d)
					}
				}
			}
			if next == nil {
				next = make(map[*Block]bool, 1)
			}
			next[b] = true
			if !equalBlockSets(next, dom[b]) {
				dom[b] = next
				changed = true
			}
		}
	}
	return order, dom
}

// assignTree derives the immediate dominators and frontiers from the
// solved sets. The immediate dominator of b is the strict dominator whose
// own set is exactly one element smaller; frontiers come from walking each
// join predecessor up the tree until it meets b's immediate dominator.
func assignTree(order []*Block, dom map[*Block]map[*Block]bool, preds func(*Block) []*Block,
	setIDom func(b, d *Block), idomOf func(*Block) *Block, addFrontier func(runner, frontier *Block)) {

	root := order[0]
	for _, b := range order[1:] {
		want := len(dom[b]) - 1
		for d := range dom[b] {
			if d != b && len(dom[d]) == want {
				setIDom(b, d)
				break
			}
		}
	}

	for _, b := range order {
		joined := 0
		for _, p := range preds(b) {
			if dom[p] != nil {
				joined++
			}
		}
		if joined < 2 {
			continue
		}
		stop := idomOf(b)
		for _, p := range preds(b) {
			if dom[p] == nil {
				continue
			}
			for runner := p; runner != stop && runner != nil; runner = idomOf(runner) {
				addFrontier(runner, b)
				if runner == root {
					break
				}
			}
		}
	}
}

// reversePostorder returns the reachable blocks with root first and every
// block after all of its relevant DFS ancestors.
func reversePostorder(root *Block, succs func(*Block) []*Block) []*Block {
	var order []*Block
	seen := make(map[*Block]bool)
	var walk func(*Block)
	walk = func(b *Block) {
		seen[b] = true
		for _, s := range succs(b) {
			if !seen[s] {
				walk(s)
			}
		}
		order = append(order, b)
	}
	walk(root)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func cloneBlockSet(s map[*Block]bool) map[*Block]bool {
	out := make(map[*Block]bool, len(s))
	for b := range s {
		out[b] = true
	}
	return out
}

func equalBlockSets(a, b map[*Block]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// Dominates reports whether a dominates b. A block dominates itself.
func Dominates(a, b *Block) bool { return b.Dom != nil && b.Dom[a] }

// PostDominates reports whether a postdominates b.
func PostDominates(a, b *Block) bool { return b.PostDom != nil && b.PostDom[a] }
