package ir

// Backward liveness over named variables. Temporaries are single-def and
// single-use by construction, so only (symbol, generation) keys are
// tracked. Phi functions read on the incoming edge, not at the head of
// their own block: a phi argument counts toward the live-out of the
// matching predecessor and never toward the use set of the phi's block.

// ComputeLiveness solves LIVE_IN(b) = USE(b) ∪ (LIVE_OUT(b) − DEF(b)) to
// a fixed point for every reachable block of fn. Running it again on an
// unchanged graph reproduces the same sets.
func ComputeLiveness(fn *Function) {
	order := reversePostorder(fn.Entry, func(b *Block) []*Block { return b.Succs })

	use := make(map[*Block]VarSet, len(order))
	def := make(map[*Block]VarSet, len(order))
	// phiIn[p] holds the values flowing into phis along edges leaving p.
	phiIn := make(map[*Block]VarSet)

	for _, b := range order {
		b.LiveIn = NewVarSet()
		b.LiveOut = NewVarSet()
		u, d := NewVarSet(), NewVarSet()
		for in := b.First(); in != nil; in = in.Next() {
			if in.Op == OpPhi {
				for _, arg := range in.Phi {
					if arg.Val != nil && arg.Val.Sym != nil {
						set := phiIn[arg.Pred]
						if set == nil {
							set = NewVarSet()
							phiIn[arg.Pred] = set
						}
						set.Add(arg.Val.Key())
					}
				}
			} else {
				for _, src := range in.Uses() {
					if src.Sym != nil && !d.Has(src.Key()) {
						u.Add(src.Key())
					}
				}
			}
			if in.Dst != nil && in.Dst.Sym != nil {
				d.Add(in.Dst.Key())
			}
		}
		use[b], def[b] = u, d
	}

	// Postorder makes the backward flow converge in few sweeps.
	for changed := true; changed; {
		changed = false
		for i := len(order) - 1; i >= 0; i-- {
			b := order[i]
			out := NewVarSet()
			for _, s := range b.Succs {
				if s.LiveIn != nil {
					out.AddAll(s.LiveIn)
				}
			}
			if edge := phiIn[b]; edge != nil {
				out.AddAll(edge)
			}
			in := use[b].Clone()
			for k := range out {
				if !def[b].Has(k) {
					in.Add(k)
				}
			}
			if !out.Equal(b.LiveOut) || !in.Equal(b.LiveIn) {
				b.LiveOut = out
				b.LiveIn = in
				changed = true
			}
		}
	}
}
