package ir

// Dead-code elimination, worklist mark followed by a single sweep. The
// mark phase seeds from inherently critical instructions and pulls in the
// definitions of everything a marked instruction reads. Control structure
// survives through the reverse dominance frontier: when a marked
// instruction's block is control-dependent on a branch, that branch is
// useful too. The sweep deletes instructions only; reshaping the graph
// afterwards belongs to a separate simplification pass.

// MarkSweep removes dead instructions from fn. ComputeDominance must have
// run first (the mark phase reads reverse dominance frontiers). The pass
// never fails and is idempotent.
func MarkSweep(fn *Function) {
	for _, b := range fn.Blocks {
		b.Marked = false
		for in := b.First(); in != nil; in = in.Next() {
			in.Marked = false
		}
	}

	namedDefs := make(map[VarKey]*Instr)
	tempDefs := make(map[int]*Instr)
	for _, b := range fn.Blocks {
		for in := b.First(); in != nil; in = in.Next() {
			if in.Dst == nil {
				continue
			}
			if in.Dst.Sym != nil {
				namedDefs[in.Dst.Key()] = in
			} else {
				tempDefs[in.Dst.Temp] = in
			}
		}
	}

	var work []*Instr
	mark := func(in *Instr) {
		if in == nil || in.Marked {
			return
		}
		in.Marked = true
		in.Block.Marked = true
		work = append(work, in)
	}

	for _, b := range fn.Blocks {
		for in := b.First(); in != nil; in = in.Next() {
			if in.IsCritical() {
				mark(in)
			}
		}
	}

	for len(work) > 0 {
		in := work[len(work)-1]
		work = work[:len(work)-1]

		for _, u := range in.Uses() {
			if u.Sym != nil {
				if u.Gen > 0 {
					mark(namedDefs[u.Key()])
				}
				// generation 0 is the entry value, defined nowhere
			} else {
				mark(tempDefs[u.Temp])
			}
		}

		for _, f := range in.Block.RevFrontier {
			for cand := f.First(); cand != nil; cand = cand.Next() {
				if cand.IsBranchEnding() && !cand.Marked {
					mark(cand)
				}
			}
		}
	}

	// Sweep the whole graph. A run of dead branch-ending instructions is
	// deleted and ends that block's sweep; later blocks still get swept.
	for _, b := range fn.Blocks {
		for in := b.First(); in != nil; {
			next := in.Next()
			if in.Marked {
				in = next
				continue
			}
			if in.IsBranchEnding() {
				for in != nil && in.IsBranchEnding() && !in.Marked {
					next = in.Next()
					b.Remove(in)
					in = next
				}
				break
			}
			b.Remove(in)
			in = next
		}
	}
}
