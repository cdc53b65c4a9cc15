package ir

import (
	"sort"

	"cinder/internal/semantic"
)

// SSA construction in two phases: saturating phi insertion over the
// dominance frontiers, then a dominator-tree walk that renames every
// occurrence of a register-resident variable with a generation number.
// Generation 0 is the value a variable carries on function entry, so
// parameters need no explicit definition and a read before any write
// resolves to generation 0.

// BuildSSA converts fn into SSA form. ComputeDominance must have run
// first.
func BuildSSA(fn *Function) {
	s := &ssaState{
		fn:       fn,
		stacks:   make(map[*semantic.VarSymbol][]int),
		counters: make(map[*semantic.VarSymbol]int),
	}
	vars := s.collectVars()
	s.insertPhis(vars)
	for _, v := range vars {
		s.stacks[v] = []int{0}
	}
	s.rename(fn.Entry)
}

type ssaState struct {
	fn       *Function
	stacks   map[*semantic.VarSymbol][]int
	counters map[*semantic.VarSymbol]int
	defsites map[*semantic.VarSymbol][]*Block
}

// collectVars gathers every register-resident variable defined or used in
// the function, recording definition sites along the way. The entry block
// counts as a definition site for all of them: that is where generation 0
// becomes live.
func (s *ssaState) collectVars() []*semantic.VarSymbol {
	s.defsites = make(map[*semantic.VarSymbol][]*Block)
	seen := make(map[*semantic.VarSymbol]bool)
	var vars []*semantic.VarSymbol

	note := func(sym *semantic.VarSymbol) {
		if !seen[sym] {
			seen[sym] = true
			vars = append(vars, sym)
			s.defsites[sym] = []*Block{s.fn.Entry}
		}
	}

	for _, p := range s.fn.Sym.Params {
		if regCandidate(p) {
			note(p)
		}
	}
	for _, b := range s.fn.Blocks {
		if b.Dom == nil {
			continue // unreachable
		}
		for in := b.First(); in != nil; in = in.Next() {
			for _, u := range in.Uses() {
				if u.Sym != nil {
					note(u.Sym)
				}
			}
			if in.Dst != nil && in.Dst.Sym != nil {
				note(in.Dst.Sym)
				if b != s.fn.Entry {
					s.defsites[in.Dst.Sym] = append(s.defsites[in.Dst.Sym], b)
				}
			}
		}
	}

	sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })
	return vars
}

// insertPhis places a phi for v at every block in the iterated dominance
// frontier of v's definition sites. A placed phi is itself a definition,
// so the frontier saturates through a worklist.
func (s *ssaState) insertPhis(vars []*semantic.VarSymbol) {
	for _, v := range vars {
		placed := make(map[*Block]bool)
		queued := make(map[*Block]bool)
		var work []*Block
		for _, b := range s.defsites[v] {
			if !queued[b] {
				queued[b] = true
				work = append(work, b)
			}
		}
		for len(work) > 0 {
			b := work[len(work)-1]
			work = work[:len(work)-1]
			for _, f := range b.Frontier {
				if placed[f] {
					continue
				}
				placed[f] = true
				phi := &Instr{Op: OpPhi, Dst: &Operand{Sym: v}}
				for _, p := range f.Preds {
					phi.Phi = append(phi.Phi, PhiArg{Pred: p})
				}
				f.Prepend(phi)
				if !queued[f] {
					queued[f] = true
					work = append(work, f)
				}
			}
		}
	}
}

func (s *ssaState) top(sym *semantic.VarSymbol) int {
	st := s.stacks[sym]
	if len(st) == 0 {
		return 0
	}
	return st[len(st)-1]
}

func (s *ssaState) push(sym *semantic.VarSymbol) int {
	s.counters[sym]++
	gen := s.counters[sym]
	s.stacks[sym] = append(s.stacks[sym], gen)
	return gen
}

// rename walks the dominator tree. Within a block phis define first, then
// each instruction's uses pick up the innermost live generation before its
// definition opens a new one. Successor phi arguments are filled from this
// block's final generations before descending.
func (s *ssaState) rename(b *Block) {
	var pushed []*semantic.VarSymbol

	for in := b.First(); in != nil; in = in.Next() {
		if in.Op != OpPhi {
			for _, u := range in.Uses() {
				if u.Sym != nil {
					u.Gen = s.top(u.Sym)
				}
			}
		}
		if in.Dst != nil && in.Dst.Sym != nil {
			in.Dst.Gen = s.push(in.Dst.Sym)
			pushed = append(pushed, in.Dst.Sym)
		}
	}

	for _, succ := range b.Succs {
		for in := succ.First(); in != nil && in.Op == OpPhi; in = in.Next() {
			for i := range in.Phi {
				if in.Phi[i].Pred == b {
					in.Phi[i].Val = &Operand{Sym: in.Dst.Sym, Gen: s.top(in.Dst.Sym)}
				}
			}
		}
	}

	for _, child := range b.DomChildren {
		s.rename(child)
	}

	for _, sym := range pushed {
		st := s.stacks[sym]
		s.stacks[sym] = st[:len(st)-1]
	}
}
