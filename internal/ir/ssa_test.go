package ir

import "testing"

func intoSSA(t *testing.T, source, name string) *Function {
	t.Helper()
	program := buildGraph(t, source)
	fn := findFunc(t, program, name)
	ComputeDominance(fn)
	BuildSSA(fn)
	return fn
}

func TestPhiAtJoin(t *testing.T) {
	fn := intoSSA(t, `
fn pick(a: int): int {
    var r: int = 0;
    if (a > 0) {
        r = 1;
    } else {
        r = 2;
    }
    return r;
}`, "pick")

	join := findBlock(fn, KindIfExit)
	var phis []*Instr
	for in := join.First(); in != nil && in.Op == OpPhi; in = in.Next() {
		phis = append(phis, in)
	}
	if len(phis) != 1 {
		t.Fatalf("join phis = %d, want exactly 1 (for r)", len(phis))
	}
	phi := phis[0]
	if phi.Dst.Sym.Name != "r" {
		t.Errorf("phi variable = %s, want r", phi.Dst.Sym.Name)
	}
	if len(phi.Phi) != 2 {
		t.Fatalf("phi operands = %d, want 2 (one per arm)", len(phi.Phi))
	}
	for _, arg := range phi.Phi {
		if arg.Val == nil {
			t.Fatal("phi operand left unfilled")
		}
	}
	if phi.Phi[0].Val.Gen == phi.Phi[1].Val.Gen {
		t.Errorf("both arms feed generation %d; arm-final generations must differ",
			phi.Phi[0].Val.Gen)
	}
	if phi.Dst.Gen == 0 {
		t.Error("phi result should open a fresh generation")
	}
}

func TestNoPhiForUnassignedVariable(t *testing.T) {
	fn := intoSSA(t, `
fn count(n: int): int {
    var i: int = 0;
    while (i < n) {
        i = i + 1;
    }
    return i;
}`, "count")

	header := findBlock(fn, KindLoopEntry)
	for in := header.First(); in != nil && in.Op == OpPhi; in = in.Next() {
		if in.Dst.Sym.Name == "n" {
			t.Error("n is never reassigned and needs no phi")
		}
	}
	found := false
	for in := header.First(); in != nil && in.Op == OpPhi; in = in.Next() {
		if in.Dst.Sym.Name == "i" {
			found = true
		}
	}
	if !found {
		t.Error("i is assigned in the loop body and needs a phi at the header")
	}
}

func TestSingleAssignment(t *testing.T) {
	fn := intoSSA(t, `
fn scan(n: int): int {
    var i: int = 0;
    var acc: int = 0;
    while (i < n) {
        if (i % 2 == 0) {
            acc = acc + i;
        }
        i = i + 1;
    }
    return acc;
}`, "scan")

	defs := make(map[VarKey]int)
	for _, b := range reachable(fn) {
		for in := b.First(); in != nil; in = in.Next() {
			if in.Dst != nil && in.Dst.Sym != nil {
				defs[in.Dst.Key()]++
			}
		}
	}
	for k, n := range defs {
		if n != 1 {
			t.Errorf("%s has %d definitions, want 1", k, n)
		}
	}
}

func TestParameterReadsGenerationZero(t *testing.T) {
	fn := intoSSA(t, `
fn id(a: int): int {
    return a;
}`, "id")

	var ret *Instr
	for in := fn.Entry.First(); in != nil; in = in.Next() {
		if in.Op == OpReturn {
			ret = in
		}
	}
	if ret == nil || ret.Src1 == nil {
		t.Fatal("no valued return in entry block")
	}
	if ret.Src1.Sym.Name != "a" || ret.Src1.Gen != 0 {
		t.Errorf("return reads %s, want a@0 (the entry value)", ret.Src1.Key())
	}
}

func TestUsesReadDominatingGeneration(t *testing.T) {
	fn := intoSSA(t, `
fn twice(a: int): int {
    var x: int = a + 1;
    x = x * 2;
    return x;
}`, "twice")

	// Straight line: the second assignment must read the first one's
	// generation, and the return the second one's.
	var gens []int
	for in := fn.Entry.First(); in != nil; in = in.Next() {
		if in.Dst != nil && in.Dst.Sym != nil && in.Dst.Sym.Name == "x" {
			gens = append(gens, in.Dst.Gen)
		}
		if in.Op == OpReturn && in.Src1 != nil && in.Src1.Sym != nil {
			if len(gens) == 0 || in.Src1.Gen != gens[len(gens)-1] {
				t.Errorf("return reads x@%d, want the last definition", in.Src1.Gen)
			}
		}
	}
	if len(gens) != 2 {
		t.Fatalf("x definitions = %d, want 2", len(gens))
	}
	if gens[0] == gens[1] {
		t.Error("redefinition must open a new generation")
	}
}
