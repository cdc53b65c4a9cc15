package ir

import "testing"

func TestStraightLineDominance(t *testing.T) {
	program := buildGraph(t, `
fn main() {
    var x: int = 1;
    printi(x);
}`)
	fn := findFunc(t, program, "main")
	ComputeDominance(fn)

	entry := fn.Entry
	if len(entry.Dom) != 1 || !entry.Dom[entry] {
		t.Errorf("entry dominator set = %v, want just itself", entry.Dom)
	}
	if len(entry.Frontier) != 0 {
		t.Errorf("entry frontier = %v, want empty", entry.Frontier)
	}
	if !Dominates(entry, fn.Exit) {
		t.Error("entry should dominate the exit block")
	}
}

func TestEveryBlockDominatesItself(t *testing.T) {
	program := buildGraph(t, `
fn scan(n: int): int {
    var i: int = 0;
    while (i < n) {
        if (i == 2) {
            break;
        }
        i = i + 1;
    }
    return i;
}`)
	fn := findFunc(t, program, "scan")
	ComputeDominance(fn)

	for _, b := range reachable(fn) {
		if !b.Dom[b] {
			t.Errorf("%s missing from its own dominator set", b.Label())
		}
		if !b.Dom[fn.Entry] {
			t.Errorf("%s not dominated by entry", b.Label())
		}
		if b != fn.Entry && b.IDom == nil {
			t.Errorf("%s has no immediate dominator", b.Label())
		}
	}
}

func TestIfElseFrontiers(t *testing.T) {
	program := buildGraph(t, `
fn pick(a: int): int {
    var r: int = 0;
    if (a > 0) {
        r = 1;
    } else {
        r = 2;
    }
    return r;
}`)
	fn := findFunc(t, program, "pick")
	ComputeDominance(fn)

	join := findBlock(fn, KindIfExit)
	if join == nil {
		t.Fatal("no join block")
	}
	if len(join.Frontier) != 0 {
		t.Errorf("join frontier = %v, want empty", join.Frontier)
	}
	for _, arm := range join.Preds {
		if !containsBlock(arm.Frontier, join) {
			t.Errorf("arm %s frontier should contain the join block", arm.Label())
		}
	}
	if join.IDom != fn.Entry {
		t.Errorf("join idom = %v, want the condition block", join.IDom)
	}
}

func TestLoopHeaderInOwnFrontier(t *testing.T) {
	program := buildGraph(t, `
fn count(n: int): int {
    var i: int = 0;
    while (i < n) {
        i = i + 1;
    }
    return i;
}`)
	fn := findFunc(t, program, "count")
	ComputeDominance(fn)

	header := findBlock(fn, KindLoopEntry)
	if !containsBlock(header.Frontier, header) {
		t.Error("back edge should put the loop header into its own frontier")
	}
}

func TestPostdominance(t *testing.T) {
	program := buildGraph(t, `
fn pick(a: int): int {
    if (a > 0) {
        return 1;
    }
    return 0;
}`)
	fn := findFunc(t, program, "pick")
	ComputeDominance(fn)

	for _, b := range reachable(fn) {
		if b.PostDom == nil {
			continue // not on any path to the exit
		}
		if !PostDominates(fn.Exit, b) {
			t.Errorf("exit should postdominate %s", b.Label())
		}
		if !b.PostDom[b] {
			t.Errorf("%s missing from its own postdominator set", b.Label())
		}
	}
	if len(fn.Exit.PostDom) != 1 {
		t.Errorf("exit postdominator set = %v, want just itself", fn.Exit.PostDom)
	}
}

func TestBranchInReverseFrontierOfArms(t *testing.T) {
	program := buildGraph(t, `
fn pick(a: int): int {
    var r: int = 0;
    if (a > 0) {
        r = 1;
    }
    return r;
}`)
	fn := findFunc(t, program, "pick")
	ComputeDominance(fn)

	// The taken arm is control-dependent on the condition block: the
	// condition shows up in its reverse dominance frontier.
	var arm *Block
	for _, s := range fn.Entry.Succs {
		if s.Kind == KindBlock {
			arm = s
		}
	}
	if arm == nil {
		t.Fatal("no conditional arm found")
	}
	if !containsBlock(arm.RevFrontier, fn.Entry) {
		t.Errorf("arm %s reverse frontier = %v, want the condition block", arm.Label(), arm.RevFrontier)
	}
}

func TestRecomputeClearsStaleDominance(t *testing.T) {
	program := buildGraph(t, `
fn count(n: int): int {
    var i: int = 0;
    while (i < n) {
        i = i + 1;
    }
    return i;
}`)
	fn := findFunc(t, program, "count")
	ComputeDominance(fn)

	before := make(map[*Block]int)
	for _, b := range reachable(fn) {
		before[b] = len(b.Dom)
	}
	ComputeDominance(fn)
	for _, b := range reachable(fn) {
		if len(b.Dom) != before[b] {
			t.Errorf("%s dominator set size changed on recompute: %d -> %d",
				b.Label(), before[b], len(b.Dom))
		}
		if len(b.DomChildren) != len(uniqueBlocks(b.DomChildren)) {
			t.Errorf("%s accumulated duplicate dominator-tree children", b.Label())
		}
	}
}

func uniqueBlocks(blocks []*Block) []*Block {
	seen := make(map[*Block]bool)
	var out []*Block
	for _, b := range blocks {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
