package ir

import "fmt"

// BlockKind tags why a block exists in the source structure. The middle end
// only needs the tag for readable dumps and for the few places where entry
// and exit blocks are special.
type BlockKind int

const (
	KindBlock BlockKind = iota // plain straight-line code
	KindFuncEntry
	KindFuncExit
	KindIfEntry
	KindIfExit
	KindLoopEntry
	KindLoopExit
	KindSwitch
	KindCase
	KindLabel
)

var kindNames = [...]string{
	KindBlock:     "block",
	KindFuncEntry: "entry",
	KindFuncExit:  "exit",
	KindIfEntry:   "if",
	KindIfExit:    "join",
	KindLoopEntry: "loop",
	KindLoopExit:  "loop-exit",
	KindSwitch:    "switch",
	KindCase:      "case",
	KindLabel:     "label",
}

func (k BlockKind) String() string { return kindNames[k] }

// Block is one basic block: a maximal straight-line instruction sequence
// with exactly one entry (the leader) and one exit. Every transformation
// must preserve that property; a block only gains a second exit by being
// split.
type Block struct {
	ID   int
	Kind BlockKind
	Fn   *Function

	Preds []*Block
	Succs []*Block

	// Forward dominance, valid after ComputeDominance.
	Dom         map[*Block]bool
	IDom        *Block
	DomChildren []*Block
	Frontier    []*Block

	// Postdominance: the same fields on the reverse graph.
	PostDom         map[*Block]bool
	IPDom           *Block
	PostDomChildren []*Block
	RevFrontier     []*Block

	// Liveness, valid after ComputeLiveness.
	LiveIn  VarSet
	LiveOut VarSet

	Marked  bool // contains a marked instruction (dead-code elimination)
	Visited bool // traversal scratch

	// LayoutNext chains blocks into their final linear order.
	LayoutNext *Block

	first *Instr // leader
	last  *Instr // exit instruction
}

// Label returns the block's emitted label. Block ids are stable from CFG
// construction through emission.
func (b *Block) Label() string { return fmt.Sprintf(".L%d", b.ID) }

// First returns the block's leader instruction, or nil for an empty block.
func (b *Block) First() *Instr { return b.first }

// Last returns the block's exit instruction, or nil for an empty block.
func (b *Block) Last() *Instr { return b.last }

// Empty reports whether the block holds no instructions.
func (b *Block) Empty() bool { return b.first == nil }

// Len counts the block's instructions.
func (b *Block) Len() int {
	n := 0
	for in := b.first; in != nil; in = in.next {
		n++
	}
	return n
}

// Append adds an instruction at the block's exit. The first instruction
// becomes both leader and exit. An instruction still linked into another
// block is detached from it first.
func (b *Block) Append(in *Instr) {
	if in.Block != nil {
		in.Block.Remove(in)
	}
	in.Block = b
	if b.first == nil {
		b.first = in
		b.last = in
		return
	}
	in.prev = b.last
	b.last.next = in
	b.last = in
}

// Prepend adds an instruction before the block's leader. Phi insertion uses
// this so phi-functions always precede ordinary code.
func (b *Block) Prepend(in *Instr) {
	if in.Block != nil {
		in.Block.Remove(in)
	}
	in.Block = b
	if b.first == nil {
		b.first = in
		b.last = in
		return
	}
	in.next = b.first
	b.first.prev = in
	b.first = in
}

// Remove unlinks an instruction in O(1), patching the leader, exit, and
// interior cases without leaving dangling links.
func (b *Block) Remove(in *Instr) {
	if in.Block != b {
		return
	}
	if in.prev != nil {
		in.prev.next = in.next
	} else {
		b.first = in.next
	}
	if in.next != nil {
		in.next.prev = in.prev
	} else {
		b.last = in.prev
	}
	in.prev = nil
	in.next = nil
	in.Block = nil
}

// EdgeMode selects whether addEdge links both directions. Unidirectional
// linking exists for provisional edges that a later step finalizes.
type EdgeMode int

const (
	EdgeForwardOnly EdgeMode = iota
	EdgeBidirectional
)

// addEdge adds to as a successor of from; bidirectional mode also records
// from as a predecessor of to. Pred/succ sets grow as needed, so there is
// no capacity to overflow. Duplicate edges are not added.
func addEdge(from, to *Block, mode EdgeMode) {
	if !containsBlock(from.Succs, to) {
		from.Succs = append(from.Succs, to)
	}
	if mode == EdgeBidirectional && !containsBlock(to.Preds, from) {
		to.Preds = append(to.Preds, from)
	}
}

// removePred drops pred from b's predecessor set.
func removePred(b, pred *Block) {
	b.Preds = deleteBlock(b.Preds, pred)
}

// removeSucc drops succ from b's successor set.
func removeSucc(b, succ *Block) {
	b.Succs = deleteBlock(b.Succs, succ)
}

func containsBlock(list []*Block, b *Block) bool {
	for _, x := range list {
		if x == b {
			return true
		}
	}
	return false
}

func deleteBlock(list []*Block, b *Block) []*Block {
	for i, x := range list {
		if x == b {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
