package ir

import (
	"fmt"
	"strings"

	"cinder/internal/semantic"
)

// Op tags the statement kinds of the three-address form.
type Op int

const (
	OpBinary Op = iota // Dst = Src1 <Operator> Src2
	OpUnary            // Dst = <Operator> Src1
	OpMove             // Dst = Src1
	OpConst            // Dst = Const | LC
	OpLoad             // Dst = mem[Base + offset]
	OpStore            // mem[Base + offset] = Src2
	OpCall             // Dst = Callee(Args...)
	OpIndirectCall     // Dst = (*Src1)(Args...)
	OpBranch           // if Src1: goto Target, else fall through
	OpJump             // goto Target
	OpIndirectJump     // goto Target.Table[Src1]
	OpPhi              // Dst = phi(Phi...)
	OpAsm              // verbatim Text
	OpIdle             // no-op marker
	OpReturn           // return [Src1]
)

var opNames = [...]string{
	OpBinary:       "binary",
	OpUnary:        "unary",
	OpMove:         "move",
	OpConst:        "const",
	OpLoad:         "load",
	OpStore:        "store",
	OpCall:         "call",
	OpIndirectCall: "icall",
	OpBranch:       "br",
	OpJump:         "jmp",
	OpIndirectJump: "ijmp",
	OpPhi:          "phi",
	OpAsm:          "asm",
	OpIdle:         "idle",
	OpReturn:       "ret",
}

func (op Op) String() string { return opNames[op] }

// OffsetKind selects the addressing mode of a load or store.
type OffsetKind int

const (
	OffsetZero  OffsetKind = iota // mem[base]
	OffsetConst                   // mem[base + Const]
	OffsetVar                     // mem[base + Src1]
)

// Operand is one occurrence of a value: either a temporary (uniquely
// numbered, never reused, never versioned) or a named variable occurrence
// carrying an SSA generation. Two named occurrences denote the same SSA
// value iff they reference the same symbol and the same generation.
type Operand struct {
	Temp  int // temporary number, 0 for named occurrences
	Sym   *semantic.VarSymbol
	Gen   int
	Range *LiveRange // filled in by the live-range builder
}

func (o *Operand) IsTemp() bool { return o.Sym == nil }

// VarKey identifies one SSA value of a named variable.
type VarKey struct {
	Sym *semantic.VarSymbol
	Gen int
}

// Key returns the SSA identity of a named occurrence. Only valid for
// named operands.
func (o *Operand) Key() VarKey { return VarKey{Sym: o.Sym, Gen: o.Gen} }

func (o *Operand) String() string {
	if o == nil {
		return "_"
	}
	if o.IsTemp() {
		return fmt.Sprintf("t%d", o.Temp)
	}
	return fmt.Sprintf("%s.%d", o.Sym.Name, o.Gen)
}

func (k VarKey) String() string {
	return fmt.Sprintf("%s.%d", k.Sym.Name, k.Gen)
}

// Target is the destination of a branch or jump: either a block or, for
// indirect jumps, a jump table. Exactly one field is set.
type Target struct {
	Block *Block
	Table *JumpTable
}

func (t Target) IsZero() bool { return t.Block == nil && t.Table == nil }

func (t Target) String() string {
	switch {
	case t.Block != nil:
		return t.Block.Label()
	case t.Table != nil:
		return t.Table.Label()
	default:
		return "<none>"
	}
}

// PhiArg pairs a phi operand with the predecessor it flows in from.
type PhiArg struct {
	Pred *Block
	Val  *Operand
}

// Instr is a three-address statement. Instructions are owned by exactly one
// block at a time and are linked into that block's instruction list; moving
// an instruction between blocks always detaches it from the old list first.
type Instr struct {
	Op       Op
	Operator string   // OpBinary / OpUnary operator text
	Src1     *Operand // first source / branch condition / returned value
	Src2     *Operand // second source / stored value
	Dst      *Operand // assignee

	Const  int64               // OpConst integer payload, constant offsets
	LC     *LocalConst         // OpConst string/float payload
	Offset OffsetKind          // OpLoad / OpStore addressing mode
	Base   *semantic.VarSymbol // OpLoad / OpStore base variable
	Callee *semantic.FuncSymbol
	Args   []*Operand // OpCall / OpIndirectCall arguments
	Text   string     // OpAsm payload
	Target Target     // branch / jump destination
	Phi    []PhiArg   // OpPhi operands, one per predecessor

	Block  *Block
	Marked bool // set by dead-code elimination's mark phase
	prev   *Instr
	next   *Instr
}

// Next returns the following instruction in the owning block, or nil at the
// block's exit.
func (in *Instr) Next() *Instr { return in.next }

// Prev returns the preceding instruction in the owning block, or nil at the
// block's leader.
func (in *Instr) Prev() *Instr { return in.prev }

// Uses returns all source operands, including phi inputs and call
// arguments.
func (in *Instr) Uses() []*Operand {
	var uses []*Operand
	if in.Src1 != nil {
		uses = append(uses, in.Src1)
	}
	if in.Src2 != nil {
		uses = append(uses, in.Src2)
	}
	uses = append(uses, in.Args...)
	for _, arg := range in.Phi {
		if arg.Val != nil {
			uses = append(uses, arg.Val)
		}
	}
	return uses
}

// IsBranchEnding reports whether the instruction decides multi-way control
// flow. Dead-code elimination treats these specially: they are kept only
// when something in their control-dependence region is useful.
func (in *Instr) IsBranchEnding() bool {
	return in.Op == OpBranch || in.Op == OpIndirectJump
}

// IsCritical reports whether the instruction has an observable effect on
// its own and therefore seeds the dead-code mark phase.
func (in *Instr) IsCritical() bool {
	switch in.Op {
	case OpReturn, OpCall, OpIndirectCall, OpStore, OpAsm, OpIdle, OpJump:
		return true
	}
	return false
}

func (in *Instr) String() string {
	switch in.Op {
	case OpBinary:
		return fmt.Sprintf("%s = %s %s %s", in.Dst, in.Src1, in.Operator, in.Src2)
	case OpUnary:
		return fmt.Sprintf("%s = %s%s", in.Dst, in.Operator, in.Src1)
	case OpMove:
		return fmt.Sprintf("%s = %s", in.Dst, in.Src1)
	case OpConst:
		if in.LC != nil {
			return fmt.Sprintf("%s = %s", in.Dst, in.LC.Label())
		}
		return fmt.Sprintf("%s = %d", in.Dst, in.Const)
	case OpLoad:
		return fmt.Sprintf("%s = %s", in.Dst, in.addr())
	case OpStore:
		return fmt.Sprintf("%s = %s", in.addr(), in.Src2)
	case OpCall, OpIndirectCall:
		callee := "?"
		if in.Callee != nil {
			callee = in.Callee.Name
		} else if in.Src1 != nil {
			callee = "*" + in.Src1.String()
		}
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = a.String()
		}
		call := fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", "))
		if in.Dst != nil {
			return fmt.Sprintf("%s = %s", in.Dst, call)
		}
		return call
	case OpBranch:
		return fmt.Sprintf("br %s, %s", in.Src1, in.Target)
	case OpJump:
		return fmt.Sprintf("jmp %s", in.Target)
	case OpIndirectJump:
		return fmt.Sprintf("ijmp %s[%s]", in.Target, in.Src1)
	case OpPhi:
		args := make([]string, len(in.Phi))
		for i, a := range in.Phi {
			args[i] = fmt.Sprintf("[%s, %s]", a.Val, a.Pred.Label())
		}
		return fmt.Sprintf("%s = phi %s", in.Dst, strings.Join(args, " "))
	case OpAsm:
		return fmt.Sprintf("asm %q", in.Text)
	case OpIdle:
		return "idle"
	case OpReturn:
		if in.Src1 != nil {
			return fmt.Sprintf("ret %s", in.Src1)
		}
		return "ret"
	}
	return in.Op.String()
}

func (in *Instr) addr() string {
	switch in.Offset {
	case OffsetConst:
		return fmt.Sprintf("mem[%s+%d]", in.Base.Name, in.Const)
	case OffsetVar:
		return fmt.Sprintf("mem[%s+%s]", in.Base.Name, in.Src1)
	default:
		return fmt.Sprintf("mem[%s]", in.Base.Name)
	}
}
