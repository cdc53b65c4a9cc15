package ast

// The resolved syntax tree consumed by the middle end. The parser produces
// it from the grammar tree; semantic analysis resolves identifiers against
// the symbol tables and attaches diagnostics for anything it cannot resolve.
// Nodes that failed to parse or resolve are represented by Bad* nodes so
// later phases can skip them without aborting.

type Position struct {
	Filename string
	Line     int
	Column   int
}

type Node interface {
	GetPosition() Position
}

// File is one compilation unit: the global variable pool plus all functions.
type File struct {
	Filename string
	Globals  []*VarDecl
	Funcs    []*FuncDecl
}

// VarDecl declares a global, parameter, or local variable.
type VarDecl struct {
	Pos  Position
	Name string
	Type *TypeName
	Init Expr // nil for plain declarations
}

type FuncDecl struct {
	Pos    Position
	Name   string
	Params []*VarDecl
	Return *TypeName // nil for void functions
	Body   *BlockStmt
}

// TypeName is an unresolved type reference; semantic analysis maps it to a
// types.Type handle.
type TypeName struct {
	Pos  Position
	Name string
	Len  int64 // array length, 0 for scalars
}

func (d *VarDecl) GetPosition() Position  { return d.Pos }
func (d *FuncDecl) GetPosition() Position { return d.Pos }
func (t *TypeName) GetPosition() Position { return t.Pos }
