package semantic

import (
	"cinder/internal/ast"
	"cinder/internal/types"
)

// Symbol records carry a stable identity (the pointer plus a monotonically
// assigned ID) usable as a map key by every later phase.

type VarSymbol struct {
	ID      int
	Name    string
	Type    types.Type
	Global  bool
	Param   bool
	Decl    *ast.VarDecl
	Used    bool // read at least once
	Aliased bool // had its address taken; disqualifies register residency
}

type FuncSymbol struct {
	ID      int
	Name    string
	Params  []*VarSymbol
	Return  types.Type // nil for void
	Decl    *ast.FuncDecl
	Builtin bool
	ByRef   bool // last parameter is taken by reference
}

// SymbolTable is a lexically scoped name table.
type SymbolTable struct {
	vars   map[string]*VarSymbol
	parent *SymbolTable
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		vars:   make(map[string]*VarSymbol),
		parent: parent,
	}
}

func (st *SymbolTable) Define(sym *VarSymbol) {
	st.vars[sym.Name] = sym
}

func (st *SymbolTable) Lookup(name string) *VarSymbol {
	if sym, exists := st.vars[name]; exists {
		return sym
	}
	if st.parent != nil {
		return st.parent.Lookup(name)
	}
	return nil
}

func (st *SymbolTable) LookupLocal(name string) *VarSymbol {
	return st.vars[name]
}
