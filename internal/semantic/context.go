package semantic

import (
	"cinder/internal/ast"
	"cinder/internal/types"
)

// Context is the front end's output besides the tree itself: the three
// symbol tables (functions, variables, types) plus per-node resolution maps
// keyed by node pointer. The middle end reads it, and writes back only the
// Used/Aliased flags on variable symbols.
type Context struct {
	Types     *types.TypeRegistry
	Functions map[string]*FuncSymbol
	Globals   []*VarSymbol

	// Per-function locals in declaration order, including parameters.
	Locals map[*ast.FuncDecl][]*VarSymbol

	varUses  map[*ast.Ident]*VarSymbol
	indexes  map[*ast.IndexExpr]*VarSymbol
	calls    map[*ast.CallExpr]*FuncSymbol
	declSyms map[*ast.VarDecl]*VarSymbol

	nextVarID  int
	nextFuncID int
}

func NewContext() *Context {
	return &Context{
		Types:     types.NewTypeRegistry(),
		Functions: make(map[string]*FuncSymbol),
		Locals:    make(map[*ast.FuncDecl][]*VarSymbol),
		varUses:   make(map[*ast.Ident]*VarSymbol),
		indexes:   make(map[*ast.IndexExpr]*VarSymbol),
		calls:     make(map[*ast.CallExpr]*FuncSymbol),
		declSyms:  make(map[*ast.VarDecl]*VarSymbol),
	}
}

func (c *Context) newVarSymbol(name string, t types.Type, decl *ast.VarDecl) *VarSymbol {
	c.nextVarID++
	return &VarSymbol{ID: c.nextVarID, Name: name, Type: t, Decl: decl}
}

func (c *Context) newFuncSymbol(name string, decl *ast.FuncDecl) *FuncSymbol {
	c.nextFuncID++
	return &FuncSymbol{ID: c.nextFuncID, Name: name, Decl: decl}
}

// VarOf returns the variable symbol an identifier resolved to, or nil.
func (c *Context) VarOf(id *ast.Ident) *VarSymbol { return c.varUses[id] }

// IndexBaseOf returns the array symbol an index expression resolved to.
func (c *Context) IndexBaseOf(e *ast.IndexExpr) *VarSymbol { return c.indexes[e] }

// CalleeOf returns the function symbol a call resolved to, or nil.
func (c *Context) CalleeOf(e *ast.CallExpr) *FuncSymbol { return c.calls[e] }

// SymbolOf returns the symbol created for a declaration.
func (c *Context) SymbolOf(d *ast.VarDecl) *VarSymbol { return c.declSyms[d] }
