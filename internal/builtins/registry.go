package builtins

import "cinder/internal/types"

// Builtin functions are externs provided by the runtime. The middle end
// lowers them to ordinary calls; they matter here only because they give
// source programs observable effects for dead-code analysis to preserve.

type Builtin struct {
	Name   string
	Params []types.Type
	Return types.Type // nil for void
	ByRef  bool       // last parameter is taken by reference
}

var Functions = []Builtin{
	{Name: "print", Params: []types.Type{&types.StringType{}}},
	{Name: "printi", Params: []types.Type{&types.IntType{}}},
	{Name: "printf", Params: []types.Type{&types.FloatType{}}},
	{Name: "readi", Params: []types.Type{&types.IntType{}}, ByRef: true},
	{Name: "exit", Params: []types.Type{&types.IntType{}}},
}

// Lookup returns the builtin with the given name, or nil.
func Lookup(name string) *Builtin {
	for i := range Functions {
		if Functions[i].Name == name {
			return &Functions[i]
		}
	}
	return nil
}
