package types

// TypeRegistry manages the types available to a compilation unit. The base
// language only has builtins, but keeping resolution behind a registry means
// the front end can grow named types without touching the middle end.
type TypeRegistry struct {
	builtins map[string]Type
}

// NewTypeRegistry creates a registry populated with the built-in types.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		builtins: map[string]Type{
			"int":    &IntType{},
			"bool":   &BoolType{},
			"char":   &CharType{},
			"float":  &FloatType{},
			"string": &StringType{},
		},
	}
}

// Resolve maps a type name (plus an optional array length) to its handle.
// Returns nil for unknown names.
func (tr *TypeRegistry) Resolve(name string, arrayLen int64) Type {
	base, ok := tr.builtins[name]
	if !ok {
		return nil
	}
	if arrayLen > 0 {
		return &ArrayType{Elem: base, Len: arrayLen}
	}
	return base
}

// IsValidType checks if a type name is known to the registry.
func (tr *TypeRegistry) IsValidType(name string) bool {
	_, ok := tr.builtins[name]
	return ok
}
