package types

import "fmt"

// Type handles are opaque to the middle end; the only queries it makes are
// Size and Alignment, used when emitting load/store and stack-allocation
// instructions.

type Type interface {
	String() string
	Size() int64
	Alignment() int64
}

type IntType struct{}

type BoolType struct{}

type CharType struct{}

type FloatType struct{}

type StringType struct{}

type ArrayType struct {
	Elem Type
	Len  int64
}

func (t *IntType) String() string    { return "int" }
func (t *BoolType) String() string   { return "bool" }
func (t *CharType) String() string   { return "char" }
func (t *FloatType) String() string  { return "float" }
func (t *StringType) String() string { return "string" }
func (t *ArrayType) String() string  { return fmt.Sprintf("[%d]%s", t.Len, t.Elem) }

func (t *IntType) Size() int64    { return 8 }
func (t *BoolType) Size() int64   { return 1 }
func (t *CharType) Size() int64   { return 1 }
func (t *FloatType) Size() int64  { return 8 }
func (t *StringType) Size() int64 { return 8 }
func (t *ArrayType) Size() int64  { return t.Len * t.Elem.Size() }

func (t *IntType) Alignment() int64    { return 8 }
func (t *BoolType) Alignment() int64   { return 1 }
func (t *CharType) Alignment() int64   { return 1 }
func (t *FloatType) Alignment() int64  { return 8 }
func (t *StringType) Alignment() int64 { return 8 }
func (t *ArrayType) Alignment() int64  { return t.Elem.Alignment() }

// IsScalar reports whether values of t fit in a single register.
func IsScalar(t Type) bool {
	_, isArray := t.(*ArrayType)
	return !isArray
}
