package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuiltins(t *testing.T) {
	tr := NewTypeRegistry()

	for _, name := range []string{"int", "bool", "char", "float", "string"} {
		resolved := tr.Resolve(name, 0)
		require.NotNil(t, resolved, name)
		assert.Equal(t, name, resolved.String())
		assert.True(t, tr.IsValidType(name))
	}

	assert.Nil(t, tr.Resolve("quux", 0))
	assert.False(t, tr.IsValidType("quux"))
}

func TestResolveArray(t *testing.T) {
	tr := NewTypeRegistry()

	resolved := tr.Resolve("int", 4)
	arr, ok := resolved.(*ArrayType)
	require.True(t, ok)
	assert.Equal(t, int64(4), arr.Len)
	assert.Equal(t, "[4]int", arr.String())
	assert.Equal(t, int64(32), arr.Size())
	assert.Equal(t, int64(8), arr.Alignment())

	assert.Nil(t, tr.Resolve("quux", 4), "unknown element type stays unknown")
}

func TestScalarClassification(t *testing.T) {
	assert.True(t, IsScalar(&IntType{}))
	assert.True(t, IsScalar(&BoolType{}))
	assert.True(t, IsScalar(&StringType{}), "strings are handles, one register wide")
	assert.False(t, IsScalar(&ArrayType{Elem: &IntType{}, Len: 2}))
}

func TestSizesAndAlignment(t *testing.T) {
	assert.Equal(t, int64(8), (&IntType{}).Size())
	assert.Equal(t, int64(1), (&BoolType{}).Size())
	assert.Equal(t, int64(1), (&CharType{}).Size())

	chars := &ArrayType{Elem: &CharType{}, Len: 10}
	assert.Equal(t, int64(10), chars.Size())
	assert.Equal(t, int64(1), chars.Alignment())
}
