package ir

import (
	"sort"
	"strings"
)

// VarSet is a set of SSA-named variables. Liveness only tracks named,
// non-temporary variables: temporaries are single-def by construction and
// never outlive their block.
type VarSet map[VarKey]struct{}

func NewVarSet() VarSet { return make(VarSet) }

func (s VarSet) Add(k VarKey)      { s[k] = struct{}{} }
func (s VarSet) Remove(k VarKey)   { delete(s, k) }
func (s VarSet) Has(k VarKey) bool { _, ok := s[k]; return ok }
func (s VarSet) Len() int          { return len(s) }

// AddAll unions other into s and reports whether s grew.
func (s VarSet) AddAll(other VarSet) bool {
	grew := false
	for k := range other {
		if !s.Has(k) {
			s.Add(k)
			grew = true
		}
	}
	return grew
}

func (s VarSet) Clone() VarSet {
	c := make(VarSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

func (s VarSet) Equal(other VarSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

func (s VarSet) String() string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return "{" + strings.Join(names, " ") + "}"
}
