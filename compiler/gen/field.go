package gen

import (
	"go/types"
	"strings"

	"github.com/syssam/dbcmd/compiler/load"
)

// FieldInfo is a field bound to a parameter.
type FieldInfo struct {
	// Name is the Go field name.
	Name string
	// Param is the resolved parameter name.
	Param string
	// Positional reports whether the field is bound by the constructor.
	Positional bool
	Exported   bool
	Type       types.Type
}

// Renamed reports whether the parameter name differs from the field name.
func (f FieldInfo) Renamed() bool { return f.Param != f.Name }

// EffectivePolicy returns the type policy unless it is unset, and the
// global policy otherwise.
func EffectivePolicy(typ, global NamingPolicy) NamingPolicy {
	if typ != NamingUnset {
		return typ
	}
	return global
}

// ResolveFields returns the parameter-bearing fields of d in binding order:
// fields bound by the constructor first, in parameter order, then the
// remaining exported fields in declaration order. Embedded fields, blank
// fields and fields tagged `db:"-"` never carry a parameter.
func ResolveFields(d *load.Declaration, policy NamingPolicy) []FieldInfo {
	var candidates []*load.Field
	for _, f := range d.Fields {
		if f.Embedded || f.Name == "_" || f.Tag == "-" {
			continue
		}
		candidates = append(candidates, f)
	}
	taken := make(map[*load.Field]bool)
	fields := make([]FieldInfo, 0, len(candidates))
	for _, p := range d.Constructor {
		f := bindParam(candidates, taken, p)
		if f == nil {
			continue
		}
		taken[f] = true
		fields = append(fields, fieldInfo(f, policy, true))
	}
	for _, f := range candidates {
		if taken[f] || !f.Exported {
			continue
		}
		fields = append(fields, fieldInfo(f, policy, false))
	}
	return fields
}

// bindParam finds the field a constructor parameter binds, preferring an
// exact name match over a case-insensitive one.
func bindParam(candidates []*load.Field, taken map[*load.Field]bool, param string) *load.Field {
	var fold *load.Field
	for _, f := range candidates {
		if taken[f] {
			continue
		}
		if f.Name == param {
			return f
		}
		if fold == nil && strings.EqualFold(f.Name, param) {
			fold = f
		}
	}
	return fold
}

func fieldInfo(f *load.Field, policy NamingPolicy, positional bool) FieldInfo {
	return FieldInfo{
		Name:       f.Name,
		Param:      paramName(f, policy),
		Positional: positional,
		Exported:   f.Exported,
		Type:       f.Type,
	}
}

func paramName(f *load.Field, policy NamingPolicy) string {
	switch {
	case f.Tag != "":
		return f.Tag
	case policy == NamingSnakeCase:
		return snake(f.Name)
	default:
		return f.Name
	}
}
