package gen

import (
	"fmt"
	"go/types"

	"github.com/syssam/dbcmd/compiler/load"
)

// ShapeKind classifies the result of a command.
type ShapeKind uint8

// Result shapes.
const (
	// ShapeNone means the declaration embeds no marker contract.
	ShapeNone ShapeKind = iota
	// ShapeIntegralScalar is a 16, 32 or 64-bit integer result.
	ShapeIntegralScalar
	// ShapeListOf is a slice result.
	ShapeListOf
	// ShapeSingleObject is any other result.
	ShapeSingleObject
)

// String implements fmt.Stringer.
func (k ShapeKind) String() string {
	switch k {
	case ShapeNone:
		return "None"
	case ShapeIntegralScalar:
		return "IntegralScalar"
	case ShapeListOf:
		return "ListOf"
	case ShapeSingleObject:
		return "SingleObject"
	}
	return fmt.Sprintf("ShapeKind(%d)", k)
}

// Shape is the result shape of a declaration.
type Shape struct {
	Kind ShapeKind
	// Contract is the marker the shape was derived from.
	Contract load.ContractKind
	// Result is the type argument of the marker.
	Result types.Type
	// Elem is the list element for ShapeListOf, the record type for
	// ShapeSingleObject (pointer results are dereferenced) and Result
	// otherwise.
	Elem types.Type
}

// String returns a readable form of the shape, e.g. "ListOf(app.User)".
func (s Shape) String() string {
	if s.Kind == ShapeNone {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", s.Kind, types.TypeString(s.Elem, func(p *types.Package) string { return p.Name() }))
}

// AnalyzeShape derives the result shape from the marker contracts of a
// declaration. The first contract wins.
func AnalyzeShape(contracts []load.Contract) Shape {
	if len(contracts) == 0 {
		return Shape{Kind: ShapeNone}
	}
	c := contracts[0]
	s := Shape{Contract: c.Kind, Result: c.Result, Elem: c.Result}
	switch u := c.Result.Underlying().(type) {
	case *types.Basic:
		if integral(u) {
			s.Kind = ShapeIntegralScalar
			return s
		}
	case *types.Slice:
		if !byteSlice(u) {
			s.Kind = ShapeListOf
			s.Elem = u.Elem()
			return s
		}
	}
	s.Kind = ShapeSingleObject
	if p, ok := c.Result.(*types.Pointer); ok {
		s.Elem = p.Elem()
	}
	return s
}

// byteSlice reports whether s is a byte slice, which is read from a single
// column rather than row by row.
func byteSlice(s *types.Slice) bool {
	b, ok := s.Elem().Underlying().(*types.Basic)
	return ok && b.Kind() == types.Uint8
}

func integral(b *types.Basic) bool {
	switch b.Kind() {
	case types.Int16, types.Int32, types.Int64, types.Uint16, types.Uint32, types.Uint64, types.Int, types.Uint:
		return true
	}
	return false
}
