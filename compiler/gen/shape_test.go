package gen

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/dbcmd/compiler/load"
)

func TestAnalyzeShape(t *testing.T) {
	pkg := types.NewPackage("example.com/app", "app")
	user := types.NewNamed(types.NewTypeName(0, pkg, "User", nil), types.NewStruct(nil, nil), nil)
	users := types.NewNamed(types.NewTypeName(0, pkg, "Users", nil), types.NewSlice(user), nil)
	rows := types.NewNamed(types.NewTypeName(0, pkg, "Rows", nil), types.Typ[types.Int64], nil)
	raw := types.NewNamed(types.NewTypeName(0, pkg, "Raw", nil), types.NewSlice(types.Typ[types.Byte]), nil)
	blob := types.NewSlice(types.Typ[types.Byte])

	tests := []struct {
		name   string
		result types.Type
		kind   ShapeKind
		elem   types.Type
		str    string
	}{
		{"int16", types.Typ[types.Int16], ShapeIntegralScalar, types.Typ[types.Int16], "IntegralScalar(int16)"},
		{"int32", types.Typ[types.Int32], ShapeIntegralScalar, types.Typ[types.Int32], "IntegralScalar(int32)"},
		{"int64", types.Typ[types.Int64], ShapeIntegralScalar, types.Typ[types.Int64], "IntegralScalar(int64)"},
		{"int", types.Typ[types.Int], ShapeIntegralScalar, types.Typ[types.Int], "IntegralScalar(int)"},
		{"uint32", types.Typ[types.Uint32], ShapeIntegralScalar, types.Typ[types.Uint32], "IntegralScalar(uint32)"},
		{"named integer", rows, ShapeIntegralScalar, rows, "IntegralScalar(app.Rows)"},
		{"int8", types.Typ[types.Int8], ShapeSingleObject, types.Typ[types.Int8], "SingleObject(int8)"},
		{"string", types.Typ[types.String], ShapeSingleObject, types.Typ[types.String], "SingleObject(string)"},
		{"slice", types.NewSlice(user), ShapeListOf, user, "ListOf(app.User)"},
		{"named slice", users, ShapeListOf, user, "ListOf(app.User)"},
		{"byte slice", blob, ShapeSingleObject, blob, "SingleObject([]uint8)"},
		{"named byte slice", raw, ShapeSingleObject, raw, "SingleObject(app.Raw)"},
		{"struct", user, ShapeSingleObject, user, "SingleObject(app.User)"},
		{"pointer", types.NewPointer(user), ShapeSingleObject, user, "SingleObject(app.User)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := AnalyzeShape([]load.Contract{{Kind: load.ContractQuery, Result: tt.result}})
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, load.ContractQuery, s.Contract)
			assert.True(t, types.Identical(tt.elem, s.Elem), "elem %s", s.Elem)
			assert.Same(t, tt.result, s.Result)
			assert.Equal(t, tt.str, s.String())
		})
	}
}

func TestAnalyzeShape_Contracts(t *testing.T) {
	s := AnalyzeShape(nil)
	assert.Equal(t, ShapeNone, s.Kind)
	assert.Equal(t, "None", s.String())

	s = AnalyzeShape([]load.Contract{
		{Kind: load.ContractCommand, Result: types.Typ[types.Int]},
		{Kind: load.ContractQuery, Result: types.Typ[types.String]},
	})
	assert.Equal(t, ShapeIntegralScalar, s.Kind)
	assert.Equal(t, load.ContractCommand, s.Contract)
}

func TestShape_Declarations(t *testing.T) {
	tests := map[string]string{
		"CreateUser":      "IntegralScalar(int)",
		"InvoiceTotals":   "ListOf(billing.Invoice)",
		"OpenInvoices":    "ListOf(billing.Invoice)",
		"InvoiceByID":     "SingleObject(billing.Invoice)",
		"CountInvoices":   "IntegralScalar(billing.Count)",
		"NoContract":      "None",
		"RegisterCashier": "None",
	}
	for name, want := range tests {
		d := declaration(t, billingSrc, name)
		assert.Equal(t, want, AnalyzeShape(d.Contracts).String(), name)
	}
}

func TestShapeKind_String(t *testing.T) {
	assert.Equal(t, "ListOf", ShapeListOf.String())
	assert.Equal(t, "ShapeKind(9)", ShapeKind(9).String())
}
