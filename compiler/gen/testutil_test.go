package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcmd/compiler/load"
)

const markerSrc = `package dbcmd

type Command[R any] struct{}

type Query[R any] struct{}
`

type testImporter struct {
	fset     *token.FileSet
	fallback types.Importer
	marker   *types.Package
}

func (i *testImporter) Import(path string) (*types.Package, error) {
	if path != load.MarkerPkg {
		return i.fallback.Import(path)
	}
	if i.marker == nil {
		f, err := parser.ParseFile(i.fset, "dbcmd.go", markerSrc, 0)
		if err != nil {
			return nil, err
		}
		if i.marker, err = (&types.Config{}).Check(load.MarkerPkg, i.fset, []*ast.File{f}, nil); err != nil {
			return nil, err
		}
	}
	return i.marker, nil
}

// declarations type-checks src as package example.com/billing and returns
// its declarations.
func declarations(t testing.TB, src string) []*load.Declaration {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "billing.go", src, parser.ParseComments)
	require.NoError(t, err)
	conf := types.Config{Importer: &testImporter{fset: fset, fallback: importer.ForCompiler(fset, "source", nil)}}
	pkg, err := conf.Check("example.com/billing", fset, []*ast.File{f}, nil)
	require.NoError(t, err)
	return load.Inspect(fset, []*ast.File{f}, pkg)
}

// declaration returns the declaration called name.
func declaration(t testing.TB, src, name string) *load.Declaration {
	t.Helper()
	for _, d := range declarations(t, src) {
		if d.Name == name {
			return d
		}
	}
	require.Failf(t, "declaration not found", "no declaration %q", name)
	return nil
}

// render renders every artifact of a result, keyed by file name.
func render(t testing.TB, res *Result) map[string]string {
	t.Helper()
	out := make(map[string]string, len(res.Files))
	for _, f := range res.Files {
		b, err := f.Render()
		require.NoError(t, err)
		out[f.Name] = string(b)
	}
	return out
}

const billingSrc = `package billing

import "github.com/syssam/dbcmd"

type Invoice struct {
	ID     int64
	Amount int64
}

type Invoices []Invoice

type Count int32

// RegisterCashier has no command text.
//
//dbcmd:naming snake_case
type RegisterCashier struct {
	FullName     string
	EmailAddress string
}

//dbcmd:procedure create_user
//dbcmd:nonquery
//dbcmd:datasource billing
type CreateUser struct {
	dbcmd.Command[int]
	Name  string
	Email string
}

//dbcmd:procedure create_user
//dbcmd:query INSERT INTO users (name) VALUES (@Name)
type Conflicting struct {
	dbcmd.Command[int]
	Name string
}

//dbcmd:function f
//dbcmd:naming snake_case
type InvoiceTotals struct {
	dbcmd.Query[[]Invoice]
	CashierID   int64
	InvoiceNo   string
	TotalAmount int64
}

//dbcmd:query SELECT id, amount FROM invoices
//dbcmd:query WHERE cashier_id = @cashier
type OpenInvoices struct {
	dbcmd.Query[Invoices]
	Cashier int64 ` + "`db:\"cashier\"`" + `
}

//dbcmd:query SELECT id, amount FROM invoices WHERE id = @ID
type InvoiceByID struct {
	dbcmd.Query[*Invoice]
	ID int64
}

//dbcmd:query SELECT count(*) FROM invoices
type CountInvoices struct {
	dbcmd.Query[Count]
}

//dbcmd:query SELECT 1
type NoContract struct {
	Name string
}

//dbcmd:procedure purge
//dbcmd:nonquery
type BadNonQuery struct {
	dbcmd.Command[[]Invoice]
}
`
