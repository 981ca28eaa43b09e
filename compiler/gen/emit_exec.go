package gen

import (
	"fmt"
	"go/types"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
)

// emitInvoker generates the invocation function of a model:
//
//	func ExecCreateUser(ctx context.Context, x CreateUser, src sql.Source) (int64, error) {
//		ex, err := src.Conn(ctx, "billing")
//		if err != nil {
//			return 0, err
//		}
//		return sql.ExecCount[int64](ctx, ex, sql.Procedure("create_user", "FullName", "Email"), x.Params())
//	}
func emitInvoker(m *TypeModel, header string) *jen.File {
	f := newFile(m, header)
	ret, zero := invokerResult(m.Shape)
	name := m.InvokerName()

	f.Comment(fmt.Sprintf("%s %s %s.", name, commandPhrase(m), resultPhrase(m)))
	f.Func().Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("x").Id(m.Name),
		jen.Id("src").Qual(sqlPkg, "Source"),
	).Params(ret, jen.Error()).BlockFunc(func(g *jen.Group) {
		conn := jen.Id("src").Dot("Default").Call(jen.Id("ctx"))
		if m.Metadata.DataSource != "" {
			conn = jen.Id("src").Dot("Conn").Call(jen.Id("ctx"), jen.Lit(m.Metadata.DataSource))
		}
		g.List(jen.Id("ex"), jen.Err()).Op(":=").Add(conn)
		g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err()))

		call := callShape(m).Call(jen.Id("ctx"), jen.Id("ex"), command(m), jen.Id("x").Dot("Params").Call())
		if m.Shape.Kind == ShapeListOf && isNamed(m.Shape.Result) {
			g.List(jen.Id("list"), jen.Err()).Op(":=").Add(call)
			g.Return(jen.Add(typeCode(m.Shape.Result)).Call(jen.Id("list")), jen.Err())
			return
		}
		g.Return(call)
	})
	return f
}

// invokerResult returns the result type of the invocation function and its
// zero value.
func invokerResult(s Shape) (jen.Code, jen.Code) {
	switch s.Kind {
	case ShapeIntegralScalar:
		return typeCode(s.Result), jen.Lit(0)
	case ShapeListOf:
		return typeCode(s.Result), jen.Nil()
	default:
		return jen.Op("*").Add(typeCode(s.Elem)), jen.Nil()
	}
}

// callShape selects the runtime helper for the shape, instantiated with the
// scanned type.
func callShape(m *TypeModel) *jen.Statement {
	switch s := m.Shape; {
	case s.Kind == ShapeIntegralScalar && m.Metadata.NonQuery:
		return jen.Qual(sqlPkg, "ExecCount").Index(typeCode(s.Result))
	case s.Kind == ShapeIntegralScalar:
		return jen.Qual(sqlPkg, "Scalar").Index(typeCode(s.Result))
	case s.Kind == ShapeListOf:
		return jen.Qual(sqlPkg, "QueryList").Index(typeCode(s.Elem))
	case s.Kind == ShapeSingleObject:
		return jen.Qual(sqlPkg, "QuerySingle").Index(typeCode(s.Elem))
	default:
		return jen.Qual(sqlPkg, "Exec")
	}
}

// command builds the runtime command from the command text slot in use.
// Procedures and functions list the parameters in binding order.
func command(m *TypeModel) jen.Code {
	switch md := m.Metadata; {
	case md.Procedure != "":
		args := []jen.Code{jen.Lit(md.Procedure)}
		for _, f := range m.Fields {
			args = append(args, jen.Lit(f.Param))
		}
		return jen.Qual(sqlPkg, "Procedure").Call(args...)
	case md.Function != "":
		return jen.Qual(sqlPkg, "Function").Call(jen.Lit(m.FunctionCall()))
	default:
		return jen.Qual(sqlPkg, "Text").Call(jen.Lit(md.Query))
	}
}

func commandPhrase(m *TypeModel) string {
	switch md := m.Metadata; {
	case md.Procedure != "":
		return fmt.Sprintf("calls the %s procedure", md.Procedure)
	case md.Function != "":
		return fmt.Sprintf("selects from the %s function", md.Function)
	default:
		return "runs the query of " + m.Name
	}
}

func resultPhrase(m *TypeModel) string {
	s := m.Shape
	switch {
	case s.Kind == ShapeIntegralScalar && m.Metadata.NonQuery:
		return "and returns the number of affected rows"
	case s.Kind == ShapeIntegralScalar:
		return "and returns the scalar result"
	case s.Kind == ShapeListOf:
		return "and returns all matching " + inflect.Pluralize(noun(s.Elem))
	default:
		return fmt.Sprintf("and returns the matching %s, or nil when there is none", noun(s.Elem))
	}
}

// noun names a type in prose: "user summary" for UserSummary, "value" for
// unnamed types.
func noun(t types.Type) string {
	if n, ok := types.Unalias(t).(*types.Named); ok {
		return words(n.Obj().Name())
	}
	return "value"
}

func isNamed(t types.Type) bool {
	_, ok := types.Unalias(t).(*types.Named)
	return ok
}
