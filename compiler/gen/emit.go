package gen

import (
	"fmt"
	"go/types"

	"github.com/dave/jennifer/jen"
)

// Import paths referenced by generated code.
const (
	dbcmdPkg = "github.com/syssam/dbcmd"
	sqlPkg   = "github.com/syssam/dbcmd/dialect/sql"
)

const generatedComment = "Code generated by dbcmd. DO NOT EDIT."

// Emit returns the files generated for a validated model: the projector
// always, and the invocation function when the model has command text and
// a result shape.
func Emit(m *TypeModel, header string) []*Artifact {
	files := []*Artifact{{
		Kind: ArtifactProjector,
		Name: snake(m.Name) + "_params.go",
		File: emitProjector(m, header),
	}}
	if m.Invokable() {
		files = append(files, &Artifact{
			Kind: ArtifactInvoker,
			Name: snake(m.Name) + "_exec.go",
			File: emitInvoker(m, header),
		})
	}
	return files
}

// newFile creates a file in the package of the model with the header comment.
func newFile(m *TypeModel, header string) *jen.File {
	f := jen.NewFilePathName(m.PkgPath, m.PkgName)
	if header != "" {
		f.HeaderComment(header)
	}
	f.HeaderComment(generatedComment)
	f.ImportName(dbcmdPkg, "dbcmd")
	f.ImportName(sqlPkg, "sql")
	return f
}

// emitProjector generates the Params method. Without renames the instance
// is its own parameter bag; otherwise the bag lists the parameters in
// binding order.
func emitProjector(m *TypeModel, header string) *jen.File {
	f := newFile(m, header)
	f.Var().Id("_").Qual(dbcmdPkg, "Projector").Op("=").Parens(jen.Op("*").Id(m.Name)).Parens(jen.Nil())
	f.Line()

	var body jen.Code
	if m.HasRenames() {
		f.Comment(fmt.Sprintf("Params returns the named parameters of %s.", m.Name))
		body = jen.Return(jen.Qual(dbcmdPkg, "Args").CustomFunc(jen.Options{
			Open:      "{",
			Close:     "}",
			Separator: ",",
			Multi:     true,
		}, func(g *jen.Group) {
			for _, fi := range m.Fields {
				g.Qual(dbcmdPkg, "Named").Call(jen.Lit(fi.Param), jen.Id("x").Dot(fi.Name))
			}
		}))
	} else {
		f.Comment(fmt.Sprintf("Params returns %s itself; its field names are the parameter names.", m.Name))
		body = jen.Return(jen.Id("x"))
	}
	f.Func().Params(jen.Id("x").Id(m.Name)).Id("Params").Params().Any().Block(body)
	return f
}

// typeCode renders a type as jennifer code, qualifying named types by
// import path.
func typeCode(t types.Type) jen.Code {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return jen.Id(t.Name())
	case *types.Named:
		obj := t.Obj()
		var c *jen.Statement
		if obj.Pkg() == nil {
			c = jen.Id(obj.Name())
		} else {
			c = jen.Qual(obj.Pkg().Path(), obj.Name())
		}
		if args := t.TypeArgs(); args.Len() > 0 {
			list := make([]jen.Code, args.Len())
			for i := range list {
				list[i] = typeCode(args.At(i))
			}
			c = c.Index(jen.List(list...))
		}
		return c
	case *types.Pointer:
		return jen.Op("*").Add(typeCode(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(typeCode(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(typeCode(t.Elem()))
	case *types.Map:
		return jen.Map(typeCode(t.Key())).Add(typeCode(t.Elem()))
	case *types.Interface:
		if t.Empty() {
			return jen.Any()
		}
	}
	return jen.Id(types.TypeString(t, func(p *types.Package) string { return p.Name() }))
}
