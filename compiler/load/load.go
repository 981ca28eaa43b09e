// Package load reads command declarations out of Go packages.
//
// A declaration is a struct type whose doc comment carries at least one
// //dbcmd: directive. The loader reports the raw directives, the struct
// fields, the parameter names of the New<Type> constructor and the marker
// contracts the struct embeds. It never interprets directive values.
package load

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// MarkerPkg is the import path of the package declaring the marker contracts.
const MarkerPkg = "github.com/syssam/dbcmd"

// DirectivePrefix starts every directive comment line.
const DirectivePrefix = "//dbcmd:"

// Directive is one //dbcmd:<name> <value> comment line.
type Directive struct {
	Name  string
	Value string
	Pos   token.Position
}

// String returns the directive as written.
func (d Directive) String() string {
	if d.Value == "" {
		return DirectivePrefix + d.Name
	}
	return DirectivePrefix + d.Name + " " + d.Value
}

// Field is a struct field of a declaration, in declaration order.
type Field struct {
	Name string
	// Tag is the name part of the `db` struct tag, empty when absent.
	Tag      string
	Exported bool
	Embedded bool
	Type     types.Type
	Pos      token.Position
}

// ContractKind names a marker contract.
type ContractKind string

// Marker contracts.
const (
	ContractCommand ContractKind = "Command"
	ContractQuery   ContractKind = "Query"
)

// Contract is an embedded marker instantiation, e.g. dbcmd.Query[[]User].
type Contract struct {
	Kind   ContractKind
	Result types.Type
}

// Declaration is a struct type annotated with directives.
type Declaration struct {
	Name    string
	PkgPath string
	PkgName string
	// Dir is the directory of the file declaring the type.
	Dir        string
	Pos        token.Position
	Directives []Directive
	Fields     []*Field
	// Constructor holds the parameter names of the package-level New<Name>
	// function returning the type, nil when there is none.
	Constructor []string
	// Contracts lists the embedded marker contracts, outermost first.
	Contracts []Contract
}

// QualifiedName returns the package-qualified name of the declaration.
func (d *Declaration) QualifiedName() string {
	return d.PkgPath + "." + d.Name
}

// Fingerprint returns a stable digest of everything code generation reads
// from the declaration. Positions are left out.
func (d *Declaration) Fingerprint() string {
	h := sha256.New()
	qual := types.RelativeTo(nil)
	fmt.Fprintf(h, "decl %s %s %s\n", d.PkgPath, d.PkgName, d.Name)
	for _, dir := range d.Directives {
		fmt.Fprintf(h, "directive %q %q\n", dir.Name, dir.Value)
	}
	for _, f := range d.Fields {
		fmt.Fprintf(h, "field %q %q %t %t %s\n", f.Name, f.Tag, f.Exported, f.Embedded, types.TypeString(f.Type, qual))
	}
	fmt.Fprintf(h, "ctor %q\n", d.Constructor)
	for _, c := range d.Contracts {
		fmt.Fprintf(h, "contract %s %s\n", c.Kind, types.TypeString(c.Result, qual))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Config configures package loading.
type Config struct {
	// Dir is the directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
	// BuildFlags are passed to the build system, e.g. "-tags=integration".
	BuildFlags []string
}

// Set is the result of loading a list of package patterns.
type Set struct {
	Patterns []string
	Packages []string
	// Dirs holds the source directories of the loaded packages, sorted.
	Dirs         []string
	declarations []*Declaration
}

// Declarations returns the declarations of the set, ordered by package
// path and source position.
func (s *Set) Declarations(context.Context) ([]*Declaration, error) {
	return s.declarations, nil
}

// Load loads the packages matching patterns and collects their declarations.
func Load(ctx context.Context, cfg *Config, patterns ...string) (*Set, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages %q: %w", patterns, err)
	}
	var errs []error
	for _, p := range pkgs {
		for _, e := range p.Errors {
			errs = append(errs, fmt.Errorf("%s: %s", p.PkgPath, e))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	set := &Set{Patterns: patterns}
	for _, p := range pkgs {
		set.Packages = append(set.Packages, p.PkgPath)
		if len(p.GoFiles) > 0 {
			set.Dirs = append(set.Dirs, filepath.Dir(p.GoFiles[0]))
		}
		set.declarations = append(set.declarations, Inspect(p.Fset, p.Syntax, p.Types)...)
	}
	slices.Sort(set.Dirs)
	set.Dirs = slices.Compact(set.Dirs)
	slices.SortStableFunc(set.declarations, func(a, b *Declaration) int {
		if c := strings.Compare(a.PkgPath, b.PkgPath); c != 0 {
			return c
		}
		if c := strings.Compare(a.Pos.Filename, b.Pos.Filename); c != 0 {
			return c
		}
		return a.Pos.Offset - b.Pos.Offset
	})
	return set, nil
}

// Inspect collects the declarations of a type-checked package.
func Inspect(fset *token.FileSet, files []*ast.File, pkg *types.Package) []*Declaration {
	var decls []*Declaration
	for _, file := range files {
		for _, gd := range file.Decls {
			gd, ok := gd.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				directives := parseDirectives(fset, doc)
				if len(directives) == 0 {
					continue
				}
				if d := declaration(fset, pkg, ts, directives); d != nil {
					decls = append(decls, d)
				}
			}
		}
	}
	return decls
}

func parseDirectives(fset *token.FileSet, doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}
	var directives []Directive
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, DirectivePrefix)
		if !ok {
			continue
		}
		name, value, _ := strings.Cut(rest, " ")
		directives = append(directives, Directive{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
			Pos:   fset.Position(c.Slash),
		})
	}
	return directives
}

func declaration(fset *token.FileSet, pkg *types.Package, ts *ast.TypeSpec, directives []Directive) *Declaration {
	obj, ok := pkg.Scope().Lookup(ts.Name.Name).(*types.TypeName)
	if !ok || obj.IsAlias() {
		return nil
	}
	named, ok := obj.Type().(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		return nil
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	pos := fset.Position(ts.Name.Pos())
	d := &Declaration{
		Name:       obj.Name(),
		PkgPath:    pkg.Path(),
		PkgName:    pkg.Name(),
		Dir:        filepath.Dir(pos.Filename),
		Pos:        pos,
		Directives: directives,
	}
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		tag, _, _ := strings.Cut(reflect.StructTag(st.Tag(i)).Get("db"), ",")
		d.Fields = append(d.Fields, &Field{
			Name:     v.Name(),
			Tag:      tag,
			Exported: v.Exported(),
			Embedded: v.Embedded(),
			Type:     v.Type(),
			Pos:      fset.Position(v.Pos()),
		})
	}
	d.Contracts = contracts(st, make(map[*types.Struct]bool))
	d.Constructor = constructor(pkg, named)
	return d
}

// contracts walks embedded fields depth-first and returns every marker
// instantiation whose methods are promoted to the struct.
func contracts(st *types.Struct, seen map[*types.Struct]bool) []Contract {
	if seen[st] {
		return nil
	}
	seen[st] = true
	var cs []Contract
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		if !v.Embedded() {
			continue
		}
		t := v.Type()
		if p, ok := t.(*types.Pointer); ok {
			t = p.Elem()
		}
		named, ok := types.Unalias(t).(*types.Named)
		if !ok {
			continue
		}
		if c, ok := marker(named); ok {
			cs = append(cs, c)
			continue
		}
		if inner, ok := named.Underlying().(*types.Struct); ok {
			cs = append(cs, contracts(inner, seen)...)
		}
	}
	return cs
}

func marker(named *types.Named) (Contract, bool) {
	obj := named.Origin().Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != MarkerPkg || named.TypeArgs().Len() != 1 {
		return Contract{}, false
	}
	switch kind := ContractKind(obj.Name()); kind {
	case ContractCommand, ContractQuery:
		return Contract{Kind: kind, Result: named.TypeArgs().At(0)}, true
	}
	return Contract{}, false
}

// constructor returns the parameter names of New<Type> when it returns the
// type or a pointer to it as its first result.
func constructor(pkg *types.Package, named *types.Named) []string {
	fn, ok := pkg.Scope().Lookup("New" + named.Obj().Name()).(*types.Func)
	if !ok {
		return nil
	}
	sig := fn.Type().(*types.Signature)
	if sig.Results().Len() == 0 {
		return nil
	}
	rt := sig.Results().At(0).Type()
	if p, ok := rt.(*types.Pointer); ok {
		rt = p.Elem()
	}
	if !types.Identical(rt, named) {
		return nil
	}
	names := make([]string, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		if name := sig.Params().At(i).Name(); name != "" && name != "_" {
			names = append(names, name)
		}
	}
	return names
}
