package gen

import (
	"bytes"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dbcmd/compiler/load"
)

// TypeModel is the analyzed form of a declaration. It is built once per run
// and never modified afterwards.
type TypeModel struct {
	Name          string
	QualifiedName string
	PkgPath       string
	PkgName       string
	// Kind is the declaration shape; always "struct".
	Kind string
	// Namespace is the package path split into segments.
	Namespace []string
	// Outer is the chain of containing types. Go has no nested type
	// declarations, so it is always empty.
	Outer    []string
	Dir      string
	Pos      token.Position
	Metadata Metadata
	Policy   NamingPolicy
	Fields   []FieldInfo
	Shape    Shape
}

// HasRenames reports whether any parameter name differs from its field name.
func (m *TypeModel) HasRenames() bool {
	for _, f := range m.Fields {
		if f.Renamed() {
			return true
		}
	}
	return false
}

// Invokable reports whether an invocation function is generated.
func (m *TypeModel) Invokable() bool {
	return m.Metadata.CommandText() && m.Shape.Kind != ShapeNone
}

// Verb returns the prefix of the invocation function name.
func (m *TypeModel) Verb() string {
	if m.Shape.Contract == load.ContractQuery {
		return "Query"
	}
	return "Exec"
}

// InvokerName returns the name of the invocation function, e.g. ExecCreateUser.
func (m *TypeModel) InvokerName() string {
	return m.Verb() + m.Name
}

// FunctionCall returns the function command text with one placeholder per
// parameter in binding order, e.g. "totals(@cashier_id, @from)".
func (m *TypeModel) FunctionCall() string {
	params := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		params[i] = "@" + f.Param
	}
	return m.Metadata.Function + "(" + strings.Join(params, ", ") + ")"
}

// NewTypeModel parses and resolves a declaration. The global policy applies
// when the declaration does not set one.
func NewTypeModel(d *load.Declaration, global NamingPolicy) (*TypeModel, []Diagnostic) {
	meta, diags := ParseMetadata(d.Directives)
	m := &TypeModel{
		Name:          d.Name,
		QualifiedName: d.QualifiedName(),
		PkgPath:       d.PkgPath,
		PkgName:       d.PkgName,
		Kind:          "struct",
		Namespace:     strings.Split(d.PkgPath, "/"),
		Dir:           d.Dir,
		Pos:           d.Pos,
		Metadata:      meta,
		Policy:        EffectivePolicy(meta.Naming, global),
	}
	m.Fields = ResolveFields(d, m.Policy)
	m.Shape = AnalyzeShape(d.Contracts)
	for i := range diags {
		diags[i].Type = m.QualifiedName
	}
	return m, diags
}

// ArtifactKind tells the generated files of a declaration apart.
type ArtifactKind string

// Artifact kinds.
const (
	ArtifactProjector ArtifactKind = "projector"
	ArtifactInvoker   ArtifactKind = "invoker"
)

// Artifact is one generated file.
type Artifact struct {
	Kind ArtifactKind
	// Name is the file name, relative to the declaration directory.
	Name string
	// File is the file to render. Nil for artifacts restored from a cache.
	File *jen.File
	// Content is the rendered file, set once rendered or restored.
	Content []byte
}

// Render renders the artifact, once.
func (a *Artifact) Render() ([]byte, error) {
	if a.Content != nil {
		return a.Content, nil
	}
	var buf bytes.Buffer
	if err := a.File.Render(&buf); err != nil {
		return nil, NewGenerationError("render", a.Name, "", err)
	}
	a.Content = buf.Bytes()
	return a.Content, nil
}

// Result is the outcome of compiling one declaration.
type Result struct {
	Model       *TypeModel
	Diagnostics []Diagnostic
	// Files is empty when any diagnostic is an error.
	Files []*Artifact
	// Written lists the paths written for the declaration.
	Written []string
	// Cached reports whether Files were restored from the cache.
	Cached bool
}

// HasErrors reports whether the declaration is blocked by diagnostics.
func (r *Result) HasErrors() bool {
	return HasErrors(r.Diagnostics)
}

// Analyze builds the model of a declaration and validates it, without
// emitting code.
func Analyze(d *load.Declaration, cfg *Config) *Result {
	m, diags := NewTypeModel(d, cfg.Naming)
	diags = append(diags, Validate(m)...)
	SortDiagnostics(diags)
	return &Result{Model: m, Diagnostics: diags}
}

// Compile analyzes a declaration and, unless an error diagnostic blocks it,
// emits its files. Compile has no side effects.
func Compile(d *load.Declaration, cfg *Config) *Result {
	res := Analyze(d, cfg)
	if !res.HasErrors() {
		res.Files = Emit(res.Model, cfg.Header)
	}
	return res
}
