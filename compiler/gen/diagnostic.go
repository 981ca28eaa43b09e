package gen

import (
	"cmp"
	"fmt"
	"go/token"
	"slices"
	"strings"
)

// Severity of a diagnostic. Errors block code generation for their
// declaration; warnings never do.
type Severity uint8

// Severities.
const (
	SeverityError Severity = iota
	SeverityWarning
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// Diagnostic codes.
const (
	// CodeMissingContract: command text without a marker contract.
	CodeMissingContract = "DB_COMMAND_GEN001"
	// CodeNonQueryShape: nonquery with a result that is not an integer.
	CodeNonQueryShape = "DB_COMMAND_GEN002"
	// CodeExclusiveText: more than one command text directive.
	CodeExclusiveText = "DB_COMMAND_GEN003"
	// CodeIgnoredDirective: a directive that could not be used.
	CodeIgnoredDirective = "DB_COMMAND_GEN004"
)

// Diagnostic is a problem found in a declaration.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Pos      token.Position
	// Type is the qualified name of the declaration.
	Type string
}

// String formats the diagnostic the way compilers do:
//
//	billing/cashier.go:12:6: error DB_COMMAND_GEN003: procedure and query are mutually exclusive
func (d Diagnostic) String() string {
	prefix := d.Type
	if d.Pos.IsValid() {
		prefix = d.Pos.String()
	}
	return fmt.Sprintf("%s: %s %s: %s", prefix, d.Severity, d.Code, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	return slices.ContainsFunc(diags, func(d Diagnostic) bool { return d.Severity == SeverityError })
}

// SortDiagnostics orders diagnostics by code, then by position.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Pos.Filename, b.Pos.Filename); c != 0 {
			return c
		}
		return cmp.Compare(a.Pos.Offset, b.Pos.Offset)
	})
}

// rule checks one property of a model and returns at most one diagnostic.
type rule func(m *TypeModel) (Diagnostic, bool)

var rules = []rule{
	exclusiveText,
	nonQueryShape,
	missingContract,
}

// Validate runs every rule over the model. Rules are independent of each
// other; all findings are returned.
func Validate(m *TypeModel) []Diagnostic {
	var diags []Diagnostic
	for _, r := range rules {
		if d, ok := r(m); ok {
			d.Severity = SeverityError
			d.Pos = m.Pos
			d.Type = m.QualifiedName
			diags = append(diags, d)
		}
	}
	return diags
}

func exclusiveText(m *TypeModel) (Diagnostic, bool) {
	slots := m.Metadata.commandSlots()
	if len(slots) < 2 {
		return Diagnostic{}, false
	}
	list := strings.Join(slots[:len(slots)-1], ", ") + " and " + slots[len(slots)-1]
	return Diagnostic{
		Code:    CodeExclusiveText,
		Message: fmt.Sprintf("%s are mutually exclusive on %s", list, m.Name),
	}, true
}

func nonQueryShape(m *TypeModel) (Diagnostic, bool) {
	if !m.Metadata.NonQuery || m.Shape.Kind == ShapeNone || m.Shape.Kind == ShapeIntegralScalar {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Code:    CodeNonQueryShape,
		Message: fmt.Sprintf("nonquery %s must return an integer row count, not %s", m.Name, m.Shape),
	}, true
}

func missingContract(m *TypeModel) (Diagnostic, bool) {
	if !m.Metadata.CommandText() || m.Shape.Kind != ShapeNone {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Code:    CodeMissingContract,
		Message: fmt.Sprintf("%s has command text but embeds neither dbcmd.Command[R] nor dbcmd.Query[R]", m.Name),
	}, true
}
