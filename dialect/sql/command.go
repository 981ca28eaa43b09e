package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/syssam/dbcmd/dialect"
)

// ErrUnsupported is returned when a dialect cannot express a command kind.
var ErrUnsupported = errors.New("dialect/sql: unsupported by dialect")

// CommandKind tells how the command text is turned into a statement.
type CommandKind uint8

const (
	// KindText runs the text verbatim.
	KindText CommandKind = iota
	// KindProcedure calls a stored routine with the named parameters in order.
	KindProcedure
	// KindFunction selects from a function call expression.
	KindFunction
)

// String implements fmt.Stringer.
func (k CommandKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindProcedure:
		return "procedure"
	case KindFunction:
		return "function"
	}
	return fmt.Sprintf("CommandKind(%d)", k)
}

// Command is the command text a generated invoker runs.
type Command struct {
	Kind CommandKind
	Text string
	// Params are the argument names of a procedure call, in call order.
	Params []string
}

// Text returns a command running query verbatim.
func Text(query string) Command { return Command{Kind: KindText, Text: query} }

// Procedure returns a command calling the stored routine name with the bag
// parameters params, in that order. Bag entries not listed are not passed.
func Procedure(name string, params ...string) Command {
	return Command{Kind: KindProcedure, Text: name, Params: params}
}

// Function returns a command selecting from the call expression, for example
// "invoice_totals(@cashier_id, @from)".
func Function(call string) Command { return Command{Kind: KindFunction, Text: call} }

// String returns the command text.
func (c Command) String() string { return c.Text }

// rowSet reports whether the statement is expected to return rows of a
// record type, as opposed to a single value or nothing.
type rowSet bool

// render builds the final statement for the dialect.
func (c Command) render(d string, rows rowSet) (string, error) {
	switch c.Kind {
	case KindText:
		return c.Text, nil
	case KindFunction:
		if rows {
			return "SELECT * FROM " + c.Text, nil
		}
		return "SELECT " + c.Text, nil
	case KindProcedure:
		if d == dialect.SQLite {
			return "", fmt.Errorf("%w: stored procedure %q on %s", ErrUnsupported, c.Text, d)
		}
		var b strings.Builder
		b.WriteString("CALL ")
		b.WriteString(quoteRoutine(d, c.Text))
		b.WriteByte('(')
		for i, name := range c.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('@')
			b.WriteString(name)
		}
		b.WriteByte(')')
		return b.String(), nil
	}
	return "", fmt.Errorf("dialect/sql: unknown command kind %v", c.Kind)
}

// quoteRoutine quotes every part of a (possibly schema-qualified) routine name.
func quoteRoutine(d, name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		switch d {
		case dialect.Postgres:
			parts[i] = pq.QuoteIdentifier(p)
		case dialect.MySQL:
			parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
		}
	}
	return strings.Join(parts, ".")
}
