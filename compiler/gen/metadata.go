package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/dbcmd/compiler/load"
)

// NamingPolicy converts field names into parameter names.
type NamingPolicy uint8

// Naming policies.
const (
	// NamingUnset defers to the next level of configuration.
	NamingUnset NamingPolicy = iota
	// NamingIdentity keeps field names unchanged.
	NamingIdentity
	// NamingSnakeCase converts field names to snake_case.
	NamingSnakeCase
)

// String returns the directive spelling of the policy.
func (p NamingPolicy) String() string {
	switch p {
	case NamingUnset:
		return "unset"
	case NamingIdentity:
		return "identity"
	case NamingSnakeCase:
		return "snake_case"
	}
	return fmt.Sprintf("NamingPolicy(%d)", p)
}

// ParseNamingPolicy parses the directive and configuration spelling of a
// naming policy. The empty string is NamingUnset.
func ParseNamingPolicy(s string) (NamingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return NamingUnset, nil
	case "identity":
		return NamingIdentity, nil
	case "snake_case":
		return NamingSnakeCase, nil
	}
	return NamingUnset, fmt.Errorf("unknown naming policy %q", s)
}

// Metadata holds the raw directive values of a declaration. Empty strings
// are unset slots. At most one of Procedure, Query and Function should be
// set, but parsing does not enforce it.
type Metadata struct {
	Procedure  string
	Query      string
	Function   string
	Naming     NamingPolicy
	NonQuery   bool
	DataSource string
}

// CommandText reports whether any command text slot is set.
func (m Metadata) CommandText() bool {
	return m.Procedure != "" || m.Query != "" || m.Function != ""
}

// commandSlots returns the names of the command text directives in use, in
// canonical order.
func (m Metadata) commandSlots() []string {
	var slots []string
	if m.Procedure != "" {
		slots = append(slots, "procedure")
	}
	if m.Query != "" {
		slots = append(slots, "query")
	}
	if m.Function != "" {
		slots = append(slots, "function")
	}
	return slots
}

// ParseMetadata extracts Metadata from the directives of a declaration.
// Directives it cannot use are reported as warnings and leave their slot
// unset.
func ParseMetadata(directives []load.Directive) (Metadata, []Diagnostic) {
	var (
		m     Metadata
		diags []Diagnostic
		query []string
	)
	warn := func(d load.Directive, format string, args ...any) {
		diags = append(diags, Diagnostic{
			Code:     CodeIgnoredDirective,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("ignoring %s: ", d) + fmt.Sprintf(format, args...),
			Pos:      d.Pos,
		})
	}
	for _, d := range directives {
		switch d.Name {
		case "procedure", "function", "datasource":
			if d.Value == "" {
				warn(d, "missing value")
				continue
			}
			switch d.Name {
			case "procedure":
				m.Procedure = d.Value
			case "function":
				m.Function = d.Value
			default:
				m.DataSource = d.Value
			}
		case "query":
			query = append(query, d.Value)
		case "naming":
			p, err := ParseNamingPolicy(d.Value)
			if err != nil {
				warn(d, "%v", err)
				continue
			}
			m.Naming = p
		case "nonquery":
			if d.Value == "" {
				m.NonQuery = true
				continue
			}
			v, err := strconv.ParseBool(d.Value)
			if err != nil {
				warn(d, "value must be true or false")
				continue
			}
			m.NonQuery = v
		case "params":
		default:
			warn(d, "unknown directive %q", d.Name)
		}
	}
	if q := strings.TrimSpace(strings.Join(query, "\n")); q != "" {
		m.Query = q
	}
	return m, diags
}
