package gen

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcmd/compiler/load"
)

func directives(pairs ...string) []load.Directive {
	ds := make([]load.Directive, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ds = append(ds, load.Directive{Name: pairs[i], Value: pairs[i+1], Pos: token.Position{Filename: "x.go", Line: i/2 + 1, Column: 1}})
	}
	return ds
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name  string
		in    []load.Directive
		want  Metadata
		codes []string
	}{
		{
			name: "empty",
			want: Metadata{},
		},
		{
			name: "all slots",
			in: directives(
				"procedure", "create_user",
				"naming", "snake_case",
				"nonquery", "",
				"datasource", "billing",
				"params", "",
			),
			want: Metadata{Procedure: "create_user", Naming: NamingSnakeCase, NonQuery: true, DataSource: "billing"},
		},
		{
			name: "multi-line query",
			in:   directives("query", "SELECT id", "query", "FROM users", "query", "WHERE id = @ID"),
			want: Metadata{Query: "SELECT id\nFROM users\nWHERE id = @ID"},
		},
		{
			name: "exclusive slots are kept",
			in:   directives("function", "f", "procedure", "p"),
			want: Metadata{Function: "f", Procedure: "p"},
		},
		{
			name: "nonquery values",
			in:   directives("nonquery", "false"),
			want: Metadata{},
		},
		{
			name:  "invalid nonquery",
			in:    directives("nonquery", "sometimes"),
			want:  Metadata{},
			codes: []string{CodeIgnoredDirective},
		},
		{
			name:  "unknown naming",
			in:    directives("naming", "kebab", "naming", "identity"),
			want:  Metadata{Naming: NamingIdentity},
			codes: []string{CodeIgnoredDirective},
		},
		{
			name:  "unknown directive and missing values",
			in:    directives("timeout", "5s", "procedure", "", "query", ""),
			want:  Metadata{},
			codes: []string{CodeIgnoredDirective, CodeIgnoredDirective},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, diags := ParseMetadata(tt.in)
			assert.Equal(t, tt.want, m)
			var codes []string
			for _, d := range diags {
				assert.Equal(t, SeverityWarning, d.Severity)
				assert.True(t, d.Pos.IsValid())
				codes = append(codes, d.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestParseMetadata_WarningMessage(t *testing.T) {
	_, diags := ParseMetadata(directives("timeout", "5s"))
	require.Len(t, diags, 1)
	assert.Equal(t, `ignoring //dbcmd:timeout 5s: unknown directive "timeout"`, diags[0].Message)
	assert.Equal(t, 1, diags[0].Pos.Line)
}

func TestParseNamingPolicy(t *testing.T) {
	for in, want := range map[string]NamingPolicy{
		"":            NamingUnset,
		"unset":       NamingUnset,
		"identity":    NamingIdentity,
		"snake_case":  NamingSnakeCase,
		" Snake_Case": NamingSnakeCase,
	} {
		got, err := ParseNamingPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseNamingPolicy("camel")
	require.Error(t, err)

	assert.Equal(t, "snake_case", NamingSnakeCase.String())
	assert.Equal(t, "identity", NamingIdentity.String())
	assert.Equal(t, "unset", NamingUnset.String())
	assert.Equal(t, "NamingPolicy(7)", NamingPolicy(7).String())
}

func TestMetadata_CommandText(t *testing.T) {
	assert.False(t, Metadata{DataSource: "x"}.CommandText())
	assert.True(t, Metadata{Function: "f"}.CommandText())
	assert.Equal(t, []string{"procedure", "query", "function"}, Metadata{Procedure: "p", Query: "q", Function: "f"}.commandSlots())
}
