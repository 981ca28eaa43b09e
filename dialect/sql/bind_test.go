package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcmd"
	"github.com/syssam/dbcmd/dialect"
)

type audit struct {
	By string
}

type lookupBag struct {
	dbcmd.Query[[]int]
	audit
	Team    string
	limit   int
	Ignored string `db:"-"`
	_       int
}

func TestBind(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		args, err := Bind(nil)
		require.NoError(t, err)
		assert.Nil(t, args)
	})
	t.Run("Args", func(t *testing.T) {
		in := dbcmd.Args{dbcmd.Named("a", 1)}
		args, err := Bind(in)
		require.NoError(t, err)
		assert.Equal(t, in, args)

		args, err = Bind([]dbcmd.Arg{dbcmd.Named("b", 2)})
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, args.Names())
	})
	t.Run("Struct", func(t *testing.T) {
		bag := lookupBag{Team: "core", limit: 10, Ignored: "x"}
		bag.By = "ops"
		args, err := Bind(bag)
		require.NoError(t, err)
		assert.Equal(t, dbcmd.Args{dbcmd.Named("Team", "core"), dbcmd.Named("limit", 10)}, args)

		args, err = Bind(&bag)
		require.NoError(t, err)
		assert.Equal(t, []string{"Team", "limit"}, args.Names())
	})
	t.Run("Invalid", func(t *testing.T) {
		_, err := Bind(42)
		require.Error(t, err)
		_, err = Bind((*lookupBag)(nil))
		require.Error(t, err)
	})
}

func TestRebind(t *testing.T) {
	args := dbcmd.Args{
		dbcmd.Named("team", "core"),
		dbcmd.Named("limit", 10),
	}
	tests := []struct {
		name    string
		dialect string
		query   string
		want    string
		argv    []any
	}{
		{
			name:    "postgres",
			dialect: dialect.Postgres,
			query:   "SELECT * FROM users WHERE team = @team LIMIT @limit",
			want:    "SELECT * FROM users WHERE team = $1 LIMIT $2",
			argv:    []any{"core", 10},
		},
		{
			name:    "postgres repeated",
			dialect: dialect.Postgres,
			query:   "SELECT @team, @limit, @team",
			want:    "SELECT $1, $2, $1",
			argv:    []any{"core", 10},
		},
		{
			name:    "mysql repeated",
			dialect: dialect.MySQL,
			query:   "SELECT @team, @limit, @team",
			want:    "SELECT ?, ?, ?",
			argv:    []any{"core", 10, "core"},
		},
		{
			name:    "quoted",
			dialect: dialect.SQLite,
			query:   `SELECT '@team', "@limit", 'it''s @team' FROM t WHERE a = @team`,
			want:    `SELECT '@team', "@limit", 'it''s @team' FROM t WHERE a = ?`,
			argv:    []any{"core"},
		},
		{
			name:    "comments",
			dialect: dialect.Postgres,
			query:   "SELECT 1 -- @team\n/* @limit */ WHERE x = @limit",
			want:    "SELECT 1 -- @team\n/* @limit */ WHERE x = $1",
			argv:    []any{10},
		},
		{
			name:    "session variables",
			dialect: dialect.MySQL,
			query:   "SELECT @@version, @team",
			want:    "SELECT @@version, ?",
			argv:    []any{"core"},
		},
		{
			name:    "no parameters",
			dialect: dialect.MySQL,
			query:   "SELECT 1",
			want:    "SELECT 1",
			argv:    []any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, argv, err := rebind(tt.dialect, tt.query, args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, tt.argv, argv)
		})
	}
}

func TestRebind_MissingParam(t *testing.T) {
	_, _, err := rebind(dialect.Postgres, "SELECT @nope", dbcmd.Args{})
	var mp *MissingParamError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, "nope", mp.Name)
	assert.EqualError(t, err, "dialect/sql: missing parameter @nope")
}
