// Package dialect provides the database dialect abstraction targeted by
// generated invokers.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The dialect decides how a procedure call is spelled and which placeholder
// style "@name" parameters are rewritten to ($1 for Postgres, ? otherwise).
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Sub-packages
//
//   - dialect/sql: database/sql based driver, data-source registry and the
//     call shapes (Exec, ExecCount, Scalar, QueryList, QuerySingle).
package dialect
