// Package sql runs generated commands against database/sql connections.
//
// Generated invokers never build SQL themselves. They hand a Command, a
// parameter bag and the expected result shape to one of the call-shape
// helpers of this package:
//
//	Exec          no result
//	ExecCount     affected row count of a non-query command
//	Scalar        first column of the first row
//	QueryList     every row, scanned into a record or a single column
//	QuerySingle   at most one row; nil when there is none
//
// # Commands
//
// A Command is raw text, a stored procedure name or a function call
// expression:
//
//	sql.Text("SELECT id, name FROM users WHERE team = @team")
//	sql.Procedure("billing.close_period", "cashier_id", "until")
//	sql.Function("invoice_totals(@cashier_id, @from)")
//
// Parameters are written as @name and rebound to the positional style of the
// dialect ($1 for PostgreSQL, ? for MySQL and SQLite). Procedures receive the
// parameters they name, in that order.
//
// # Data sources
//
// Invokers resolve their connection through a Source. Registry is the
// stock implementation and can be loaded from YAML:
//
//	default: main
//	sources:
//	  main:
//	    dialect: postgres
//	    dsn: postgres://app@localhost/app?sslmode=disable
//	  reports:
//	    dialect: mysql
//	    dsn: app:secret@tcp(localhost:3306)/reports
//
//	cfg, err := sql.ReadSourcesConfig("sources.yaml")
//	reg, err := sql.Load(cfg)
//	defer reg.Close()
//
// Any *Driver, *Tx or *StatsDriver can also be registered by hand.
package sql
