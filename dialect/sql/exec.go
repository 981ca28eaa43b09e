package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/syssam/dbcmd"
	"github.com/syssam/dbcmd/dialect"
)

// Executor is the connection a generated invoker runs against. *Driver,
// *Tx and *StatsDriver implement it.
type Executor interface {
	dialect.ExecQuerier
	Dialect() string
}

// Integer is the set of result types counted or scanned as an integral
// scalar.
type Integer interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint | ~uint16 | ~uint32 | ~uint64
}

// statement renders cmd for the executor dialect and binds bag to it.
func statement(ex Executor, cmd Command, rows rowSet, bag any) (string, []any, error) {
	args, err := Bind(bag)
	if err != nil {
		return "", nil, err
	}
	query, err := cmd.render(ex.Dialect(), rows)
	if err != nil {
		return "", nil, err
	}
	return rebind(ex.Dialect(), query, args)
}

// Exec runs cmd without reading a result.
func Exec(ctx context.Context, ex Executor, cmd Command, bag any) error {
	query, args, err := statement(ex, cmd, false, bag)
	if err != nil {
		return dbcmd.NewCommandError(cmd.String(), "exec", err)
	}
	if err := ex.Exec(ctx, query, args, nil); err != nil {
		return dbcmd.NewCommandError(cmd.String(), "exec", err)
	}
	return nil
}

// ExecCount runs cmd and returns the number of affected rows.
func ExecCount[T Integer](ctx context.Context, ex Executor, cmd Command, bag any) (T, error) {
	query, args, err := statement(ex, cmd, false, bag)
	if err != nil {
		return 0, dbcmd.NewCommandError(cmd.String(), "exec", err)
	}
	var res sql.Result
	if err := ex.Exec(ctx, query, args, &res); err != nil {
		return 0, dbcmd.NewCommandError(cmd.String(), "exec", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbcmd.NewCommandError(cmd.String(), "exec", err)
	}
	return T(n), nil
}

// Scalar runs cmd and returns the first column of the first row. The zero
// value is returned when no row comes back.
func Scalar[T any](ctx context.Context, ex Executor, cmd Command, bag any) (T, error) {
	var v T
	err := query(ctx, ex, cmd, false, bag, "scalar", func(rows *Rows) error {
		if !rows.Next() {
			return rows.Err()
		}
		return scanColumn(rows, &v)
	})
	return v, err
}

// QueryList runs cmd and returns every row. Record types are read through
// the RecordReader of the executor; other types receive the first column.
func QueryList[T any](ctx context.Context, ex Executor, cmd Command, bag any) ([]T, error) {
	list := []T{}
	if newRow, value, ok := recordRow[T](); ok {
		err := records(ctx, ex, cmd, bag, "list", newRow, func(row any) error {
			list = append(list, value(row))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return list, nil
	}
	err := query(ctx, ex, cmd, true, bag, "list", func(rows *Rows) error {
		for rows.Next() {
			var v T
			if err := scanColumn(rows, &v); err != nil {
				return err
			}
			list = append(list, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// QuerySingle runs cmd and returns its only row, or nil when there is none.
// More than one row is a *dbcmd.NotSingularError.
func QuerySingle[T any](ctx context.Context, ex Executor, cmd Command, bag any) (*T, error) {
	var (
		v *T
		n int
	)
	if newRow, value, ok := recordRow[T](); ok {
		err := records(ctx, ex, cmd, bag, "single", newRow, func(row any) error {
			if n++; n == 1 {
				first := value(row)
				v = &first
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		err := query(ctx, ex, cmd, true, bag, "single", func(rows *Rows) error {
			for rows.Next() {
				if n++; n == 1 {
					v = new(T)
					if err := scanColumn(rows, v); err != nil {
						return err
					}
				}
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
	}
	if n > 1 {
		return nil, dbcmd.NewNotSingularErrorWithCount(cmd.String(), n)
	}
	return v, nil
}

func query(ctx context.Context, ex Executor, cmd Command, set rowSet, bag any, op string, read func(*Rows) error) error {
	q, args, err := statement(ex, cmd, set, bag)
	if err != nil {
		return dbcmd.NewCommandError(cmd.String(), op, err)
	}
	rows := &Rows{}
	if err := ex.Query(ctx, q, args, rows); err != nil {
		return dbcmd.NewCommandError(cmd.String(), op, err)
	}
	defer rows.Close()
	if err := read(rows); err != nil {
		return dbcmd.NewCommandError(cmd.String(), op, err)
	}
	return nil
}

// records runs cmd through the RecordReader of ex.
func records(ctx context.Context, ex Executor, cmd Command, bag any, op string, newRow func() any, visit func(row any) error) error {
	rr, ok := ex.(RecordReader)
	if !ok {
		return dbcmd.NewCommandError(cmd.String(), op, fmt.Errorf("%w: %T reads no record rows", ErrUnsupported, ex))
	}
	q, args, err := statement(ex, cmd, true, bag)
	if err != nil {
		return dbcmd.NewCommandError(cmd.String(), op, err)
	}
	if err := rr.ReadRecords(ctx, q, args, newRow, visit); err != nil {
		return dbcmd.NewCommandError(cmd.String(), op, err)
	}
	return nil
}
