package sql

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"time"

	"github.com/viant/sqlx/io/read"
	"github.com/viant/sqlx/option"
)

// RecordReader is implemented by executors that read rows of a record type.
// newRow allocates the destination of one row and visit receives it once
// its columns are mapped. Columns are matched to fields by name, or by a
// `sqlx:"name=column"` tag.
type RecordReader interface {
	ReadRecords(ctx context.Context, query string, args []any, newRow func() any, visit func(row any) error) error
}

var (
	_ RecordReader = (*Driver)(nil)
	_ RecordReader = (*Tx)(nil)
	_ RecordReader = (*StatsDriver)(nil)
)

// ReadRecords implements RecordReader over the driver pool.
func (d *Driver) ReadRecords(ctx context.Context, query string, args []any, newRow func() any, visit func(row any) error) error {
	db, ok := d.ExecQuerier.(*sql.DB)
	if !ok {
		return fmt.Errorf("%w: record rows over %T", ErrUnsupported, d.ExecQuerier)
	}
	return readRecords(ctx, db, query, args, newRow, visit)
}

// ReadRecords implements RecordReader inside the transaction.
func (t *Tx) ReadRecords(ctx context.Context, query string, args []any, newRow func() any, visit func(row any) error) error {
	if t.db == nil || t.tx == nil {
		return fmt.Errorf("%w: record rows outside of BeginTx", ErrUnsupported)
	}
	return readRecords(ctx, t.db, query, args, newRow, visit, t.tx)
}

// ReadRecords reads through the wrapped driver and records statistics.
func (d *StatsDriver) ReadRecords(ctx context.Context, query string, args []any, newRow func() any, visit func(row any) error) error {
	start := time.Now()
	err := d.Driver.ReadRecords(ctx, query, args, newRow, visit)
	d.record(ctx, query, args, start, err, true)
	return err
}

func readRecords(ctx context.Context, db *sql.DB, query string, args []any, newRow func() any, visit func(row any) error, opts ...option.Option) error {
	reader, err := read.New(ctx, db, query, newRow, read.WithOptions(opts...))
	if err != nil {
		return fmt.Errorf("dialect/sql: query: %w", err)
	}
	defer func() {
		if stmt := reader.Stmt(); stmt != nil {
			_ = stmt.Close()
		}
	}()
	return reader.QueryAll(ctx, visit, args...)
}

var (
	scannerType = reflect.TypeFor[sql.Scanner]()
	timeType    = reflect.TypeFor[time.Time]()
)

// recordRow reports whether rows of T are records, read field by field, and
// returns how to allocate one and convert it back to a T. T is a record when
// it is a struct, or points to one, that database/sql cannot scan itself.
func recordRow[T any]() (newRow func() any, value func(row any) T, ok bool) {
	t := reflect.TypeFor[T]()
	switch {
	case isRecord(t):
		return func() any { return new(T) }, func(row any) T { return *row.(*T) }, true
	case t.Kind() == reflect.Pointer && isRecord(t.Elem()):
		elem := t.Elem()
		return func() any { return reflect.New(elem).Interface() }, func(row any) T { return row.(T) }, true
	}
	return nil, nil, false
}

func isRecord(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t != timeType && !reflect.PointerTo(t).Implements(scannerType)
}
