package sql

import "errors"

// scanColumn reads the first column of the current row into v. Any other
// column is discarded.
func scanColumn(rows ColumnScanner, v any) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return errors.New("dialect/sql: no column to scan")
	}
	dest := make([]any, len(columns))
	dest[0] = v
	for i := 1; i < len(dest); i++ {
		dest[i] = new(any)
	}
	return rows.Scan(dest...)
}
