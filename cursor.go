package zeroorm

import (
	"errors"
	"strings"
)

// Cursor is a forward-only result set. *sql.Rows satisfies it.
type Cursor interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Rows is the cursor returned by command execution. When the command opened
// its own connection, Rows owns it and releases it on Close or once the rows
// are exhausted.
type Rows struct {
	Cursor
	Mapper   *Mapper
	closers  []func() error
	current  bool
	closed   bool
	closeErr error
}

func newRows(c Cursor, m *Mapper, closers ...func() error) *Rows {
	return &Rows{Cursor: c, Mapper: orDefault(m), closers: closers}
}

func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	r.current = r.Cursor.Next()
	if !r.current {
		r.release()
	}
	return r.current
}

func (r *Rows) Scan(dest ...any) error {
	if r.closed {
		return ErrCursorClosed
	}
	if !r.current {
		return ErrNoCurrentRow
	}
	return r.Cursor.Scan(dest...)
}

func (r *Rows) Columns() ([]string, error) {
	if r.closed {
		return nil, ErrCursorClosed
	}
	return r.Cursor.Columns()
}

// IsClosed reports whether the rows were closed or exhausted.
func (r *Rows) IsClosed() bool {
	return r.closed
}

// Close closes the rows and everything they own. It is safe to call twice.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.current = false
	errs := []error{r.Cursor.Close()}
	for _, fn := range r.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

// release closes on exhaustion. Close errors are kept for Err.
func (r *Rows) release() {
	if err := r.Close(); err != nil && r.Cursor.Err() == nil {
		r.closeErr = err
	}
}

func (r *Rows) Err() error {
	if err := r.Cursor.Err(); err != nil {
		return err
	}
	return r.closeErr
}

// MapScan reads the current row into a map keyed by column name.
func (r *Rows) MapScan() (map[string]any, error) {
	columns, err := r.Cursor.Columns()
	if err != nil {
		return nil, err
	}
	row, err := readRow(r, columns)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(columns))
	for i, c := range columns {
		out[c] = row.values[i]
	}
	return out, nil
}

// Row is the current cursor row as read by the materializer. Post hooks use it
// to reach columns that have no matching member.
type Row struct {
	columns []string
	values  []any
}

func readRow(c Cursor, columns []string) (*Row, error) {
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := c.Scan(dest...); err != nil {
		return nil, err
	}
	return &Row{columns: columns, values: values}, nil
}

func (r *Row) Columns() []string {
	return r.columns
}

func (r *Row) Len() int {
	return len(r.values)
}

// Value returns the raw value of column i, or nil when it is NULL.
func (r *Row) Value(i int) any {
	return r.values[i]
}

func (r *Row) IsNull(i int) bool {
	return r.values[i] == nil
}

// Ordinal returns the index of column, compared case-insensitively, or -1.
func (r *Row) Ordinal(column string) int {
	for i, c := range r.columns {
		if c == column {
			return i
		}
	}
	for i, c := range r.columns {
		if strings.EqualFold(c, column) {
			return i
		}
	}
	return -1
}

// Get returns the raw value of column.
func (r *Row) Get(column string) (any, bool) {
	i := r.Ordinal(column)
	if i < 0 {
		return nil, false
	}
	return r.values[i], true
}

// Scan assigns the value of column to dst using member coercion rules.
func (r *Row) Scan(column string, dst any) error {
	v, ok := r.Get(column)
	if !ok {
		return ErrUnmappedColumn
	}
	return Assign(dst, v)
}
