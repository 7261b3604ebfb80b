package zeroorm

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Status int

const (
	StatusDraft Status = iota + 1
	StatusPublished
	StatusArchived
)

type Audit struct {
	CreatedBy string
	UpdatedBy string `db:"updated_by"`
}

type Product struct {
	ProductID   int64 `db:"ProductId"`
	Name        string
	Description *string
	UnitPrice   decimal.Decimal
	Quantity    float64
	StockPrice  *float64
	IsActive    bool
	Status      *Status
	Internal    string `db:"-"`
	secret      string
	*Audit
}

type fakeCursor struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
	err     error
}

func newFakeCursor(columns []string, rows ...[]any) *fakeCursor {
	return &fakeCursor{columns: columns, rows: rows, pos: -1}
}

func (c *fakeCursor) Columns() ([]string, error) {
	if c.closed {
		return nil, errors.New("fake: closed")
	}
	return c.columns, nil
}

func (c *fakeCursor) Next() bool {
	if c.closed || c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return c.pos < len(c.rows)
}

func (c *fakeCursor) Scan(dest ...any) error {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return errors.New("fake: no current row")
	}
	for i, d := range dest {
		*(d.(*any)) = c.rows[c.pos][i]
	}
	return nil
}

func (c *fakeCursor) Err() error {
	return c.err
}

func (c *fakeCursor) Close() error {
	c.closed = true
	return nil
}

func (c *fakeCursor) IsClosed() bool {
	return c.closed
}

func ptr[T any](v T) *T {
	return &v
}
