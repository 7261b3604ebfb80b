package zeroorm

import (
	"context"
)

// Command is a command text with its bindings, ready to run on a session.
type Command struct {
	Text   string
	Params Params

	session session
	db      *DB
}

// NewCommand prepares a command for db, running inside tx when it is not nil.
func (db *DB) NewCommand(text string, tx SQLTx) *Command {
	c := &Command{Text: text, db: db, session: db.SQLDB}
	if tx != nil {
		c.session = tx
	}
	return c
}

// Bind derives bindings for value. Bindings already on the command take
// precedence.
func (c *Command) Bind(value any, extra ...Param) error {
	params, err := orDefault(c.db.Mapper).Bind(c.Text, value, merge(c.Params, extra)...)
	if err != nil {
		return err
	}
	c.Params = params
	return nil
}

// Compile returns the query and driver arguments in the DB's bind style.
func (c *Command) Compile() (string, []any, error) {
	return c.db.bindType.Compile(c.Text, c.Params)
}

func (c *Command) ExecuteScalar() (any, error) {
	return c.ExecuteScalarContext(context.Background())
}

// ExecuteScalarContext returns the first column of the first row, or nil when
// the command yields no rows.
func (c *Command) ExecuteScalarContext(ctx context.Context) (any, error) {
	query, args, err := c.Compile()
	if err != nil {
		return nil, err
	}
	return handleTwo(func(ctx context.Context) (any, error) {
		cur, err := c.session.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer cur.Close()
		if !cur.Next() {
			return nil, cur.Err()
		}
		columns, err := cur.Columns()
		if err != nil {
			return nil, err
		}
		row, err := readRow(cur, columns)
		if err != nil {
			return nil, err
		}
		if row.Len() == 0 {
			return nil, nil
		}
		return row.Value(0), cur.Close()
	}, &c.db.hooks, ctx, query, args...)
}

func (c *Command) ExecuteNonQuery() (int64, error) {
	return c.ExecuteNonQueryContext(context.Background())
}

// ExecuteNonQueryContext returns the number of rows affected.
func (c *Command) ExecuteNonQueryContext(ctx context.Context) (int64, error) {
	query, args, err := c.Compile()
	if err != nil {
		return 0, err
	}
	return handleTwo(func(ctx context.Context) (int64, error) {
		res, err := c.session.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}, &c.db.hooks, ctx, query, args...)
}

func (c *Command) ExecuteCursor() (*Rows, error) {
	return c.ExecuteCursorContext(context.Background())
}

// ExecuteCursorContext returns the rows of the command. The caller must close
// them.
func (c *Command) ExecuteCursorContext(ctx context.Context) (*Rows, error) {
	query, args, err := c.Compile()
	if err != nil {
		return nil, err
	}
	rows, err := handleTwo(func(ctx context.Context) (*Rows, error) {
		cur, err := c.session.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		return newRows(cur, c.db.Mapper), nil
	}, &c.db.hooks, ctx, query, args...)
	if err != nil {
		if rows != nil {
			rows.Close()
		}
		return nil, err
	}
	return rows, nil
}
