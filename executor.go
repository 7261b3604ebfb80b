package zeroorm

import (
	"context"
	"strings"
)

// prepare validates the call and binds value before any I/O.
func (db *DB) prepare(ctx context.Context, tx SQLTx, needTx bool, commandText string, value any, extra []Param) (*Command, error) {
	if db == nil || db.SQLDB == nil {
		return nil, ErrNilConnection
	}
	if needTx && tx == nil {
		return nil, ErrNilTransaction
	}
	if strings.TrimSpace(commandText) == "" {
		return nil, ErrEmptyCommand
	}
	cmd := db.NewCommand(commandText, tx)
	if err := cmd.Bind(value, extra...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Scalar runs commandText and returns the first column of the first row, or
// nil when there are no rows.
func (db *DB) Scalar(commandText string, value any, extra ...Param) (any, error) {
	return db.ScalarContext(context.Background(), commandText, value, extra...)
}

func (db *DB) ScalarContext(ctx context.Context, commandText string, value any, extra ...Param) (any, error) {
	cmd, err := db.prepare(ctx, nil, false, commandText, value, extra)
	if err != nil {
		return nil, err
	}
	return cmd.ExecuteScalarContext(ctx)
}

func (db *DB) ScalarTx(tx SQLTx, commandText string, value any, extra ...Param) (any, error) {
	return db.ScalarTxContext(context.Background(), tx, commandText, value, extra...)
}

func (db *DB) ScalarTxContext(ctx context.Context, tx SQLTx, commandText string, value any, extra ...Param) (any, error) {
	cmd, err := db.prepare(ctx, tx, true, commandText, value, extra)
	if err != nil {
		return nil, err
	}
	return cmd.ExecuteScalarContext(ctx)
}

// NonQuery runs commandText and returns the number of rows affected.
func (db *DB) NonQuery(commandText string, value any, extra ...Param) (int64, error) {
	return db.NonQueryContext(context.Background(), commandText, value, extra...)
}

func (db *DB) NonQueryContext(ctx context.Context, commandText string, value any, extra ...Param) (int64, error) {
	cmd, err := db.prepare(ctx, nil, false, commandText, value, extra)
	if err != nil {
		return 0, err
	}
	return cmd.ExecuteNonQueryContext(ctx)
}

func (db *DB) NonQueryTx(tx SQLTx, commandText string, value any, extra ...Param) (int64, error) {
	return db.NonQueryTxContext(context.Background(), tx, commandText, value, extra...)
}

func (db *DB) NonQueryTxContext(ctx context.Context, tx SQLTx, commandText string, value any, extra ...Param) (int64, error) {
	cmd, err := db.prepare(ctx, tx, true, commandText, value, extra)
	if err != nil {
		return 0, err
	}
	return cmd.ExecuteNonQueryContext(ctx)
}

// Cursor runs commandText and returns its rows. The caller must close them.
func (db *DB) Cursor(commandText string, value any, extra ...Param) (*Rows, error) {
	return db.CursorContext(context.Background(), commandText, value, extra...)
}

func (db *DB) CursorContext(ctx context.Context, commandText string, value any, extra ...Param) (*Rows, error) {
	cmd, err := db.prepare(ctx, nil, false, commandText, value, extra)
	if err != nil {
		return nil, err
	}
	return cmd.ExecuteCursorContext(ctx)
}

func (db *DB) CursorTx(tx SQLTx, commandText string, value any, extra ...Param) (*Rows, error) {
	return db.CursorTxContext(context.Background(), tx, commandText, value, extra...)
}

func (db *DB) CursorTxContext(ctx context.Context, tx SQLTx, commandText string, value any, extra ...Param) (*Rows, error) {
	cmd, err := db.prepare(ctx, tx, true, commandText, value, extra)
	if err != nil {
		return nil, err
	}
	return cmd.ExecuteCursorContext(ctx)
}

// Executor runs each command on a connection of its own, opened from a
// connection string and released when the command completes. Cursor results
// keep their connection until the rows are closed.
type Executor struct {
	hooks
	DriverName string
	Mapper     *Mapper
}

func NewExecutor(driverName string, mapper *Mapper) *Executor {
	return &Executor{DriverName: driverName, Mapper: orDefault(mapper)}
}

// open validates the call, binds value and then opens a single-connection
// DB for dsn.
func (e *Executor) open(ctx context.Context, dsn, commandText string, value any, extra []Param) (*Command, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyConnectionString
	}
	if strings.TrimSpace(commandText) == "" {
		return nil, ErrEmptyCommand
	}
	mapper := orDefault(e.Mapper)
	params, err := mapper.Bind(commandText, value, extra...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := Open(e.DriverName, dsn, "")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.Mapper = mapper
	db.hooks = e.hooks
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	cmd := db.NewCommand(commandText, nil)
	cmd.Params = params
	return cmd, nil
}

func (e *Executor) Scalar(dsn, commandText string, value any, extra ...Param) (any, error) {
	return e.ScalarContext(context.Background(), dsn, commandText, value, extra...)
}

func (e *Executor) ScalarContext(ctx context.Context, dsn, commandText string, value any, extra ...Param) (any, error) {
	cmd, err := e.open(ctx, dsn, commandText, value, extra)
	if err != nil {
		return nil, err
	}
	defer cmd.db.Close()
	return cmd.ExecuteScalarContext(ctx)
}

func (e *Executor) NonQuery(dsn, commandText string, value any, extra ...Param) (int64, error) {
	return e.NonQueryContext(context.Background(), dsn, commandText, value, extra...)
}

func (e *Executor) NonQueryContext(ctx context.Context, dsn, commandText string, value any, extra ...Param) (int64, error) {
	cmd, err := e.open(ctx, dsn, commandText, value, extra)
	if err != nil {
		return 0, err
	}
	defer cmd.db.Close()
	return cmd.ExecuteNonQueryContext(ctx)
}

func (e *Executor) Cursor(dsn, commandText string, value any, extra ...Param) (*Rows, error) {
	return e.CursorContext(context.Background(), dsn, commandText, value, extra...)
}

// CursorContext returns rows that own their connection. Closing or
// exhausting the rows releases it.
func (e *Executor) CursorContext(ctx context.Context, dsn, commandText string, value any, extra ...Param) (*Rows, error) {
	cmd, err := e.open(ctx, dsn, commandText, value, extra)
	if err != nil {
		return nil, err
	}
	rows, err := cmd.ExecuteCursorContext(ctx)
	if err != nil {
		cmd.db.Close()
		return nil, err
	}
	rows.closers = append(rows.closers, cmd.db.Close)
	return rows, nil
}
