package zeroorm

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"
)

// SQLDB is the subset of *sql.DB the executor needs. WrapSQLDB adapts a
// *sql.DB; tests and proxies may supply their own.
type SQLDB interface {
	session
	Driver() driver.Driver
	SetConnMaxLifetime(d time.Duration)
	SetConnMaxIdleTime(d time.Duration)
	SetMaxIdleConns(n int)
	SetMaxOpenConns(n int)
	Stats() sql.DBStats
	PingContext(ctx context.Context) error
	BeginTx(ctx context.Context, opts *sql.TxOptions) (SQLTx, error)
	Close() error
}

// SQLTx is an externally owned transaction handle.
type SQLTx interface {
	session
	Commit() error
	Rollback() error
}

// session runs compiled commands.
type session interface {
	QueryContext(ctx context.Context, query string, args ...any) (Cursor, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
