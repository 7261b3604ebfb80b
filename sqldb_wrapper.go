package zeroorm

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"
)

type sqlDBWrapper struct {
	db *sql.DB
}

func WrapSQLDB(db *sql.DB) SQLDB {
	return &sqlDBWrapper{db: db}
}

func (s *sqlDBWrapper) Driver() driver.Driver {
	return s.db.Driver()
}

func (s *sqlDBWrapper) Stats() sql.DBStats {
	return s.db.Stats()
}

func (s *sqlDBWrapper) SetConnMaxLifetime(d time.Duration) {
	s.db.SetConnMaxLifetime(d)
}

func (s *sqlDBWrapper) SetConnMaxIdleTime(d time.Duration) {
	s.db.SetConnMaxIdleTime(d)
}

func (s *sqlDBWrapper) SetMaxIdleConns(n int) {
	s.db.SetMaxIdleConns(n)
}

func (s *sqlDBWrapper) SetMaxOpenConns(n int) {
	s.db.SetMaxOpenConns(n)
}

func (s *sqlDBWrapper) QueryContext(ctx context.Context, query string, args ...any) (Cursor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *sqlDBWrapper) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

func (s *sqlDBWrapper) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlDBWrapper) BeginTx(ctx context.Context, opts *sql.TxOptions) (SQLTx, error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &sqlTxWrapper{tx: tx}, nil
}

func (s *sqlDBWrapper) Close() error {
	return s.db.Close()
}

type sqlTxWrapper struct {
	tx *sql.Tx
}

// WrapSQLTx adapts a transaction begun outside this package.
func WrapSQLTx(tx *sql.Tx) SQLTx {
	if tx == nil {
		return nil
	}
	return &sqlTxWrapper{tx: tx}
}

func (s *sqlTxWrapper) Commit() error {
	return s.tx.Commit()
}

func (s *sqlTxWrapper) Rollback() error {
	return s.tx.Rollback()
}

func (s *sqlTxWrapper) QueryContext(ctx context.Context, query string, args ...any) (Cursor, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *sqlTxWrapper) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.tx.ExecContext(ctx, query, args...)
}
