package zeroorm

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// DB is a wrapper around sql.DB which keeps track of the driverName upon Open,
// used to compile commands into the bind style the driver accepts.
type DB struct {
	SQLDB
	hooks
	ID         string
	Mapper     *Mapper
	driverName string
	bindType   Bindvar
}

// NewDb returns a new DB wrapper for a pre-existing *sql.DB. An empty id is
// replaced by a random one.
func NewDb(db *sql.DB, driverName, id string) *DB {
	return NewSQLDb(WrapSQLDB(db), driverName, id)
}

// NewSQLDb returns a new DB wrapper for a pre-existing SQLDB.
func NewSQLDb(db SQLDB, driverName, id string) *DB {
	if id == "" {
		id = uuid.NewString()
	}
	return &DB{
		SQLDB:      db,
		ID:         id,
		Mapper:     DefaultMapper(),
		driverName: driverName,
		bindType:   BindType(driverName),
	}
}

// Open is the same as sql.Open, but returns a *DB instead.
func Open(driverName, dataSourceName, id string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	return NewDb(db, driverName, id), nil
}

// MustOpen is the same as Open but panics on error.
func MustOpen(driverName, dataSourceName, id string) *DB {
	db, err := Open(driverName, dataSourceName, id)
	if err != nil {
		panic(err)
	}
	return db
}

// Connect opens a database and verifies it with a ping.
func Connect(driverName, dataSourceName, id string) (*DB, error) {
	return ConnectContext(context.Background(), driverName, dataSourceName, id)
}

func ConnectContext(ctx context.Context, driverName, dataSourceName, id string) (*DB, error) {
	db, err := Open(driverName, dataSourceName, id)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// MustConnect connects to a database and panics on error.
func MustConnect(driverName, dataSourceName, id string) *DB {
	db, err := Connect(driverName, dataSourceName, id)
	if err != nil {
		panic(err)
	}
	return db
}

// DriverName returns the driverName passed to the Open function for this DB.
func (db *DB) DriverName() string {
	return db.driverName
}

// BindType returns the bind style commands are compiled to.
func (db *DB) BindType() Bindvar {
	return db.bindType
}

// SetBindType overrides the bind style derived from the driver name.
func (db *DB) SetBindType(b Bindvar) {
	db.bindType = b
}

// Ping verifies the database is reachable.
func (db *DB) Ping() error {
	return db.PingContext(context.Background())
}

// Beginx begins a transaction whose commands run through this DB's mapper and
// hooks.
func (db *DB) Beginx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.SQLDB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{SQLTx: tx, db: db}, nil
}

// Tx is a transaction bound to the DB that started it.
type Tx struct {
	SQLTx
	db *DB
}

func (tx *Tx) DriverName() string {
	if tx == nil || tx.db == nil {
		return ""
	}
	return tx.db.driverName
}

// check reports a nil transaction before any method reaches its DB.
func (tx *Tx) check() error {
	if tx == nil || tx.SQLTx == nil {
		return ErrNilTransaction
	}
	if tx.db == nil {
		return ErrNilConnection
	}
	return nil
}

func (tx *Tx) Scalar(commandText string, value any, extra ...Param) (any, error) {
	return tx.ScalarContext(context.Background(), commandText, value, extra...)
}

func (tx *Tx) ScalarContext(ctx context.Context, commandText string, value any, extra ...Param) (any, error) {
	if err := tx.check(); err != nil {
		return nil, err
	}
	return tx.db.ScalarTxContext(ctx, tx.SQLTx, commandText, value, extra...)
}

func (tx *Tx) NonQuery(commandText string, value any, extra ...Param) (int64, error) {
	return tx.NonQueryContext(context.Background(), commandText, value, extra...)
}

func (tx *Tx) NonQueryContext(ctx context.Context, commandText string, value any, extra ...Param) (int64, error) {
	if err := tx.check(); err != nil {
		return 0, err
	}
	return tx.db.NonQueryTxContext(ctx, tx.SQLTx, commandText, value, extra...)
}

func (tx *Tx) Cursor(commandText string, value any, extra ...Param) (*Rows, error) {
	return tx.CursorContext(context.Background(), commandText, value, extra...)
}

func (tx *Tx) CursorContext(ctx context.Context, commandText string, value any, extra ...Param) (*Rows, error) {
	if err := tx.check(); err != nil {
		return nil, err
	}
	return tx.db.CursorTxContext(ctx, tx.SQLTx, commandText, value, extra...)
}
