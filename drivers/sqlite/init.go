package sqlite

import (
	"strings"

	_ "modernc.org/sqlite"

	"github.com/oarkflow/zeroorm"
)

const DriverName = "sqlite"

// Open - sqlite.db
//
// In-memory databases are limited to one connection, since every new
// connection would see an empty database.
func Open(dsn string, id string) (*zeroorm.DB, error) {
	db, err := zeroorm.Connect(DriverName, dsn, id)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func MustOpen(dsn string, id string) *zeroorm.DB {
	db, err := Open(dsn, id)
	if err != nil {
		panic(err)
	}
	return db
}

// NewExecutor returns an executor opening a connection per command.
func NewExecutor(mapper *zeroorm.Mapper) *zeroorm.Executor {
	return zeroorm.NewExecutor(DriverName, mapper)
}
