package postgres

import (
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oarkflow/zeroorm"
)

const DriverName = "pgx"

// Open - "host=localhost user=postgres password=postgres dbname=sujit sslmode=disable"
//
// Commands are rewritten to $n placeholders.
func Open(dsn string, id string) (*zeroorm.DB, error) {
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return nil, err
	}
	return zeroorm.Connect(DriverName, dsn, id)
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
