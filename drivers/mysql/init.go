package mysql

import (
	"github.com/go-sql-driver/mysql"

	"github.com/oarkflow/zeroorm"
)

const DriverName = "mysql"

// Normalize parses dsn and enables parseTime so DATE and DATETIME columns
// arrive as time.Time.
func Normalize(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Open - "user:password@tcp(localhost:3306)/dbname"
//
// Commands are rewritten to ? placeholders.
func Open(dsn string, id string) (*zeroorm.DB, error) {
	dsn, err := Normalize(dsn)
	if err != nil {
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
