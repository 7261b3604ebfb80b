package connection

import (
	"fmt"

	"github.com/oarkflow/zeroorm"
	"github.com/oarkflow/zeroorm/drivers/mssql"
	"github.com/oarkflow/zeroorm/drivers/mysql"
	"github.com/oarkflow/zeroorm/drivers/postgres"
	"github.com/oarkflow/zeroorm/drivers/sqlite"
)

// FromConfig opens the database described by cfg and applies its pool limits.
// It returns the registered driver name alongside the DB.
func FromConfig(cfg zeroorm.Config) (*zeroorm.DB, string, error) {
	dsn := cfg.ToString()
	var db *zeroorm.DB
	var err error
	switch cfg.DriverName() {
	case postgres.DriverName:
		db, err = postgres.Open(dsn, cfg.Key)
	case mysql.DriverName:
		db, err = mysql.Open(dsn, cfg.Key)
	case sqlite.DriverName:
		db, err = sqlite.Open(dsn, cfg.Key)
	case mssql.DriverName:
		db, err = mssql.Open(dsn, cfg.Key)
	}
	if err != nil {
		return nil, "", err
	}
	if db == nil {
		return nil, "", fmt.Errorf("driver not supported %s", cfg.Driver)
	}
	cfg.ApplyPool(db)
	return db, db.DriverName(), nil
}

// Executor returns an executor for the driver named in cfg together with the
// connection string it should be given.
func Executor(cfg zeroorm.Config, mapper *zeroorm.Mapper) (*zeroorm.Executor, string, error) {
	dsn := cfg.ToString()
	if dsn == "" {
		return nil, "", fmt.Errorf("driver not supported %s", cfg.Driver)
	}
	if cfg.DriverName() == mysql.DriverName {
		normalized, err := mysql.Normalize(dsn)
		if err != nil {
			return nil, "", err
		}
		dsn = normalized
	}
	return zeroorm.NewExecutor(cfg.DriverName(), mapper), dsn, nil
}
