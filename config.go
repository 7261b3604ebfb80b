package zeroorm

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/oarkflow/json"
)

type Config struct {
	Name        string         `json:"name"`
	Key         string         `json:"key"`
	Host        string         `json:"host"`
	Port        int            `json:"port"`
	Driver      string         `json:"driver"`
	Username    string         `json:"username"`
	Password    string         `json:"password"`
	Database    string         `json:"database"`
	Params      map[string]any `json:"params"`
	MaxLifetime int64          `json:"max_lifetime"`
	MaxIdleTime int64          `json:"max_idle_time"`
	MaxOpenCons int            `json:"max_open_cons"`
	MaxIdleCons int            `json:"max_idle_cons"`
}

var keysToRemove = []string{"name", "key", "host", "port", "driver", "username", "password", "database", "params", "max_lifetime", "max_idle_time", "max_open_cons", "max_idle_cons"}

// DecodeConfig decodes a JSON config. Unknown top-level keys become driver
// params, next to those given under "params".
func DecodeConfig(data []byte) (cfg Config, err error) {
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return
	}
	var mapData map[string]any
	err = json.Unmarshal(data, &mapData)
	if err != nil {
		return
	}
	if cfg.Params == nil {
		cfg.Params = make(map[string]any)
	}
	for key, val := range mapData {
		if !slices.Contains(keysToRemove, key) {
			cfg.Params[key] = val
		}
	}
	return
}

// DriverName maps the configured driver alias to the registered driver.
func (config Config) DriverName() string {
	switch config.Driver {
	case "mysql", "mariadb":
		return "mysql"
	case "postgres", "psql", "postgresql", "pgx":
		return "pgx"
	case "sql-server", "sqlserver", "mssql", "ms-sql":
		return "sqlserver"
	case "sqlite", "sqlite3":
		return "sqlite"
	}
	return config.Driver
}

// params renders the driver params in key order so DSNs are stable.
func (config Config) params(sep string) string {
	if len(config.Params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(config.Params))
	for k := range config.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	opts := make([]string, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, k+"="+fmt.Sprint(config.Params[k]))
	}
	return strings.Join(opts, sep)
}

func (config Config) ToString() string {
	switch config.DriverName() {
	case "mysql":
		if config.Host == "" {
			config.Host = "0.0.0.0"
		}
		if config.Port == 0 {
			config.Port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", config.Username, config.Password, config.Host, config.Port, config.Database)
		if opts := config.params("&"); opts != "" {
			dsn = dsn + "?" + opts
		}
		return dsn
	case "pgx":
		if config.Host == "" {
			config.Host = "0.0.0.0"
		}
		if config.Port == 0 {
			config.Port = 5432
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d", config.Host, config.Username, config.Password, config.Database, config.Port)
		if opts := config.params(" "); opts != "" {
			dsn = dsn + " " + opts
		}
		return dsn
	case "sqlserver":
		if config.Host == "" {
			config.Host = "0.0.0.0"
		}
		if config.Port == 0 {
			config.Port = 1433
		}
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s", config.Username, config.Password, config.Host, config.Port, config.Database)
		if opts := config.params("&"); opts != "" {
			dsn = dsn + "&" + opts
		}
		return dsn
	case "sqlite":
		dsn := config.Database
		if opts := config.params("&"); opts != "" {
			dsn = dsn + "?" + opts
		}
		return dsn
	}
	return ""
}

// ApplyPool sets the configured pool limits on db. Zero values keep the
// database/sql defaults.
func (config Config) ApplyPool(db *DB) {
	if config.MaxOpenCons > 0 {
		db.SetMaxOpenConns(config.MaxOpenCons)
	}
	if config.MaxIdleCons > 0 {
		db.SetMaxIdleConns(config.MaxIdleCons)
	}
	if config.MaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(config.MaxLifetime) * time.Second)
	}
	if config.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.MaxIdleTime) * time.Second)
	}
}
