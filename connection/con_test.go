package connection_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oarkflow/zeroorm"
	"github.com/oarkflow/zeroorm/connection"
)

func TestFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		cfg := zeroorm.Config{Key: "local", Driver: "sqlite3", Database: filepath.Join(t.TempDir(), "c.db"), MaxOpenCons: 2}
		db, driver, err := connection.FromConfig(cfg)
		require.NoError(t, err)
		defer db.Close()
		require.Equal(t, "sqlite", driver)
		require.Equal(t, "local", db.ID)
		require.Equal(t, 2, db.Stats().MaxOpenConnections)

		v, err := db.Scalar("SELECT @x * 2", 21)
		require.NoError(t, err)
		require.EqualValues(t, 42, v)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		t.Parallel()
		_, _, err := connection.FromConfig(zeroorm.Config{Driver: "oracle"})
		require.ErrorContains(t, err, "driver not supported")
	})
}

func TestExecutor(t *testing.T) {
	t.Parallel()

	ex, dsn, err := connection.Executor(zeroorm.Config{Driver: "mysql", Username: "u", Password: "p", Host: "h", Database: "d"}, nil)
	require.NoError(t, err)
	require.Equal(t, "mysql", ex.DriverName)
	require.Contains(t, dsn, "parseTime=true")

	ex, dsn, err = connection.Executor(zeroorm.Config{Driver: "sqlite", Database: filepath.Join(t.TempDir(), "e.db")}, nil)
	require.NoError(t, err)
	v, err := ex.Scalar(dsn, "SELECT @v", "ok")
	require.NoError(t, err)
	require.Equal(t, "ok", v)

	_, _, err = connection.Executor(zeroorm.Config{Driver: "oracle"}, nil)
	require.Error(t, err)
}
