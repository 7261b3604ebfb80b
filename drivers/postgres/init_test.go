package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oarkflow/zeroorm"
	"github.com/oarkflow/zeroorm/drivers/postgres"
)

func TestOpenRejectsMalformedDSN(t *testing.T) {
	t.Parallel()

	_, err := postgres.Open("postgres://user@%zz/db", "")
	require.Error(t, err)
}

func TestBindStyle(t *testing.T) {
	t.Parallel()
	require.Equal(t, zeroorm.DOLLAR, zeroorm.BindType(postgres.DriverName))
	require.Equal(t, postgres.DriverName, postgres.NewExecutor(nil).DriverName)
}
