package zeroorm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const productQueries = `
-- sql-name: count-by-quantity
-- doc: products with the given quantity
SELECT COUNT(*) FROM Products WHERE Quantity = @Quantity
-- sql-end

-- sql-name: insert-product
-- connection: main
INSERT INTO Products (Name, Quantity) VALUES (@Name, @Quantity)
-- sql-end
`

func TestFileLoader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.sql"), []byte(productQueries), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("-- sql-name: ignored\nSELECT 1\n-- sql-end"), 0o600))

	loader, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.Len(t, loader.Queries(), 2)

	q := loader.GetQuery("count-by-quantity")
	require.NotNil(t, q)
	require.Equal(t, "products with the given quantity", q.Doc)
	require.Equal(t, "SELECT COUNT(*) FROM Products WHERE Quantity = @Quantity", q.Query)
	require.Equal(t, "main", loader.GetQuery("insert-product").Connection)
	require.Equal(t, "SELECT 2", loader.Text("SELECT 2"))

	db := newTestDB(t)
	n, err := loader.NonQueryContext(ctx, db, "insert-product", Product{Name: "w", Quantity: 5})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	count, err := loader.ScalarContext(ctx, db, "count-by-quantity", 5.0)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	rows, err := loader.CursorContext(ctx, db, "SELECT Name FROM Products", Params(nil))
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	single, err := LoadFromFile(filepath.Join(dir, "products.sql"))
	require.NoError(t, err)
	require.Len(t, single.Queries(), 2)

	_, err = LoadFromFile(filepath.Join(dir, "missing.sql"))
	require.Error(t, err)
}
