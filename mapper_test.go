package zeroorm

import (
	"bytes"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBindScalar(t *testing.T) {
	t.Parallel()
	m := NewMapper()

	t.Run("binds the only placeholder", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT COUNT(*) FROM Products WHERE Quantity = @Quantity", 5.0)
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@Quantity", Value: 5.0}}, params)
	})

	t.Run("repeated placeholder counts once", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT * FROM t WHERE a = @v OR b = @v", "x")
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@v", Value: "x"}}, params)
	})

	t.Run("nil binds Null", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("UPDATE t SET d = @d", nil)
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@d", Value: Null}}, params)

		var s *string
		params, err = m.Bind("UPDATE t SET d = @d", s)
		require.NoError(t, err)
		require.Equal(t, Null, params[0].Value)
	})

	t.Run("pointer is dereferenced", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("UPDATE t SET d = @d", ptr(42))
		require.NoError(t, err)
		require.Equal(t, 42, params[0].Value)
	})

	t.Run("valuer stays a scalar", func(t *testing.T) {
		t.Parallel()
		price := decimal.RequireFromString("9.99")
		params, err := m.Bind("UPDATE t SET p = @p", price)
		require.NoError(t, err)
		require.Equal(t, price, params[0].Value)
	})

	t.Run("requires exactly one placeholder", func(t *testing.T) {
		t.Parallel()
		_, err := m.Bind("SELECT 1", 5)
		require.ErrorIs(t, err, ErrPlaceholderCount)
		_, err = m.Bind("SELECT @a, @b", 5)
		require.ErrorIs(t, err, ErrPlaceholderCount)
	})

	t.Run("blank text", func(t *testing.T) {
		t.Parallel()
		_, err := m.Bind("  \n\t", 5)
		require.ErrorIs(t, err, ErrEmptyCommand)
	})
}

func TestBindParam(t *testing.T) {
	t.Parallel()
	m := NewMapper()

	t.Run("matching name", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT * FROM t WHERE id = @id", Param{Name: "@id", Value: 7})
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@id", Value: 7}}, params)

		params, err = m.Bind("SELECT * FROM t WHERE id = @id", &Param{Name: "@id", Value: 8})
		require.NoError(t, err)
		require.Equal(t, 8, params[0].Value)
	})

	t.Run("named arg without sigil", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT * FROM t WHERE id = :id", sql.Named("id", 9))
		require.NoError(t, err)
		require.Equal(t, Params{{Name: ":id", Value: 9}}, params)
	})

	t.Run("names compare without sigil", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT * FROM t WHERE id = :id", Named("id", 1))
		require.NoError(t, err)
		require.Equal(t, Params{{Name: ":id", Value: 1}}, params)

		params, err = m.Bind("SELECT * FROM t WHERE id = @id", Param{Name: ":id", Value: 2})
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@id", Value: 2}}, params)
	})

	t.Run("name mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := m.Bind("SELECT * FROM t WHERE id = @id", Param{Name: "@other", Value: 7})
		require.ErrorIs(t, err, ErrParamNameMismatch)
	})

	t.Run("placeholder count", func(t *testing.T) {
		t.Parallel()
		_, err := m.Bind("SELECT * FROM t WHERE id = @id AND n = @n", Param{Name: "@id", Value: 7})
		require.ErrorIs(t, err, ErrPlaceholderCount)
	})
}

func TestBindCollection(t *testing.T) {
	t.Parallel()
	m := NewMapper()

	t.Run("returned as given without validation", func(t *testing.T) {
		t.Parallel()
		in := Params{{Name: "@a", Value: 1}, {Name: "@unused", Value: 2}}
		params, err := m.Bind("SELECT @a", in)
		require.NoError(t, err)
		require.Equal(t, in, params)
	})

	t.Run("duplicates collapse to the first", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT @a", []Param{{Name: "@a", Value: 1}, {Name: "@a", Value: 2}})
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@a", Value: 1}}, params)
	})

	t.Run("named args and pointers", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT @a, @b", []sql.NamedArg{sql.Named("a", nil), sql.Named("b", "x")})
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "a", Value: Null}, {Name: "b", Value: "x"}}, params)

		params, err = m.Bind("SELECT @a", []*Param{{Name: "@a", Value: 1}, nil})
		require.NoError(t, err)
		require.Len(t, params, 1)
	})

	t.Run("empty collection for commands without placeholders", func(t *testing.T) {
		t.Parallel()
		params, err := m.Bind("SELECT 1", Params(nil))
		require.NoError(t, err)
		require.Empty(t, params)
	})
}

func TestBindComposite(t *testing.T) {
	t.Parallel()

	const insert = "INSERT INTO Products (Name, Description, UnitPrice) VALUES (@Name, @Description, @UnitPrice)"
	product := Product{Name: "Widget", UnitPrice: decimal.RequireFromString("12.50")}

	t.Run("binds each placeholder from its member", func(t *testing.T) {
		t.Parallel()
		params, err := NewMapper().Bind(insert, product)
		require.NoError(t, err)
		require.Equal(t, []string{"@Name", "@Description", "@UnitPrice"}, params.Names())
		require.Equal(t, "Widget", params[0].Value)
		require.Equal(t, Null, params[1].Value)
		require.Equal(t, product.UnitPrice, params[2].Value)
	})

	t.Run("pointer to struct", func(t *testing.T) {
		t.Parallel()
		p := product
		p.Description = ptr("blue")
		params, err := NewMapper().Bind(insert, &p)
		require.NoError(t, err)
		require.Equal(t, "blue", params[1].Value)
	})

	t.Run("extra bindings take precedence", func(t *testing.T) {
		t.Parallel()
		params, err := NewMapper().Bind(insert, product, Named("Name", "Override"))
		require.NoError(t, err)
		require.Len(t, params, 3)
		p, ok := params.Get("@Name")
		require.True(t, ok)
		require.Equal(t, "Override", p.Value)
	})

	t.Run("missing members are skipped and logged", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		params, err := NewMapper(WithLogger(logger)).Bind("SELECT * FROM t WHERE Name = @Name AND x = @Nope", product)
		require.NoError(t, err)
		require.Equal(t, []string{"@Name"}, params.Names())
		require.Contains(t, buf.String(), "@Nope")
	})

	t.Run("strict mode rejects missing members", func(t *testing.T) {
		t.Parallel()
		_, err := NewMapper(WithStrict()).Bind("SELECT @Nope", product)
		require.ErrorIs(t, err, ErrUnmappedPlaceholder)
	})

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		var p *Product
		_, err := NewMapper().Bind(insert, p)
		require.ErrorIs(t, err, ErrNilValue)
	})

	t.Run("promoted member behind nil pointer binds Null", func(t *testing.T) {
		t.Parallel()
		params, err := NewMapper().Bind("SELECT @CreatedBy", product)
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@CreatedBy", Value: Null}}, params)
	})

	t.Run("string keyed map", func(t *testing.T) {
		t.Parallel()
		params, err := NewMapper().Bind("SELECT @name, @Qty, @missing", map[string]any{"name": "a", "qty": 3})
		require.NoError(t, err)
		require.Equal(t, Params{{Name: "@name", Value: "a"}, {Name: "@Qty", Value: 3}}, params)
	})

	t.Run("custom tag name", func(t *testing.T) {
		t.Parallel()
		type row struct {
			Title string `col:"headline"`
		}
		params, err := NewMapper(WithTagName("col")).Bind("SELECT @headline", row{Title: "t"})
		require.NoError(t, err)
		require.Equal(t, "t", params[0].Value)
	})
}

func TestParamHelpers(t *testing.T) {
	t.Parallel()
	m := NewMapper()
	product := &Product{Name: "Widget", Quantity: 3}

	t.Run("ParamOf", func(t *testing.T) {
		t.Parallel()
		p, ok := m.ParamOf(product, "Name")
		require.True(t, ok)
		require.Equal(t, Param{Name: "@Name", Value: "Widget"}, p)

		p, ok = m.ParamOf(product, "Quantity", "qty")
		require.True(t, ok)
		require.Equal(t, Param{Name: "@qty", Value: 3.0}, p)

		_, ok = m.ParamOf(product, "Nope")
		require.False(t, ok)
	})

	t.Run("LikeParamOf", func(t *testing.T) {
		t.Parallel()
		p, ok := m.LikeParamOf(product, "Name")
		require.True(t, ok)
		require.Equal(t, "%Widget%", p.Value)

		p, ok = m.LikeParamOf(product, "Description")
		require.True(t, ok)
		require.Equal(t, "%%", p.Value)
	})

	t.Run("SetValue", func(t *testing.T) {
		t.Parallel()
		var p Product
		require.NoError(t, m.SetValue(&p, "Name", "Gadget"))
		require.NoError(t, m.SetValue(&p, "Status", int64(2)))
		require.NoError(t, m.SetValue(&p, "Quantity", nil))
		require.NoError(t, m.SetValue(&p, "Nope", 1))
		require.Equal(t, "Gadget", p.Name)
		require.Equal(t, StatusPublished, *p.Status)
		require.Zero(t, p.Quantity)

		require.ErrorIs(t, m.SetValue(p, "Name", "x"), ErrInvalidTarget)
	})

	t.Run("Named", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, Param{Name: "@a", Value: 1}, Named("a", 1))
		require.Equal(t, Param{Name: ":a", Value: Null}, Named(":a", nil))
	})
}
