package zeroorm

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemberIndexResolve(t *testing.T) {
	t.Parallel()

	productType := reflect.TypeFor[Product]()

	t.Run("matches field names, tags and case-insensitive names", func(t *testing.T) {
		t.Parallel()
		mi := NewMemberIndex("db")

		for _, name := range []string{"Name", "name", "NAME", "ProductId", "productid", "ProductID", "unit_price", "UnitPrice"} {
			m, ok := mi.Resolve(productType, name)
			require.True(t, ok, name)
			require.NotNil(t, m, name)
		}

		m, ok := mi.Resolve(productType, "ProductId")
		require.True(t, ok)
		require.Equal(t, "ProductID", m.Name)
	})

	t.Run("dereferences pointer types", func(t *testing.T) {
		t.Parallel()
		mi := NewMemberIndex("db")

		a, ok := mi.Resolve(reflect.TypeFor[*Product](), "Quantity")
		require.True(t, ok)
		b, ok := mi.Resolve(productType, "Quantity")
		require.True(t, ok)
		require.Same(t, a, b)
	})

	t.Run("skips unexported and ignored fields", func(t *testing.T) {
		t.Parallel()
		mi := NewMemberIndex("db")

		_, ok := mi.Resolve(productType, "secret")
		require.False(t, ok)
		_, ok = mi.Resolve(productType, "Internal")
		require.False(t, ok)
		_, ok = mi.Resolve(productType, "Audit")
		require.False(t, ok)
	})

	t.Run("caches misses", func(t *testing.T) {
		t.Parallel()
		mi := NewMemberIndex("db")

		m, ok := mi.Resolve(productType, "Missing")
		require.False(t, ok)
		require.Nil(t, m)
		m, ok = mi.Resolve(productType, "Missing")
		require.False(t, ok)
		require.Nil(t, m)
		require.EqualValues(t, 1, mi.Lookups())
	})

	t.Run("repeated lookups hit the cache", func(t *testing.T) {
		t.Parallel()
		mi := NewMemberIndex("db")

		first, ok := mi.Resolve(productType, "Name")
		require.True(t, ok)
		for range 10 {
			again, ok := mi.Resolve(productType, "Name")
			require.True(t, ok)
			require.Same(t, first, again)
		}
		require.EqualValues(t, 1, mi.Lookups())
	})

	t.Run("non-struct types have no members", func(t *testing.T) {
		t.Parallel()
		mi := NewMemberIndex("db")

		_, ok := mi.Resolve(reflect.TypeFor[int](), "Name")
		require.False(t, ok)
		_, ok = mi.Resolve(nil, "Name")
		require.False(t, ok)
	})

	t.Run("concurrent first lookups agree", func(t *testing.T) {
		t.Parallel()
		mi := NewMemberIndex("db")

		const n = 32
		results := make([]*Member, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], _ = mi.Resolve(productType, "Description")
			}()
		}
		wg.Wait()
		for _, m := range results {
			require.NotNil(t, m)
			require.Same(t, results[0], m)
		}
	})
}

func TestMemberEmbeddedPointer(t *testing.T) {
	t.Parallel()

	mi := NewMemberIndex("db")
	m, ok := mi.Resolve(reflect.TypeFor[Product](), "updated_by")
	require.True(t, ok)
	require.Equal(t, "UpdatedBy", m.Name)

	var p Product
	_, ok = m.Get(reflect.ValueOf(p))
	require.False(t, ok, "nil embedded pointer has no value")

	m.field(reflect.ValueOf(&p).Elem()).SetString("alice")
	require.NotNil(t, p.Audit)
	require.Equal(t, "alice", p.UpdatedBy)

	v, ok := m.Get(reflect.ValueOf(&p))
	require.True(t, ok)
	require.Equal(t, "alice", v.String())
}
