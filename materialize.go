package zeroorm

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"sync/atomic"
)

// PostSet runs after an entity has been filled from the current row.
type PostSet[T any] func(entity *T, row *Row) error

type closedChecker interface {
	IsClosed() bool
}

func checkCursor(c Cursor) ([]string, error) {
	if c == nil {
		return nil, ErrNilCursor
	}
	if cc, ok := c.(closedChecker); ok && cc.IsClosed() {
		return nil, ErrCursorClosed
	}
	return c.Columns()
}

func structType[T any]() (reflect.Type, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTarget, t)
	}
	return t, nil
}

// fill assigns each column of row to the member of the same name on target.
func (m *Mapper) fill(target reflect.Value, row *Row) error {
	t := target.Type()
	for i, column := range row.columns {
		member, ok := m.index.Resolve(t, column)
		if !ok {
			if m.strict {
				return fmt.Errorf("%w: %s on %s", ErrUnmappedColumn, column, t)
			}
			m.logger.Debug("column has no matching member", "column", column, "type", t.String())
			continue
		}
		if err := assign(member.field(target), row.values[i]); err != nil {
			return fmt.Errorf("column %s: %w", column, err)
		}
	}
	return nil
}

func materialize[T any](m *Mapper, c Cursor, columns []string, post PostSet[T]) (*T, error) {
	row, err := readRow(c, columns)
	if err != nil {
		return nil, err
	}
	entity := new(T)
	if err := m.fill(reflect.ValueOf(entity).Elem(), row); err != nil {
		return nil, err
	}
	if post != nil {
		if err := post(entity, row); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

// Fill assigns the current row of c to entity, a non-nil struct pointer, and
// then calls post when it is not nil.
func (m *Mapper) Fill(c Cursor, entity any, post func(entity any, row *Row) error) error {
	rv := reflect.ValueOf(entity)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrInvalidTarget, entity)
	}
	columns, err := checkCursor(c)
	if err != nil {
		return err
	}
	row, err := readRow(c, columns)
	if err != nil {
		return err
	}
	if err := m.fill(rv.Elem(), row); err != nil {
		return err
	}
	if post != nil {
		return post(entity, row)
	}
	return nil
}

// One advances c once and materializes that row. It returns nil, nil when the
// cursor has no rows.
func One[T any](ctx context.Context, m *Mapper, c Cursor, post PostSet[T]) (*T, error) {
	m = orDefault(m)
	if _, err := structType[T](); err != nil {
		return nil, err
	}
	columns, err := checkCursor(c)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.Next() {
		return nil, c.Err()
	}
	return materialize(m, c, columns, post)
}

// All returns a lazy sequence with one entity per remaining row of c. The
// sequence reads the cursor as it is ranged over and can be ranged over only
// once. Iteration stops at the first error, which is yielded with a nil entity.
func All[T any](ctx context.Context, m *Mapper, c Cursor, post PostSet[T]) (iter.Seq2[*T, error], error) {
	m = orDefault(m)
	if _, err := structType[T](); err != nil {
		return nil, err
	}
	columns, err := checkCursor(c)
	if err != nil {
		return nil, err
	}
	var used atomic.Bool
	return func(yield func(*T, error) bool) {
		if !used.CompareAndSwap(false, true) {
			yield(nil, ErrSequenceConsumed)
			return
		}
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !c.Next() {
				break
			}
			entity, err := materialize(m, c, columns, post)
			if !yield(entity, err) || err != nil {
				return
			}
		}
		if err := c.Err(); err != nil {
			yield(nil, err)
		}
	}, nil
}

// List materializes every remaining row of c.
func List[T any](ctx context.Context, m *Mapper, c Cursor, post PostSet[T]) ([]*T, error) {
	var out []*T
	if err := AppendAll(ctx, m, c, &out, post); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendAll materializes every remaining row of c onto dst.
func AppendAll[T any](ctx context.Context, m *Mapper, c Cursor, dst *[]*T, post PostSet[T]) error {
	return Each(ctx, m, c, func(entity *T) error {
		*dst = append(*dst, entity)
		return nil
	}, post)
}

// Each calls fn with one entity per remaining row of c, stopping at the first
// error.
func Each[T any](ctx context.Context, m *Mapper, c Cursor, fn func(*T) error, post PostSet[T]) error {
	seq, err := All(ctx, m, c, post)
	if err != nil {
		return err
	}
	for entity, err := range seq {
		if err != nil {
			return err
		}
		if err := fn(entity); err != nil {
			return err
		}
	}
	return nil
}
