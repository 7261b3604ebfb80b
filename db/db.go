// Package db provides typed helpers over zeroorm.Querier.
package db

import (
	"context"

	"github.com/oarkflow/zeroorm"
)

// Get [T] runs the command and materializes its first row.
// It returns nil, nil when the command yields no rows.
func Get[T any](ctx context.Context, q zeroorm.Querier, commandText string, value any, extra ...zeroorm.Param) (dest *T, err error) {
	rows, err := q.CursorContext(ctx, commandText, value, extra...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return zeroorm.One[T](ctx, rows.Mapper, rows, nil)
}

// Select [T] runs the command and materializes every row.
func Select[T any](ctx context.Context, q zeroorm.Querier, commandText string, value any, extra ...zeroorm.Param) (dest []*T, err error) {
	rows, err := q.CursorContext(ctx, commandText, value, extra...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return zeroorm.List[T](ctx, rows.Mapper, rows, nil)
}

// Each [T] runs the command and calls callback once per row.
func Each[T any](ctx context.Context, q zeroorm.Querier, callback func(row *T) error, commandText string, value any, extra ...zeroorm.Param) error {
	rows, err := q.CursorContext(ctx, commandText, value, extra...)
	if err != nil {
		return err
	}
	defer rows.Close()
	return zeroorm.Each(ctx, rows.Mapper, rows, callback, nil)
}

// Scalar [T] runs the command and converts its scalar result to T. A NULL or
// missing result yields the zero value.
func Scalar[T any](ctx context.Context, q zeroorm.Querier, commandText string, value any, extra ...zeroorm.Param) (dest T, err error) {
	v, err := q.ScalarContext(ctx, commandText, value, extra...)
	if err != nil {
		return dest, err
	}
	err = zeroorm.Assign(&dest, v)
	return
}
