package zeroorm

import "context"

var (
	_ Querier = (*DB)(nil)
	_ Querier = (*Tx)(nil)
)

// Querier runs commands with bindings derived from a value. DB and Tx
// implement it, so either can be used interchangeably.
type Querier interface {
	ScalarContext(ctx context.Context, commandText string, value any, extra ...Param) (any, error)
	NonQueryContext(ctx context.Context, commandText string, value any, extra ...Param) (int64, error)
	CursorContext(ctx context.Context, commandText string, value any, extra ...Param) (*Rows, error)
}
