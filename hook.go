package zeroorm

import (
	"context"
)

// Hook is the hook callback signature
type Hook func(ctx context.Context, query string, args ...any) (context.Context, error)

// ErrorHook is the error handling callback signature
type ErrorHook func(ctx context.Context, err error, query string, args ...any) error

// BeforeHook runs before each command.
type BeforeHook interface {
	Before(ctx context.Context, query string, args ...any) (context.Context, error)
}

// AfterHook runs after each successful command.
type AfterHook interface {
	After(ctx context.Context, query string, args ...any) (context.Context, error)
}

// ErrorerHook runs when a command fails. A non-nil result replaces the error.
type ErrorerHook interface {
	OnError(ctx context.Context, err error, query string, args ...any) error
}

type hooks struct {
	before  []Hook
	after   []Hook
	onError []ErrorHook
}

// Use registers every hook interface the values implement.
func (h *hooks) Use(values ...any) {
	for _, v := range values {
		if b, ok := v.(BeforeHook); ok {
			h.UseBefore(b.Before)
		}
		if a, ok := v.(AfterHook); ok {
			h.UseAfter(a.After)
		}
		if e, ok := v.(ErrorerHook); ok {
			h.UseOnError(e.OnError)
		}
	}
}

func (h *hooks) UseBefore(fns ...Hook) {
	h.before = append(h.before, fns...)
}

func (h *hooks) UseAfter(fns ...Hook) {
	h.after = append(h.after, fns...)
}

func (h *hooks) UseOnError(fns ...ErrorHook) {
	h.onError = append(h.onError, fns...)
}

func (h *hooks) handleBefore(ctx context.Context, query string, args ...any) (context.Context, error) {
	var err error
	for _, hook := range h.before {
		ctx, err = hook(ctx, query, args...)
		if err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

func (h *hooks) handleAfter(ctx context.Context, query string, args ...any) (context.Context, error) {
	var err error
	for _, hook := range h.after {
		ctx, err = hook(ctx, query, args...)
		if err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

func (h *hooks) handleError(ctx context.Context, err error, query string, args ...any) error {
	for _, hook := range h.onError {
		if replaced := hook(ctx, err, query, args...); replaced != nil {
			return replaced
		}
	}
	return err
}

func handleTwo[T any](fn func(ctx context.Context) (T, error), h *hooks, ctx context.Context, query string, args ...any) (T, error) {
	var t T
	ctx2, err := h.handleBefore(ctx, query, args...)
	if err != nil {
		return t, err
	}
	data, err := fn(ctx2)
	if err != nil {
		return data, h.handleError(ctx2, err, query, args...)
	}
	if _, err := h.handleAfter(ctx2, query, args...); err != nil {
		return data, err
	}
	return data, nil
}
