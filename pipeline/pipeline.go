package pipeline

import (
	"context"

	"github.com/kbukum/linqkit/errors"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline represents a lazy, pull-based, restartable sequence.
// No work happens until values are pulled via Collect, Drain, ForEach or an aggregate.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion or the first error.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// --- Constructors ---

// FromSlice creates a pipeline over items in slice order.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// FromFunc creates a pipeline from a factory that produces a fresh Iterator per pass.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	if fn == nil {
		return Fail[T](errors.InvalidArgument("iterator factory"))
	}
	return &Pipeline[T]{create: fn}
}

// Empty returns a pipeline with no elements.
func Empty[T any]() *Pipeline[T] {
	return FromSlice[T](nil)
}

// Fail returns a pipeline whose first pull returns err.
func Fail[T any](err error) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &errIter[T]{err: err}
		},
	}
}

// --- Terminals ---

// Drain creates a Runnable that pulls all values and sends each to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			if p == nil {
				return errors.InvalidArgument("source")
			}
			if sink == nil {
				return errors.InvalidArgument("sink")
			}
			iter := p.create(ctx)
			defer iter.Close()
			for {
				val, ok, err := iter.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, val); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs the pipeline and returns all values as a slice.
// On error it returns the values produced before the failure.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	if p == nil {
		return nil, errors.InvalidArgument("source")
	}
	iter := p.create(ctx)
	defer iter.Close()
	return drainAll(ctx, iter)
}

// ForEach pulls all values and calls fn for each. Convenience wrapper around Drain.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// Iter returns a fresh Iterator for this pipeline. The caller must Close() it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

// source returns the iterator for p, or an iterator that fails with
// INVALID_ARGUMENT when p is nil.
func source[T any](ctx context.Context, p *Pipeline[T]) Iterator[T] {
	if p == nil {
		return &errIter[T]{err: errors.InvalidArgument("source")}
	}
	return p.create(ctx)
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type errIter[T any] struct {
	err error
}

func (it *errIter[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it *errIter[T]) Close() error { return nil }

// drainAll pulls every remaining value from iter. On failure it returns the
// values pulled so far together with the error.
func drainAll[T any](ctx context.Context, iter Iterator[T]) ([]T, error) {
	var items []T
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return items, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, val)
	}
}
