package pipeline

import (
	"context"

	"github.com/kbukum/linqkit/errors"
)

// Map transforms each value using fn, one output per input, in order.
func Map[I, O any](p *Pipeline[I], fn func(I) O) *Pipeline[O] {
	if fn == nil {
		return Fail[O](errors.InvalidArgument("projector"))
	}
	return MapErr(p, func(_ context.Context, v I) (O, error) {
		return fn(v), nil
	})
}

// MapErr transforms each value using a projector that may fail.
// The first failure stops iteration and is returned unchanged.
func MapErr[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	if fn == nil {
		return Fail[O](errors.InvalidArgument("projector"))
	}
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: source(ctx, p), fn: fn}
		},
	}
}

// FlatMap maps each value to a pipeline and yields all of its values before
// pulling the next upstream value.
func FlatMap[I, O any](p *Pipeline[I], fn func(I) *Pipeline[O]) *Pipeline[O] {
	if fn == nil {
		return Fail[O](errors.InvalidArgument("projector"))
	}
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &flatMapIter[I, O]{
				source: source(ctx, p),
				fn: func(ctx context.Context, v I) (Iterator[O], error) {
					return source(ctx, fn(v)), nil
				},
			}
		},
	}
}

// FlatMapSlice is FlatMap for projectors that return a slice.
func FlatMapSlice[I, O any](p *Pipeline[I], fn func(I) []O) *Pipeline[O] {
	if fn == nil {
		return Fail[O](errors.InvalidArgument("projector"))
	}
	return FlatMap(p, func(v I) *Pipeline[O] {
		return FromSlice(fn(v))
	})
}

// Filter keeps only values that satisfy the predicate, preserving order.
func Filter[T any](p *Pipeline[T], fn func(T) bool) *Pipeline[T] {
	if fn == nil {
		return Fail[T](errors.InvalidArgument("predicate"))
	}
	return FilterErr(p, func(_ context.Context, v T) (bool, error) {
		return fn(v), nil
	})
}

// FilterErr keeps values that satisfy a predicate that may fail.
// The first failure stops iteration and is returned unchanged.
func FilterErr[T any](p *Pipeline[T], fn func(context.Context, T) (bool, error)) *Pipeline[T] {
	if fn == nil {
		return Fail[T](errors.InvalidArgument("predicate"))
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &filterIter[T]{source: source(ctx, p), fn: fn}
		},
	}
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
// Use for logging or counting.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	if fn == nil {
		return Fail[T](errors.InvalidArgument("tap"))
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &tapIter[T]{source: source(ctx, p), fn: fn}
		},
	}
}

// Reduce accumulates all values into a single result.
// The pipeline yields exactly one value: the final accumulator.
func Reduce[T, R any](p *Pipeline[T], init R, fn func(R, T) R) *Pipeline[R] {
	if fn == nil {
		return Fail[R](errors.InvalidArgument("accumulator"))
	}
	return &Pipeline[R]{
		create: func(ctx context.Context) Iterator[R] {
			return &reduceIter[T, R]{source: source(ctx, p), acc: init, fn: fn}
		},
	}
}

// Concat joins multiple pipelines sequentially.
// All values from the first pipeline are yielded before the second, etc.
func Concat[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &concatIter[T]{ctx: ctx, pipelines: pipelines}
		},
	}
}

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (Iterator[O], error)
	current Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				var zero O
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero O
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			var zero O
			return zero, false, err
		}
		it.current = inner
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) (bool, error)
}

func (it *filterIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		keep, err := it.fn(ctx, val)
		if err != nil {
			var zero T
			return zero, false, err
		}
		if keep {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type reduceIter[T, R any] struct {
	source Iterator[T]
	acc    R
	fn     func(R, T) R
	done   bool
}

func (it *reduceIter[T, R]) Next(ctx context.Context) (result R, ok bool, err error) {
	if it.done {
		var zero R
		return zero, false, nil
	}
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			var zero R
			return zero, false, err
		}
		if !ok {
			it.done = true
			return it.acc, true, nil
		}
		it.acc = it.fn(it.acc, val)
	}
}

func (it *reduceIter[T, R]) Close() error { return it.source.Close() }

// concatIter opens each pipeline only when the previous one is exhausted.
type concatIter[T any] struct {
	ctx       context.Context
	pipelines []*Pipeline[T]
	index     int
	current   Iterator[T]
}

func (it *concatIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for it.index < len(it.pipelines) {
		if it.current == nil {
			it.current = source(it.ctx, it.pipelines[it.index])
		}
		val, ok, err := it.current.Next(ctx)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		_ = it.current.Close()
		it.current = nil
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	if it.current != nil {
		return it.current.Close()
	}
	return nil
}
