package pipeline

import (
	"context"
	"slices"

	"github.com/kbukum/linqkit/errors"
)

// Sorted is a pipeline produced by OrderBy. ThenBy adds tie-break keys.
type Sorted[T any] struct {
	*Pipeline[T]
	source *Pipeline[T]
	keys   []SortKey[T]
}

// OrderBy sorts p by key. The sort is stable: elements equal on every key
// keep their upstream order. Upstream is pulled in full on the first pull.
func OrderBy[T any](p *Pipeline[T], key SortKey[T]) *Sorted[T] {
	return newSorted(p, []SortKey[T]{key})
}

// ThenBy returns a new Sorted that breaks ties among elements equal on all
// previous keys using key. The receiver is not modified.
func (s *Sorted[T]) ThenBy(key SortKey[T]) *Sorted[T] {
	keys := make([]SortKey[T], 0, len(s.keys)+1)
	keys = append(keys, s.keys...)
	keys = append(keys, key)
	return newSorted(s.source, keys)
}

func newSorted[T any](p *Pipeline[T], keys []SortKey[T]) *Sorted[T] {
	s := &Sorted[T]{source: p, keys: keys}
	for _, k := range keys {
		if !k.valid() {
			s.Pipeline = Fail[T](errors.InvalidArgument("sort key"))
			return s
		}
	}
	s.Pipeline = &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &sortIter[T]{source: source(ctx, p), keys: keys}
		},
	}
	return s
}

type sortIter[T any] struct {
	source Iterator[T]
	keys   []SortKey[T]
	sorted *sliceIter[T]
}

func (it *sortIter[T]) Next(ctx context.Context) (T, bool, error) {
	if it.sorted == nil {
		items, err := drainAll(ctx, it.source)
		if err != nil {
			var zero T
			return zero, false, err
		}
		it.sorted = &sliceIter[T]{items: sortStable(items, it.keys)}
	}
	return it.sorted.Next(ctx)
}

func (it *sortIter[T]) Close() error { return it.source.Close() }

func sortStable[T any](items []T, keys []SortKey[T]) []T {
	compares := make([]func(i, j int) int, len(keys))
	for i, k := range keys {
		compares[i] = k.bind(items)
	}
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		for _, c := range compares {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	})
	out := make([]T, len(items))
	for i, idx := range order {
		out[i] = items[idx]
	}
	return out
}
