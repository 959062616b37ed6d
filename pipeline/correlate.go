package pipeline

import (
	"context"

	"github.com/kbukum/linqkit/errors"
)

// Correlated pairs an outer value with the inner values that match it.
// Inner is never nil; an outer value without matches gets an empty pipeline.
type Correlated[O, I any] struct {
	Outer O
	Inner *Pipeline[I]
}

// Correlate pairs every outer value with inner filtered by match(outer, ·).
// The inner filter runs again each time a pair's Inner is iterated; nothing is
// cached between outer values.
func Correlate[O, I any](outer *Pipeline[O], inner *Pipeline[I], match func(O, I) bool) *Pipeline[Correlated[O, I]] {
	if match == nil {
		return Fail[Correlated[O, I]](errors.InvalidArgument("match"))
	}
	if inner == nil {
		return Fail[Correlated[O, I]](errors.InvalidArgument("inner"))
	}
	return Map(outer, func(o O) Correlated[O, I] {
		return Correlated[O, I]{
			Outer: o,
			Inner: Filter(inner, func(i I) bool { return match(o, i) }),
		}
	})
}

// CorrelateByKey is the keyed form of Correlate for matches that are key
// equality: it partitions inner once per pass instead of filtering it once
// per outer value. For match(o, i) == (outerKey(o) == innerKey(i)) both forms
// yield the same pairs with inner values in the same order.
func CorrelateByKey[O, I any, K comparable](
	outer *Pipeline[O],
	inner *Pipeline[I],
	outerKey func(O) K,
	innerKey func(I) K,
) *Pipeline[Correlated[O, I]] {
	switch {
	case inner == nil:
		return Fail[Correlated[O, I]](errors.InvalidArgument("inner"))
	case outerKey == nil:
		return Fail[Correlated[O, I]](errors.InvalidArgument("outer key selector"))
	case innerKey == nil:
		return Fail[Correlated[O, I]](errors.InvalidArgument("inner key selector"))
	}
	return &Pipeline[Correlated[O, I]]{
		create: func(ctx context.Context) Iterator[Correlated[O, I]] {
			return &lookupIter[O, I, K]{
				source:   source(ctx, outer),
				inner:    inner,
				outerKey: outerKey,
				innerKey: innerKey,
			}
		},
	}
}

type lookupIter[O, I any, K comparable] struct {
	source   Iterator[O]
	inner    *Pipeline[I]
	outerKey func(O) K
	innerKey func(I) K
	lookup   map[K]Group[K, I]
}

func (it *lookupIter[O, I, K]) Next(ctx context.Context) (Correlated[O, I], bool, error) {
	o, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return Correlated[O, I]{}, false, err
	}
	if it.lookup == nil {
		if err := it.build(ctx); err != nil {
			return Correlated[O, I]{}, false, err
		}
	}
	g, found := it.lookup[it.outerKey(o)]
	if !found {
		return Correlated[O, I]{Outer: o, Inner: Empty[I]()}, true, nil
	}
	return Correlated[O, I]{Outer: o, Inner: g.Members()}, true, nil
}

func (it *lookupIter[O, I, K]) build(ctx context.Context) error {
	iter := it.inner.create(ctx)
	defer iter.Close()
	groups, err := partition(ctx, iter, it.innerKey)
	if err != nil {
		return err
	}
	it.lookup = make(map[K]Group[K, I], len(groups))
	for _, g := range groups {
		it.lookup[g.Key] = g
	}
	return nil
}

func (it *lookupIter[O, I, K]) Close() error { return it.source.Close() }
