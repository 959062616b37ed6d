package pipeline

import (
	"context"

	"github.com/kbukum/linqkit/errors"
)

// Group is a key plus the upstream elements that produced that key, in their
// original relative order.
type Group[K comparable, T any] struct {
	Key     K
	members []T
}

// Members returns the group's elements as a pipeline. Apply GroupBy to it for
// nested grouping.
func (g Group[K, T]) Members() *Pipeline[T] {
	return FromSlice(g.members)
}

// Len returns the number of members.
func (g Group[K, T]) Len() int { return len(g.members) }

// GroupBy partitions p by key. Groups are yielded in the order their key was
// first seen upstream; keys are compared with ==, so composite keys should be
// structs of comparable fields. Upstream is scanned in full on the first pull.
func GroupBy[T any, K comparable](p *Pipeline[T], key func(T) K) *Pipeline[Group[K, T]] {
	if key == nil {
		return Fail[Group[K, T]](errors.InvalidArgument("key selector"))
	}
	return &Pipeline[Group[K, T]]{
		create: func(ctx context.Context) Iterator[Group[K, T]] {
			return &groupIter[T, K]{source: source(ctx, p), key: key}
		},
	}
}

type groupIter[T any, K comparable] struct {
	source Iterator[T]
	key    func(T) K
	groups *sliceIter[Group[K, T]]
}

func (it *groupIter[T, K]) Next(ctx context.Context) (Group[K, T], bool, error) {
	if it.groups == nil {
		groups, err := partition(ctx, it.source, it.key)
		if err != nil {
			return Group[K, T]{}, false, err
		}
		it.groups = &sliceIter[Group[K, T]]{items: groups}
	}
	return it.groups.Next(ctx)
}

func (it *groupIter[T, K]) Close() error { return it.source.Close() }

// partition drains iter into groups ordered by first appearance of their key.
func partition[T any, K comparable](ctx context.Context, iter Iterator[T], key func(T) K) ([]Group[K, T], error) {
	index := make(map[K]int)
	var groups []Group[K, T]
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return groups, nil
		}
		k := key(val)
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].members = append(groups[i].members, val)
	}
}
