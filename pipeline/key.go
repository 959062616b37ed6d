package pipeline

import "cmp"

// Direction selects ascending or descending order for a sort key.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortKey is one level of an OrderBy/ThenBy chain. Keys are extracted once
// per element when the sort runs, not once per comparison.
type SortKey[T any] struct {
	bind func(items []T) func(i, j int) int
}

func (k SortKey[T]) valid() bool { return k.bind != nil }

// Asc orders by an ordered key, smallest first. Strings compare bytewise.
func Asc[T any, K cmp.Ordered](key func(T) K) SortKey[T] {
	return AscFunc(key, cmp.Compare[K])
}

// Desc orders by an ordered key, largest first.
func Desc[T any, K cmp.Ordered](key func(T) K) SortKey[T] {
	return DescFunc(key, cmp.Compare[K])
}

// AscFunc orders by a key compared with compare, e.g. decimal.Decimal.Cmp or
// time.Time.Compare.
func AscFunc[T, K any](key func(T) K, compare func(a, b K) int) SortKey[T] {
	return By(key, compare, Ascending)
}

// DescFunc is AscFunc with the order reversed.
func DescFunc[T, K any](key func(T) K, compare func(a, b K) int) SortKey[T] {
	return By(key, compare, Descending)
}

// By builds a sort key from a selector, a comparator and a direction.
func By[T, K any](key func(T) K, compare func(a, b K) int, dir Direction) SortKey[T] {
	if key == nil || compare == nil {
		return SortKey[T]{}
	}
	return keyed(key, directed(compare, dir))
}

// AscNullable orders by an optional key. A nil key sorts before every
// non-nil key.
func AscNullable[T any, K cmp.Ordered](key func(T) *K) SortKey[T] {
	return NullableBy(key, cmp.Compare[K], Ascending)
}

// DescNullable orders non-nil keys largest first. A nil key still sorts
// before every non-nil key.
func DescNullable[T any, K cmp.Ordered](key func(T) *K) SortKey[T] {
	return NullableBy(key, cmp.Compare[K], Descending)
}

// NullableBy builds a sort key over an optional value. Direction applies to
// non-nil values only; nil keys always come first.
func NullableBy[T, K any](key func(T) *K, compare func(a, b K) int, dir Direction) SortKey[T] {
	if key == nil || compare == nil {
		return SortKey[T]{}
	}
	inner := directed(compare, dir)
	return keyed(key, func(a, b *K) int {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		case b == nil:
			return 1
		default:
			return inner(*a, *b)
		}
	})
}

func directed[K any](compare func(a, b K) int, dir Direction) func(a, b K) int {
	if dir == Descending {
		return func(a, b K) int { return compare(b, a) }
	}
	return compare
}

func keyed[T, K any](key func(T) K, compare func(a, b K) int) SortKey[T] {
	return SortKey[T]{
		bind: func(items []T) func(i, j int) int {
			keys := make([]K, len(items))
			for i, item := range items {
				keys[i] = key(item)
			}
			return func(i, j int) int {
				return compare(keys[i], keys[j])
			}
		},
	}
}
