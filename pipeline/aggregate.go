package pipeline

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/errors"
)

// Number is the set of built-in numeric types Sum and Average accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Count drains p and returns the number of elements.
func Count[T any](ctx context.Context, p *Pipeline[T]) (int, error) {
	return single(ctx, Reduce(p, 0, func(n int, _ T) int { return n + 1 }))
}

// Sum drains p and adds selector(v) for every element. The sum of an empty
// pipeline is zero.
func Sum[T any, N Number](ctx context.Context, p *Pipeline[T], selector func(T) N) (N, error) {
	if selector == nil {
		return 0, errors.InvalidArgument("selector")
	}
	return single(ctx, Reduce(p, N(0), func(acc N, v T) N { return acc + selector(v) }))
}

// SumDecimal is Sum for decimal amounts.
func SumDecimal[T any](ctx context.Context, p *Pipeline[T], selector func(T) decimal.Decimal) (decimal.Decimal, error) {
	if selector == nil {
		return decimal.Zero, errors.InvalidArgument("selector")
	}
	return single(ctx, Reduce(p, decimal.Zero, func(acc decimal.Decimal, v T) decimal.Decimal {
		return acc.Add(selector(v))
	}))
}

// Average returns the arithmetic mean of selector(v). An empty pipeline is an
// EMPTY_SEQUENCE error, never zero.
func Average[T any, N Number](ctx context.Context, p *Pipeline[T], selector func(T) N) (float64, error) {
	if selector == nil {
		return 0, errors.InvalidArgument("selector")
	}
	type acc struct {
		sum   float64
		count int
	}
	total, err := single(ctx, Reduce(p, acc{}, func(a acc, v T) acc {
		return acc{sum: a.sum + float64(selector(v)), count: a.count + 1}
	}))
	if err != nil {
		return 0, err
	}
	if total.count == 0 {
		return 0, errors.EmptySequence("average")
	}
	return total.sum / float64(total.count), nil
}

// AverageDecimal is Average for decimal amounts. The quotient uses
// decimal.DivisionPrecision digits.
func AverageDecimal[T any](ctx context.Context, p *Pipeline[T], selector func(T) decimal.Decimal) (decimal.Decimal, error) {
	if selector == nil {
		return decimal.Zero, errors.InvalidArgument("selector")
	}
	type acc struct {
		sum   decimal.Decimal
		count int64
	}
	total, err := single(ctx, Reduce(p, acc{sum: decimal.Zero}, func(a acc, v T) acc {
		return acc{sum: a.sum.Add(selector(v)), count: a.count + 1}
	}))
	if err != nil {
		return decimal.Zero, err
	}
	if total.count == 0 {
		return decimal.Zero, errors.EmptySequence("average")
	}
	return total.sum.Div(decimal.NewFromInt(total.count)), nil
}

// Any reports whether some element satisfies predicate, stopping at the first
// match. A nil predicate matches any element.
func Any[T any](ctx context.Context, p *Pipeline[T], predicate func(T) bool) (bool, error) {
	if predicate == nil {
		predicate = func(T) bool { return true }
	}
	_, found, err := FirstWhere(ctx, p, predicate)
	return found, err
}

// First returns the first element of p. found is false when p is empty.
func First[T any](ctx context.Context, p *Pipeline[T]) (value T, found bool, err error) {
	return FirstWhere(ctx, p, func(T) bool { return true })
}

// FirstWhere returns the first element satisfying predicate, pulling no
// further than that element.
func FirstWhere[T any](ctx context.Context, p *Pipeline[T], predicate func(T) bool) (value T, found bool, err error) {
	if predicate == nil {
		return value, false, errors.InvalidArgument("predicate")
	}
	iter := source(ctx, p)
	defer iter.Close()
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil || !ok {
			return value, false, err
		}
		if predicate(val) {
			return val, true, nil
		}
	}
}

// single pulls the one value a Reduce pipeline yields.
func single[R any](ctx context.Context, p *Pipeline[R]) (R, error) {
	iter := source(ctx, p)
	defer iter.Close()
	val, _, err := iter.Next(ctx)
	return val, err
}
