package pipeline

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/linqkit/errors"
)

func identity[T any](v T) T { return v }

func TestCount(t *testing.T) {
	ctx := context.Background()
	n, err := Count(ctx, FromSlice([]string{"a", "b", "c"}))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = Count(ctx, Empty[string]())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSum_EmptyIsZero(t *testing.T) {
	ctx := context.Background()
	s, err := Sum(ctx, Empty[int](), identity[int])
	require.NoError(t, err)
	assert.Zero(t, s)

	d, err := SumDecimal(ctx, Empty[decimal.Decimal](), identity[decimal.Decimal])
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestSum_Values(t *testing.T) {
	s, err := Sum(context.Background(), FromSlice([]float64{1.5, 2.5}), identity[float64])
	require.NoError(t, err)
	assert.InDelta(t, 4.0, s, 1e-9)
}

func TestAverage_EmptyIsError(t *testing.T) {
	ctx := context.Background()
	_, err := Average(ctx, Empty[int](), identity[int])
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptySequence))

	_, err = AverageDecimal(ctx, Empty[decimal.Decimal](), identity[decimal.Decimal])
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptySequence))
}

func TestAverage_Values(t *testing.T) {
	avg, err := Average(context.Background(), FromSlice([]int{1, 2, 3, 4}), identity[int])
	require.NoError(t, err)
	assert.InDelta(t, 2.5, avg, 1e-9)
}

func TestSumAverageAgreement(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	ctx := context.Background()
	for trial := 0; trial < 100; trial++ {
		amounts := make([]decimal.Decimal, 1+r.IntN(20))
		for i := range amounts {
			amounts[i] = decimal.New(r.Int64N(1_000_000), -2)
		}
		src := FromSlice(amounts)

		sum, err := SumDecimal(ctx, src, identity[decimal.Decimal])
		require.NoError(t, err)
		n, err := Count(ctx, src)
		require.NoError(t, err)
		avg, err := AverageDecimal(ctx, src, identity[decimal.Decimal])
		require.NoError(t, err)

		diff := sum.Div(decimal.NewFromInt(int64(n))).Sub(avg).Abs()
		assert.True(t, diff.LessThan(decimal.New(1, -10)), "sum/count=%s avg=%s", sum.Div(decimal.NewFromInt(int64(n))), avg)
	}
}

func TestAny_ShortCircuits(t *testing.T) {
	src, pulled := counted(1, 5, 2, 7)
	found, err := Any(context.Background(), src, func(n int) bool { return n > 4 })
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, *pulled)
}

func TestAny_NilPredicateMeansNonEmpty(t *testing.T) {
	ctx := context.Background()
	found, err := Any(ctx, FromSlice([]int{0}), nil)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = Any(ctx, Empty[int](), nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFirst(t *testing.T) {
	ctx := context.Background()
	v, ok, err := First(ctx, FromSlice([]string{"x", "y"}))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok, err = First(ctx, Empty[string]())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFirstWhere_StopsAtMatch(t *testing.T) {
	src, pulled := counted(1, 2, 3, 4)
	v, ok, err := FirstWhere(context.Background(), src, func(n int) bool { return n%2 == 0 })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, *pulled)
}

func TestAggregates_PropagateUpstreamFailure(t *testing.T) {
	boom := stderrors.New("broken source")
	ctx := context.Background()

	_, err := Count(ctx, broken(boom, 1))
	assert.Same(t, boom, err)
	_, err = Sum(ctx, broken(boom, 1), identity[int])
	assert.Same(t, boom, err)
	_, err = Average(ctx, broken(boom), identity[int])
	assert.Same(t, boom, err)
	_, _, err = First(ctx, broken(boom))
	assert.Same(t, boom, err)
}

func TestAggregates_NilArguments(t *testing.T) {
	ctx := context.Background()
	src := FromSlice([]int{1})

	_, err := Count[int](ctx, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
	_, err = Sum[int, int](ctx, src, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
	_, err = Average[int, int](ctx, src, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
	_, _, err = FirstWhere(ctx, src, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
}
