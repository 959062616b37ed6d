package pipeline

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/linqkit/errors"
)

// countingIter yields items and records how many values were pulled.
type countingIter struct {
	items  []int
	pulled *int
	closed *bool
	index  int
}

func (it *countingIter) Next(_ context.Context) (int, bool, error) {
	if it.index >= len(it.items) {
		return 0, false, nil
	}
	v := it.items[it.index]
	it.index++
	*it.pulled++
	return v, true, nil
}

func (it *countingIter) Close() error {
	if it.closed != nil {
		*it.closed = true
	}
	return nil
}

// counted returns a restartable pipeline over items and a counter of pulls
// across all passes.
func counted(items ...int) (*Pipeline[int], *int) {
	pulled := new(int)
	return FromFunc(func(context.Context) Iterator[int] {
		return &countingIter{items: items, pulled: pulled}
	}), pulled
}

// brokenIter yields items and then fails with err.
type brokenIter struct {
	items []int
	err   error
	index int
}

func (it *brokenIter) Next(_ context.Context) (int, bool, error) {
	if it.index >= len(it.items) {
		return 0, false, it.err
	}
	v := it.items[it.index]
	it.index++
	return v, true, nil
}

func (it *brokenIter) Close() error { return nil }

func broken(err error, items ...int) *Pipeline[int] {
	return FromFunc(func(context.Context) Iterator[int] {
		return &brokenIter{items: items, err: err}
	})
}

func TestFromSlice_Collect(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFromSlice_Empty(t *testing.T) {
	got, err := Collect(context.Background(), Empty[int]())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPipeline_IsRestartable(t *testing.T) {
	calls := 0
	p := Map(FromSlice([]int{1, 2, 3}), func(n int) int {
		calls++
		return n * 10
	})
	ctx := context.Background()

	first, err := Collect(ctx, p)
	require.NoError(t, err)
	second, err := Collect(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 6, calls, "each pass must re-run the projection")
}

func TestPipeline_NothingComputedBeforeDemand(t *testing.T) {
	src, pulled := counted(1, 2, 3, 4)
	calls := 0
	p := Filter(Map(src, func(n int) int {
		calls++
		return n
	}), func(n int) bool { return n > 1 })

	assert.Zero(t, *pulled)
	assert.Zero(t, calls)

	iter := p.Iter(context.Background())
	defer iter.Close()
	v, ok, err := iter.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, *pulled, "only the elements needed for the first output are pulled")
}

func TestCollect_PartialOnError(t *testing.T) {
	boom := stderrors.New("source broke")
	got, err := Collect(context.Background(), broken(boom, 1, 2))
	assert.Same(t, boom, err)
	assert.Equal(t, []int{1, 2}, got)
}

func TestCollect_NilSource(t *testing.T) {
	_, err := Collect[int](context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
}

func TestDrain_SinkError(t *testing.T) {
	stop := stderrors.New("stop")
	var seen []int
	err := Drain(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) error {
		seen = append(seen, n)
		if n == 2 {
			return stop
		}
		return nil
	}).Run(context.Background())
	assert.Same(t, stop, err)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestDrain_ClosesIterator(t *testing.T) {
	closed := false
	pulled := 0
	p := FromFunc(func(context.Context) Iterator[int] {
		return &countingIter{items: []int{1}, pulled: &pulled, closed: &closed}
	})
	require.NoError(t, ForEach(context.Background(), p, func(context.Context, int) error { return nil }))
	assert.True(t, closed)
}

func TestFail_ReturnsErrorOnFirstPull(t *testing.T) {
	boom := stderrors.New("boom")
	got, err := Collect(context.Background(), Fail[int](boom))
	assert.Same(t, boom, err)
	assert.Empty(t, got)
}

func TestFromFunc_NilFactory(t *testing.T) {
	_, err := Collect(context.Background(), FromFunc[int](nil))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
}
