package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/regatta-score-manager-go/pkg/utils/cache"
)

type entry struct {
	key   int
	calls int
}

func countingLoader() (LoaderFunc[int, entry], *int) {
	calls := 0
	return func(_ context.Context, key int) (*entry, error) {
		calls++
		if key < 0 {
			return nil, errors.New("negative key")
		}
		return &entry{key: key, calls: calls}, nil
	}, &calls
}

func TestGetCachesLoadedValue(t *testing.T) {
	ctx := context.Background()
	lf, calls := countingLoader()
	c := New(WithLoader[int, entry](lf))

	first, err := c.Get(ctx, 1)
	assert.NoError(t, err)
	second, err := c.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, 1, c.Len())
}

func TestGetWithoutLoader(t *testing.T) {
	c := New[int, entry]()
	_, err := c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestFailedLoadIsNotCached(t *testing.T) {
	ctx := context.Background()
	lf, calls := countingLoader()
	c := New(WithLoader[int, entry](lf))

	_, err := c.Get(ctx, -1)
	assert.Error(t, err)
	_, err = c.Get(ctx, -1)
	assert.Error(t, err)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	lf, calls := countingLoader()
	c := New(WithLoader[int, entry](lf))

	_, _ = c.Get(ctx, 1)
	_, _ = c.Get(ctx, 2)
	c.Invalidate(ctx, 1)
	assert.Equal(t, 1, c.Len())
	v, err := c.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, v.calls)

	c.InvalidateAll(ctx)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 3, *calls)
}

func TestExpiration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	lf, calls := countingLoader()
	c := New(
		WithLoader[int, entry](lf),
		WithExpiration[int, entry](time.Minute),
		WithClock[int, entry](func() time.Time { return now }),
	)

	_, _ = c.Get(ctx, 1)
	now = now.Add(59 * time.Second)
	_, _ = c.Get(ctx, 1)
	assert.Equal(t, 1, *calls)

	now = now.Add(time.Second)
	_, _ = c.Get(ctx, 1)
	assert.Equal(t, 2, *calls)
}

func TestZeroExpirationKeepsEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	lf, calls := countingLoader()
	c := New(
		WithLoader[int, entry](lf),
		WithExpiration[int, entry](0),
		WithClock[int, entry](func() time.Time { return now }),
	)
	_, _ = c.Get(ctx, 1)
	now = now.Add(24 * time.Hour)
	_, _ = c.Get(ctx, 1)
	assert.Equal(t, 1, *calls)
}
