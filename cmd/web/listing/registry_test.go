package listing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOpenAndLoadMore(t *testing.T) {
	f := newFakeFetcher(3).with("travel", 6)
	r := NewRegistry(f, RegistryOptions{MaxViews: 4, ViewTTL: time.Minute})
	defer r.CloseAll()

	id, s, err := r.Open(context.Background(), "travel")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, s.Posts, 3)

	s, err = r.LoadMore(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, s.Posts, 6)

	_, err = r.LoadMore(context.Background(), id)
	assert.ErrorIs(t, err, ErrNoMoreItems)
}

func TestRegistryViewsAreIndependent(t *testing.T) {
	f := newFakeFetcher(2).with("", 4)
	r := NewRegistry(f, RegistryOptions{})
	defer r.CloseAll()

	a, _, err := r.Open(context.Background(), "")
	require.NoError(t, err)
	b, _, err := r.Open(context.Background(), "")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = r.LoadMore(context.Background(), a)
	require.NoError(t, err)

	cb, ok := r.Get(b)
	require.True(t, ok)
	assert.Len(t, cb.Snapshot().Posts, 2)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryCloseUnmountsView(t *testing.T) {
	f := newFakeFetcher(1).with("", 3)
	r := NewRegistry(f, RegistryOptions{})

	id, _, err := r.Open(context.Background(), "")
	require.NoError(t, err)
	c, ok := r.Get(id)
	require.True(t, ok)

	assert.True(t, r.Close(id))
	assert.True(t, c.Closed())
	assert.False(t, r.Close(id))

	_, err = r.LoadMore(context.Background(), id)
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestRegistryEvictionClosesOldestView(t *testing.T) {
	f := newFakeFetcher(1).with("", 3)
	r := NewRegistry(f, RegistryOptions{MaxViews: 1})
	defer r.CloseAll()

	first, _, err := r.Open(context.Background(), "")
	require.NoError(t, err)
	c, ok := r.Get(first)
	require.True(t, ok)

	_, _, err = r.Open(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, c.Closed())
	_, ok = r.Get(first)
	assert.False(t, ok)
}

func TestRegistryOpenKeepsViewOnFetchError(t *testing.T) {
	f := FetcherFunc(func(ctx context.Context, param string, page int) (Page, error) {
		return Page{}, assert.AnError
	})
	r := NewRegistry(f, RegistryOptions{})
	defer r.CloseAll()

	id, s, err := r.Open(context.Background(), "")
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, s.Empty())
	_, ok := r.Get(id)
	assert.True(t, ok)
}

func TestRegistrySetParamResetsView(t *testing.T) {
	f := newFakeFetcher(2).with("go", 4).with("travel", 1)
	r := NewRegistry(f, RegistryOptions{})
	defer r.CloseAll()

	id, _, err := r.Open(context.Background(), "go")
	require.NoError(t, err)
	_, err = r.LoadMore(context.Background(), id)
	require.NoError(t, err)

	s, err := r.SetParam(context.Background(), id, "travel")
	require.NoError(t, err)
	assert.Equal(t, "travel", s.Param)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, []string{"travel-1"}, ids(s.Posts))

	_, err = r.SetParam(context.Background(), "missing", "go")
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestRegistryDropsControllerClosedElsewhere(t *testing.T) {
	r := NewRegistry(newFakeFetcher(2).with("", 4), RegistryOptions{})
	defer r.CloseAll()

	id, _, err := r.Open(context.Background(), "")
	require.NoError(t, err)
	c, ok := r.Get(id)
	require.True(t, ok)
	c.Close()

	_, ok = r.Get(id)
	assert.False(t, ok)
	assert.Zero(t, r.Len())
	_, err = r.LoadMore(context.Background(), id)
	assert.ErrorIs(t, err, ErrViewNotFound)
}
