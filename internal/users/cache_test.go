package users

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFinder struct {
	user  *User
	err   error
	calls int
}

func (f *countingFinder) FindByID(ctx context.Context, id string) (*User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newTestCache(t *testing.T, store Finder) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(store, client)
}

func TestCacheReadThrough(t *testing.T) {
	store := &countingFinder{user: &User{ID: "u1", Email: "f@test.com", Name: "Fae", Role: RoleFacilitator}}
	cache := newTestCache(t, store)
	ctx := context.Background()

	u, err := cache.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "f@test.com", u.Email)
	assert.Equal(t, 1, store.calls)

	// second lookup is served from redis
	u, err = cache.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "f@test.com", u.Email)
	assert.Equal(t, 1, store.calls)
}

func TestCacheMissPropagatesNotFound(t *testing.T) {
	store := &countingFinder{err: ErrNotFound}
	cache := newTestCache(t, store)

	_, err := cache.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	// misses are not cached
	_, err = cache.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, store.calls)
}
