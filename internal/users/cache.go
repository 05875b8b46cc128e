package users

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix = "codesign:user:" // codesign:user:{user_id}
	userTTL       = 15 * time.Minute
)

// Finder is the by-id lookup the auth layer resolves the current user with.
type Finder interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// Cache is a read-through redis cache in front of a Finder. Users are
// immutable after registration, so cached copies never go stale; the TTL
// only bounds memory.
type Cache struct {
	store  Finder
	client *redis.Client
}

func NewCache(store Finder, client *redis.Client) *Cache {
	return &Cache{store: store, client: client}
}

func (c *Cache) FindByID(ctx context.Context, id string) (*User, error) {
	key := userKeyPrefix + id

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var u User
		if err := json.Unmarshal(data, &u); err == nil {
			return &u, nil
		}
	}

	u, err := c.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		// best effort; a failed write just means a store read next time
		c.client.Set(ctx, key, data, userTTL)
	}

	return u, nil
}
