package xredis

import (
	"context"

	"github.com/puzpuzpuz/xsync"
	"github.com/redis/go-redis/v9"
)

// memoryClient serves the same keys as Redis from process memory. It is used
// when no Redis address is configured.
type memoryClient struct {
	values *xsync.MapOf[string, string]
}

func NewMemoryClient() *memoryClient {
	return &memoryClient{values: xsync.NewMapOf[string]()}
}

func (c *memoryClient) Exist(_ context.Context, key string) (bool, error) {
	_, ok := c.values.Load(key)
	return ok, nil
}

func (c *memoryClient) Get(_ context.Context, key string) (string, error) {
	value, ok := c.values.Load(key)
	if !ok {
		return "", redis.Nil
	}

	return value, nil
}

func (c *memoryClient) Set(_ context.Context, key, value string) error {
	c.values.Store(key, value)
	return nil
}

func (c *memoryClient) Del(_ context.Context, key ...string) error {
	for _, k := range key {
		c.values.Delete(k)
	}

	return nil
}
