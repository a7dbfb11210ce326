package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sui-chat/api/internal/model"
)

const ttl = time.Hour

type ProfileCache struct{ R *redis.Client }

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

func key(address string) string { return "profile:" + address }

func (c *ProfileCache) Get(ctx context.Context, address string) (*model.Profile, error) {
	b, err := c.R.Get(ctx, key(address)).Bytes()
	if err != nil {
		return nil, err
	}
	var p model.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ProfileCache) Set(ctx context.Context, p *model.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, key(p.Address), b, ttl).Err()
}

func (c *ProfileCache) Delete(ctx context.Context, address string) error {
	return c.R.Del(ctx, key(address)).Err()
}
