package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-chat/api/internal/model"
)

func TestProfileCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := &ProfileCache{R: New(mr.Addr())}
	ctx := context.Background()

	_, err := c.Get(ctx, "0xA")
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, c.Set(ctx, &model.Profile{Address: "0xA", Name: "alice", Friends: []string{"0xB"}}))
	assert.True(t, mr.Exists("profile:0xA"))
	assert.Equal(t, ttl, mr.TTL("profile:0xA"))

	p, err := c.Get(ctx, "0xA")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, []string{"0xB"}, p.Friends)

	require.NoError(t, c.Delete(ctx, "0xA"))
	assert.False(t, mr.Exists("profile:0xA"))
}
