package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelevels/journal-backend/config"
)

func TestOpenRedis(t *testing.T) {
	ctx := context.Background()

	client, err := OpenRedis(ctx, &config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = OpenRedis(ctx, &config.RedisConfig{Addr: mr.Addr(), Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.NoError(t, RedisPinger{Client: client}.Ping(ctx))

	mr.Close()
	assert.Error(t, RedisPinger{Client: client}.Ping(ctx))
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), &config.RedisConfig{Addr: addr, Enabled: true})
	assert.ErrorContains(t, err, "redis ping")
}
