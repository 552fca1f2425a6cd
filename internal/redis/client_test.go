package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&Config{
		Address:  mr.Addr(),
		Password: "",
		DB:       0,
		PoolSize: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClient_NilConfig(t *testing.T) {
	_, err := NewClient(nil)
	assert.Error(t, err)
}

func TestNewClient_ConnectionRefused(t *testing.T) {
	_, err := NewClient(&Config{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	config := &Config{Address: mr.Addr(), PoolSize: 0}
	client, err := NewClient(config)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 10, config.PoolSize)
}

func TestClient_Health(t *testing.T) {
	client, mr := setupTestRedis(t)

	assert.NoError(t, client.Health())

	mr.Close()
	assert.Error(t, client.Health())
}

func TestCheckRateLimit_AllowsUnderLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, count, err := client.CheckRateLimit(ctx, "rate_limit:test", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i)
		assert.Equal(t, i, count)
	}
}

func TestCheckRateLimit_BlocksOverLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := client.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
		require.NoError(t, err)
	}

	allowed, count, err := client.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, count, 3)
}

func TestCheckRateLimit_SeparateKeys(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := client.CheckRateLimit(ctx, "rate_limit:a", 2, time.Minute)
		require.NoError(t, err)
	}

	allowed, _, err := client.CheckRateLimit(ctx, "rate_limit:b", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "a different caller should have its own window")
}
