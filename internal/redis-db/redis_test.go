package redis_db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected *redis.Options
	}{
		{
			name:     "simple docker style",
			url:      "redis:6379",
			expected: &redis.Options{Addr: "redis:6379"},
		},
		{
			name:     "redis url with password",
			url:      "redis://:password123@localhost:6379",
			expected: &redis.Options{Addr: "localhost:6379", Password: "password123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedisURL(tt.url, false)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected.Addr, got.Addr)
			assert.Equal(t, tt.expected.Password, got.Password)
		})
	}
}

func TestNewRedisClientValidation(t *testing.T) {
	_, err := NewRedisClient([]string{}, false)
	assert.Error(t, err)

	client, err := NewRedisClient([]string{"localhost:6379"}, false)
	assert.NoError(t, err)
	assert.NotNil(t, client.Client())
}

func TestRedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient([]string{mr.Addr()}, false)
	require.NoError(t, err)

	ctx := context.Background()
	err = client.Client().Set(ctx, "test_key", "test_value", time.Minute).Err()
	assert.NoError(t, err)

	got, err := client.Client().Get(ctx, "test_key").Result()
	assert.NoError(t, err)
	assert.Equal(t, "test_value", got)
}
