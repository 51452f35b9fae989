package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SharedCode/guardian"
)

type mockRedis struct {
	lookup map[string][]byte
}

// Returns a new Redis mock client, a map-backed guardian.Cache for tests and
// for running without a Redis server.
func NewMockClient() guardian.Cache {
	return &mockRedis{
		lookup: make(map[string][]byte),
	}
}

func (m *mockRedis) SetStruct(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ba, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.lookup[key] = ba
	return nil
}

func (m *mockRedis) GetStruct(ctx context.Context, key string, target interface{}) error {
	ba, ok := m.lookup[key]
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(ba, target)
}

func (m *mockRedis) Delete(ctx context.Context, keys ...string) error {
	var lastErr error
	for _, k := range keys {
		if _, ok := m.lookup[k]; !ok {
			lastErr = redis.Nil
			continue
		}
		delete(m.lookup, k)
	}
	return lastErr
}

func (m *mockRedis) Ping(ctx context.Context) error {
	return nil
}

func (m *mockRedis) KeyNotFound(err error) bool {
	return err == redis.Nil
}
