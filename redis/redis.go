// Package redis backs two Guardian concerns: the decision cache consulted by
// the analyze endpoint, and a pub/sub channel carrying high-severity alerts.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SharedCode/guardian"
)

type client struct {
	conn *Connection
}

// NewClient returns a cache client over the singleton connection. Open the
// connection first via OpenConnection.
func NewClient() guardian.Cache {
	return &client{
		conn: connection,
	}
}

// keyNotFound will detect whether error signifies key not found by Redis.
func (c client) keyNotFound(err error) bool {
	return err == redis.Nil
}

// KeyNotFound reports whether err signifies a cache miss.
func (c client) KeyNotFound(err error) bool {
	return c.keyNotFound(err)
}

// Ping tests connectivity for redis (PONG should be returned)
func (c client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("Redis connection is not open, 'can't create new client")
	}
	return c.conn.Client.Ping(ctx).Err()
}

// SetStruct serializes value to JSON and executes the redis Set command.
// Passing 0 expiration uses the connection's default cache duration.
func (c client) SetStruct(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.conn == nil {
		return fmt.Errorf("Redis connection is not open, 'can't create new client")
	}
	// No caching if expiration < 0.
	if expiration < 0 {
		return nil
	}
	if expiration == 0 {
		expiration = c.conn.Options.DefaultCacheDuration
	}
	ba, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.conn.Client.Set(ctx, key, ba, expiration).Err()
}

// GetStruct executes the redis Get command and unmarshals into target.
// A cache miss surfaces as an error answering true to KeyNotFound.
func (c client) GetStruct(ctx context.Context, key string, target interface{}) error {
	if c.conn == nil {
		return fmt.Errorf("Redis connection is not open, 'can't create new client")
	}
	if target == nil {
		return fmt.Errorf("target can't be nil")
	}
	ba, err := c.conn.Client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(ba, target)
}

// Delete executes the redis Del command.
func (c client) Delete(ctx context.Context, keys ...string) error {
	if c.conn == nil {
		return fmt.Errorf("Redis connection is not open, 'can't create new client")
	}
	return c.conn.Client.Del(ctx, keys...).Err()
}
