package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// InvalidationChannel carries the paths whose cached views went stale.
const InvalidationChannel = "view-invalidations"

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewFromRedis wraps an existing go-redis client.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func revisionKey(path string) string {
	return fmt.Sprintf("view:rev:%s", path)
}

// InvalidatePaths bumps the revision of each path and announces it on
// InvalidationChannel so the hosting framework can recompute the view.
func (c *Client) InvalidatePaths(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for _, path := range paths {
		pipe.Incr(ctx, revisionKey(path))
		pipe.Publish(ctx, InvalidationChannel, path)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate paths failed: %w", err)
	}
	return nil
}

// PathRevision returns how many times path has been invalidated.
func (c *Client) PathRevision(ctx context.Context, path string) (int64, error) {
	rev, err := c.rdb.Get(ctx, revisionKey(path)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rev, nil
}

// SubscribeInvalidations subscribes to path invalidation announcements.
func (c *Client) SubscribeInvalidations(ctx context.Context) *redis.PubSub {
	return c.rdb.Subscribe(ctx, InvalidationChannel)
}

func sessionKey(subject string) string {
	return fmt.Sprintf("session:farmer:%s", subject)
}

// StoreSession records the latest session token issued for a farmer
func (c *Client) StoreSession(ctx context.Context, subject, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, sessionKey(subject), token, ttl).Err()
}

// GetSession returns the latest session token for a farmer, or "" if none
func (c *Client) GetSession(ctx context.Context, subject string) (string, error) {
	token, err := c.rdb.Get(ctx, sessionKey(subject)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}
