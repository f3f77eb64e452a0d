package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"mkaplan/eventdigest/logger"
	pkgerr "mkaplan/eventdigest/pkg/errors"
)

// RedisNotifier publishes digests to a Redis stream so other consumers
// can pick them up. The digest is JSON encoded and then base64 encoded
// before publishing.
type RedisNotifier struct {
	client *redis.Client
	ctx    context.Context
	stream string
}

// NewRedisNotifier creates a new Redis stream notifier
func NewRedisNotifier(ctx context.Context, addr string, db int, stream string) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client: client,
		ctx:    ctx,
		stream: stream,
	}
}

// GetName returns the notifier name
func (n *RedisNotifier) GetName() string {
	return "redis"
}

// Notify publishes the digest to the configured stream
func (n *RedisNotifier) Notify(digest *Digest) error {
	payload, err := json.Marshal(digest)
	if err != nil {
		return pkgerr.NewNotification(n.GetName(), "failed to encode digest", err)
	}

	encoded := base64.StdEncoding.EncodeToString(payload)

	err = n.client.XAdd(n.ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"digest": encoded,
		},
	}).Err()
	if err != nil {
		return pkgerr.NewNotification(n.GetName(), "failed to publish digest", err)
	}

	logger.ForNotifier(n.GetName()).Info().
		Str("stream", n.stream).
		Msg("Digest published")

	return nil
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
