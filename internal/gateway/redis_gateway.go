package gateway

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/staffclock/attendance-service/internal/domain"
)

// RedisStreamGateway hands batches to a push relay through a Redis stream.
type RedisStreamGateway struct {
	client *redis.Client
	stream string
}

// NewRedisStreamGateway builds a gateway that appends to stream.
func NewRedisStreamGateway(client *redis.Client, stream string) *RedisStreamGateway {
	return &RedisStreamGateway{client: client, stream: stream}
}

// SendToMany appends a single stream entry carrying every token.
func (g *RedisStreamGateway) SendToMany(ctx context.Context, tokens []string, notification domain.Notification) error {
	encoded, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return g.client.XAdd(ctx, &redis.XAddArgs{
		Stream: g.stream,
		Values: map[string]any{
			"tokens": string(encoded),
			"title":  notification.Title,
			"body":   notification.Body,
		},
	}).Err()
}
