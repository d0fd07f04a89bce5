// Package trigger lets operators request an extra cycle by publishing to a Redis channel.
package trigger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Target accepts manual cycle requests.
type Target interface {
	Trigger(reason string) bool
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type Listener struct {
	client  *redis.Client
	channel string
	target  Target
	logger  *slog.Logger
}

func NewListener(client *redis.Client, channel string, target Target, logger *slog.Logger) *Listener {
	return &Listener{
		client:  client,
		channel: channel,
		target:  target,
		logger:  logger.With("component", "trigger", "channel", channel),
	}
}

// Listen forwards every message on the channel to the target until ctx is cancelled.
func (l *Listener) Listen(ctx context.Context) error {
	sub := l.client.Subscribe(ctx, l.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", l.channel, err)
	}
	l.logger.Info("listening for manual triggers")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			queued := l.target.Trigger("manual")
			l.logger.Info("manual trigger received", "payload", msg.Payload, "queued", queued)
		}
	}
}

// Publish requests a cycle and returns how many listeners received the request.
func Publish(ctx context.Context, client *redis.Client, channel, payload string) (int64, error) {
	n, err := client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("publish trigger: %w", err)
	}
	return n, nil
}
