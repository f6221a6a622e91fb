package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"vaxtrack/internal/coldchain/models"
	"vaxtrack/pkg/platform/sentinel"
)

// Redis is a Feed over Redis pub/sub. Messages are JSON encoded readings.
type Redis struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedis(client *redis.Client, channel string, logger *slog.Logger) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, channel: channel, logger: logger}
}

func (f *Redis) Publish(ctx context.Context, r *models.Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish reading: %w", err)
	}
	return nil
}

// Subscribe confirms the subscription before returning so a dead server
// surfaces as an error rather than an immediately closed channel.
func (f *Redis) Subscribe(ctx context.Context) (<-chan models.Reading, error) {
	sub := f.client.Subscribe(ctx, f.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w: %w", f.channel, sentinel.ErrUnavailable, err)
	}

	out := make(chan models.Reading)
	go func() {
		defer close(out)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var r models.Reading
				if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
					f.logger.WarnContext(ctx, "dropping malformed reading", "channel", f.channel, "error", err)
					continue
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
