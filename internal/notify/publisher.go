package notify

import (
	"context"
	"encoding/json"
	"time"

	"collateral-loan-ledger/internal/domain/event"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes committed ledger events onto a pub/sub channel for
// external observers. It implements event.Publisher.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e *event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}
