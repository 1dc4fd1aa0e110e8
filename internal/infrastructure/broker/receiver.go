package broker

import (
	"context"
	"errors"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/redis/go-redis/v9"

	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/broker"
)

// newEntries is the stream id asking the group for entries never delivered
// to any consumer.
const newEntries = ">"

type Receiver struct {
	redis     *redis.Client
	stream    string
	group     string
	blockTime time.Duration
	batch     int64
}

func NewReceiver(client *Client) *Receiver {
	return &Receiver{
		redis:     client.redis,
		stream:    client.stream,
		group:     client.group,
		blockTime: 5 * time.Second,
		batch:     10,
	}
}

// Messages streams commit events for consumerName. Entries delivered to the
// same consumer earlier but never acknowledged are replayed before new ones.
// The channel is closed when ctx is done.
func (r *Receiver) Messages(ctx context.Context, consumerName string) (<-chan broker.Message, error) {
	if r.redis == nil {
		return nil, errors.New("redis not initialized")
	}

	out := make(chan broker.Message)
	go func() {
		defer close(out)

		cursor := "0"
		for ctx.Err() == nil {
			next, ok := r.read(ctx, out, consumerName, cursor)
			if !ok {
				continue
			}
			cursor = next
		}

		logger.Info("commit event receiver stopped", "consumer", consumerName)
	}()

	return out, nil
}

// read fetches one batch starting after cursor and returns the cursor for the
// following call. Once the pending backlog is drained the cursor moves to new
// entries for good.
func (r *Receiver) read(ctx context.Context, out chan<- broker.Message, consumer, cursor string) (string, bool) {
	args := &redis.XReadGroupArgs{
		Group:    r.group,
		Consumer: consumer,
		Streams:  []string{r.stream, cursor},
		Count:    r.batch,
		Block:    -1,
	}
	if cursor == newEntries {
		args.Block = r.blockTime
	}

	streams, err := r.redis.XReadGroup(ctx, args).Result()
	if errors.Is(err, redis.Nil) && cursor != newEntries {
		return newEntries, true
	}
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Error("failed to read commit events", "stream", r.stream, "consumer", consumer, "err", err)
			sleep(ctx, time.Second)
		}

		return cursor, false
	}

	delivered := 0
	for _, s := range streams {
		for _, entry := range s.Messages {
			select {
			case out <- r.message(entry):
			case <-ctx.Done():
				return cursor, false
			}
			delivered++
			if cursor != newEntries {
				cursor = entry.ID
			}
		}
	}

	if cursor != newEntries && delivered == 0 {
		logger.Info("pending commit events replayed", "consumer", consumer)

		return newEntries, true
	}

	return cursor, true
}

// message wraps a stream entry. An entry without a string body is still
// delivered so the consumer can decide to acknowledge it.
func (r *Receiver) message(entry redis.XMessage) *RedisMessage {
	body, ok := entry.Values[bodyField].(string)
	if !ok {
		logger.Error("commit event without body", "id", entry.ID)
	}

	return &RedisMessage{
		stream:      r.stream,
		group:       r.group,
		id:          entry.ID,
		body:        body,
		redisClient: r.redis,
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
