package broker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/frecklefacelabs/golembase-images/internal/domain/dto"
)

type Publisher struct {
	redis   *redis.Client
	stream  string
	timeout time.Duration
}

func NewPublisher(client *Client, cfg PublisherConfig) *Publisher {
	return &Publisher{
		redis:   client.redis,
		stream:  client.stream,
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
	}
}

func (p *Publisher) Publish(ctx context.Context, event dto.CommitEvent) error {
	if p.redis == nil {
		return errors.New("redis not initialized")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{bodyField: string(body)},
	}).Err()
}
