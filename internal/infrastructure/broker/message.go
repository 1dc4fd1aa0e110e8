package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/frecklefacelabs/golembase-images/internal/domain/dto"
)

const bodyField = "body"

type RedisMessage struct {
	stream      string
	group       string
	id          string
	body        string
	redisClient *redis.Client
}

func (m *RedisMessage) ID() string {
	return m.id
}

func (m *RedisMessage) Event() (dto.CommitEvent, error) {
	var event dto.CommitEvent
	err := json.Unmarshal([]byte(m.body), &event)

	return event, err
}

func (m *RedisMessage) Ack() error {
	return m.redisClient.XAck(context.Background(), m.stream, m.group, m.id).Err()
}
