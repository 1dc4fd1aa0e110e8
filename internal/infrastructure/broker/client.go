package broker

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Client owns the redis connection shared by the commit event publisher and
// receiver. The consumer group is created together with the stream.
type Client struct {
	redis  *redis.Client
	stream string
	group  string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URI)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	err = rdb.XGroupCreateMkStream(ctx, cfg.StreamName, cfg.GroupName, "0").Err()
	if err != nil && !isBusyGroup(err) {
		_ = rdb.Close()

		return nil, err
	}

	return &Client{
		redis:  rdb,
		stream: cfg.StreamName,
		group:  cfg.GroupName,
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redis.Close()
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
