package minio

import (
	"context"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Client struct {
	MinioClient *minio.Client
}

func New(cfg *ClientConfig) (*Client, error) {
	logger.Info("connecting to minio", "endpoint", cfg.Endpoint)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:           credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:          cfg.Secure,
		TrailingHeaders: true,
	})
	if err != nil {
		logger.Error("failed to initialize MinIO client", "err", err)

		return nil, err
	}

	return &Client{
		MinioClient: client,
	}, nil
}

// EnsureBucket creates the payload bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context, cfg *StoreConfig) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Timeout)*time.Millisecond)
	defer cancel()

	exists, err := c.MinioClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	logger.Info("creating payload bucket", "bucket", cfg.Bucket)

	return c.MinioClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
}

func (c *Client) Ping(ctx context.Context, bucket string) error {
	_, err := c.MinioClient.BucketExists(ctx, bucket)

	return err
}
