package minio

import (
	"bytes"
	"context"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
)

type Uploader struct {
	minioClient *minio.Client
	cfg         *StoreConfig
}

func NewUploader(minioClient *minio.Client, cfg *StoreConfig) *Uploader {
	return &Uploader{
		minioClient: minioClient,
		cfg:         cfg,
	}
}

// Upload stores data under objectName in the configured bucket.
func (u *Uploader) Upload(ctx context.Context, objectName string, data []byte) (entity.PayloadLocation, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(u.cfg.Timeout)*time.Millisecond)
	defer cancel()

	info, err := u.minioClient.PutObject(ctx, u.cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: mimetype.Detect(data).String(),
		})
	if err != nil {
		logger.Error("failed to upload payload", "object", objectName, "err", err)

		return entity.PayloadLocation{}, err
	}

	return entity.PayloadLocation{
		Bucket:     info.Bucket,
		ObjectName: info.Key,
		Size:       info.Size,
	}, nil
}
