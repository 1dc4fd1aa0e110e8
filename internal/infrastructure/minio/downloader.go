package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/minio/minio-go/v7"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
)

type Downloader struct {
	minioClient *minio.Client
	cfg         *StoreConfig
}

func NewDownloader(minioClient *minio.Client, cfg *StoreConfig) *Downloader {
	return &Downloader{
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (d *Downloader) Download(ctx context.Context, location entity.PayloadLocation) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.Timeout)*time.Millisecond)
	defer cancel()

	obj, err := d.minioClient.GetObject(ctx, location.Bucket, location.ObjectName, minio.GetObjectOptions{})
	if err != nil {
		logger.Error("failed to open payload", "object", location.ObjectName, "err", err)

		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", location.ObjectName, err)
	}

	if int64(len(data)) != location.Size {
		return nil, fmt.Errorf("payload %s: read %d bytes, expected %d", location.ObjectName, len(data), location.Size)
	}

	return data, nil
}
