package minio

import (
	"context"
	"errors"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/minio/minio-go/v7"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
)

type Remover struct {
	minioClient *minio.Client
	cfg         *StoreConfig
}

func NewRemover(minioClient *minio.Client, cfg *StoreConfig) *Remover {
	return &Remover{
		minioClient: minioClient,
		cfg:         cfg,
	}
}

// Remove deletes the payload object at location. Removing an object that is
// already gone succeeds, so a sweep interrupted between the payload and the
// record can be repeated.
func (r *Remover) Remove(ctx context.Context, location entity.PayloadLocation) error {
	if location.ObjectName == "" {
		return errors.New("payload location has no object name")
	}

	bucket := location.Bucket
	if bucket == "" {
		bucket = r.cfg.Bucket
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Timeout)*time.Millisecond)
	defer cancel()

	if err := r.minioClient.RemoveObject(ctx, bucket, location.ObjectName, minio.RemoveObjectOptions{}); err != nil {
		logger.Error("failed to remove payload", "bucket", bucket, "object", location.ObjectName, "err", err)

		return err
	}

	return nil
}
