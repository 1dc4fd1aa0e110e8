package payload

import (
	"context"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte) (entity.PayloadLocation, error)
}

type Downloader interface {
	Download(ctx context.Context, location entity.PayloadLocation) ([]byte, error)
}

type Remover interface {
	Remove(ctx context.Context, location entity.PayloadLocation) error
}
