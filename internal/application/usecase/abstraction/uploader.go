package abstraction

import (
	"context"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
	"github.com/frecklefacelabs/golembase-images/internal/domain/dto"
)

type Uploader interface {
	Upload(ctx context.Context, req usecase.UploadRequest) (dto.UploadResponse, int, error)
}
