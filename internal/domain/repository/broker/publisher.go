package broker

import (
	"context"

	"github.com/frecklefacelabs/golembase-images/internal/domain/dto"
)

type Publisher interface {
	Publish(ctx context.Context, event dto.CommitEvent) error
}
