package abstraction

import (
	"context"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
)

// Reader reconstructs a stored object from its root key.
type Reader interface {
	Read(ctx context.Context, rootKey string) (*model.Object, error)
}
