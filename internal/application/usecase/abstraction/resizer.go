package abstraction

import (
	"context"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
)

type Resizer interface {
	Resize(ctx context.Context, rootKey string, width, height *int) (usecase.Derived, error)
}
