package annotation

import (
	"context"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

type Writer interface {
	Write(ctx context.Context, record *model.EntityRecord) error
}

type Retriever interface {
	GetByKey(ctx context.Context, key string) (*model.EntityRecord, error)
}

type Querier interface {
	Find(ctx context.Context, pred query.Predicate) ([]model.EntityRecord, error)
}

// Remover finds records whose lease has ended and deletes them.
type Remover interface {
	FindExpired(ctx context.Context, limit int64) ([]model.EntityRecord, error)
	RemoveByKey(ctx context.Context, key string) error
}
