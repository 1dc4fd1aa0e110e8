package entitystore

import (
	"context"
	"errors"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
)

var ErrNotFound = errors.New("entity not found")

// Client is the contract of the backing entity store. Keys are assigned by
// the store on create; entities are immutable afterwards.
type Client interface {
	CreateEntities(ctx context.Context, creates []entity.Create) ([]entity.CreateReceipt, error)
	GetEntityMetaData(ctx context.Context, key string) (*entity.Metadata, error)
	GetStorageValue(ctx context.Context, key string) ([]byte, error)
	QueryEntities(ctx context.Context, predicate string) ([]entity.QueryResult, error)
}
