package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

// Index answers discovery queries over the objects of one application.
type Index struct {
	store entitystore.Client
	appID string
}

func NewIndex(store entitystore.Client, cfg ObjectConfig) *Index {
	return &Index{
		store: store,
		appID: cfg.AppID,
	}
}

// FindByTag returns the root keys of every image carrying tag.
func (i *Index) FindByTag(ctx context.Context, tag string) ([]string, error) {
	return i.keys(ctx, query.AllOf(
		query.Eq(model.FieldType, model.TypeImage),
		query.Eq(model.FieldApp, i.appID),
		query.Eq(model.FieldTag, tag),
	))
}

// FindByCustom matches a custom annotation. Values that parse as unsigned
// integers are matched against numeric annotations.
func (i *Index) FindByCustom(ctx context.Context, key, value string) ([]string, error) {
	if !query.ValidField(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAnnotationKey, key)
	}
	custom := model.NewCustom(key, value)

	var term query.Predicate = query.Eq(query.Field(custom.Key), custom.Value)
	if custom.Numeric {
		term = query.EqNum(query.Field(custom.Key), custom.Number)
	}

	return i.keys(ctx, query.AllOf(
		query.Eq(model.FieldType, model.TypeImage),
		query.Eq(model.FieldApp, i.appID),
		term,
	))
}

func (i *Index) ListThumbnails(ctx context.Context) ([]string, error) {
	return i.keys(ctx, query.AllOf(
		query.Eq(model.FieldType, model.TypeThumbnail),
		query.Eq(model.FieldApp, i.appID),
	))
}

// FindParent returns the root key a thumbnail was derived from.
func (i *Index) FindParent(ctx context.Context, thumbnailKey string) (string, error) {
	meta, err := i.store.GetEntityMetaData(ctx, model.NormalizeKey(thumbnailKey))
	if err != nil {
		if errors.Is(err, entitystore.ErrNotFound) {
			return "", ErrParentNotFound
		}

		return "", err
	}

	parent, ok := meta.String(string(model.FieldParent))
	if !ok || parent == "" {
		return "", ErrParentNotFound
	}

	return parent, nil
}

func (i *Index) keys(ctx context.Context, pred query.Predicate) ([]string, error) {
	results, err := i.store.QueryEntities(ctx, pred.String())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", pred, err)
	}

	keys := make([]string, 0, len(results))
	for _, r := range results {
		keys = append(keys, r.EntityKey)
	}

	return keys, nil
}
