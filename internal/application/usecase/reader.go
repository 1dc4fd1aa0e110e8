package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

// Reader reassembles stored objects from their root entity and chunks.
type Reader struct {
	store entitystore.Client
	appID string
}

func NewReader(store entitystore.Client, cfg ObjectConfig) *Reader {
	return &Reader{
		store: store,
		appID: cfg.AppID,
	}
}

func (r *Reader) Read(ctx context.Context, rootKey string) (*model.Object, error) {
	rootKey = model.NormalizeKey(rootKey)

	meta, err := r.store.GetEntityMetaData(ctx, rootKey)
	if err != nil {
		return nil, fmt.Errorf("root metadata: %w", err)
	}

	typ, _ := meta.String(string(model.FieldType))
	if typ != model.TypeImage && typ != model.TypeThumbnail {
		return nil, ErrNotAnImage
	}
	if app, _ := meta.String(string(model.FieldApp)); app != r.appID {
		return nil, ErrNotAnImage
	}

	obj := &model.Object{
		Key:      rootKey,
		Filename: model.DefaultFilename,
		PartOf:   1,
	}
	if filename, ok := meta.String(string(model.FieldFilename)); ok && filename != "" {
		obj.Filename = filename
	}
	obj.MimeType, _ = meta.String(string(model.FieldMimeType))
	if partOf, ok := meta.Numeric(string(model.FieldPartOf)); ok {
		obj.PartOf = partOf
	}
	if obj.PartOf == 0 {
		return nil, &ReconstructionError{RootKey: rootKey, Reason: "part-of is zero"}
	}

	first, err := r.store.GetStorageValue(ctx, rootKey)
	if err != nil {
		return nil, fmt.Errorf("root payload: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(first)

	for part := uint64(2); part <= obj.PartOf; part++ {
		chunk, err := r.chunk(ctx, rootKey, part)
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
	}
	obj.Data = buf.Bytes()

	if err := verify(rootKey, meta, obj.Data); err != nil {
		return nil, err
	}

	return obj, nil
}

func (r *Reader) chunk(ctx context.Context, rootKey string, part uint64) ([]byte, error) {
	pred := query.AllOf(
		query.Eq(model.FieldParent, rootKey),
		query.Eq(model.FieldType, model.TypeChunk),
		query.Eq(model.FieldApp, r.appID),
		query.EqNum(model.FieldPart, part),
	)

	results, err := r.store.QueryEntities(ctx, pred.String())
	if err != nil {
		return nil, fmt.Errorf("query part %d: %w", part, err)
	}

	switch len(results) {
	case 1:
		return results[0].StorageValue, nil
	case 0:
		return nil, &ReconstructionError{RootKey: rootKey, Part: part, Reason: "missing chunk"}
	default:
		return nil, &ReconstructionError{RootKey: rootKey, Part: part, Matches: len(results), Reason: "duplicate chunk"}
	}
}

// Thumbnails returns the keys of thumbnail entities derived from rootKey.
func (r *Reader) Thumbnails(ctx context.Context, rootKey string) ([]string, error) {
	pred := query.AllOf(
		query.Eq(model.FieldType, model.TypeThumbnail),
		query.Eq(model.FieldApp, r.appID),
		query.Eq(model.FieldParent, model.NormalizeKey(rootKey)),
	)

	results, err := r.store.QueryEntities(ctx, pred.String())
	if err != nil {
		return nil, fmt.Errorf("query thumbnails: %w", err)
	}

	keys := make([]string, 0, len(results))
	for _, res := range results {
		keys = append(keys, res.EntityKey)
	}

	return keys, nil
}

// verify checks the size and content-hash annotations when the root has them.
func verify(rootKey string, meta *entity.Metadata, data []byte) error {
	if size, ok := meta.Numeric(string(model.FieldSize)); ok && size != uint64(len(data)) {
		return &ReconstructionError{
			RootKey: rootKey,
			Reason:  fmt.Sprintf("size mismatch: want %d, got %d", size, len(data)),
		}
	}

	want, ok := meta.String(string(model.FieldContentHash))
	if !ok {
		return nil
	}

	if contentHash(data) != want {
		return &ReconstructionError{RootKey: rootKey, Reason: "content hash mismatch"}
	}

	return nil
}
