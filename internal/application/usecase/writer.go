package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/pkg/chunker"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

type ObjectConfig struct {
	AppID     string `yaml:"app_id"`
	ChunkSize int    `yaml:"chunk_size_in_bytes"`
	BTL       uint64 `yaml:"btl"`
}

var reservedFields = map[string]struct{}{
	string(model.FieldType):        {},
	string(model.FieldApp):         {},
	string(model.FieldFilename):    {},
	string(model.FieldMimeType):    {},
	string(model.FieldParent):      {},
	string(model.FieldPart):        {},
	string(model.FieldPartOf):      {},
	string(model.FieldTag):         {},
	string(model.FieldContentHash): {},
	string(model.FieldSize):        {},
}

// ValidateCustomKey rejects keys the store cannot query and keys used by
// the object layout itself.
func ValidateCustomKey(key string) error {
	if !query.ValidField(key) {
		return fmt.Errorf("%w: %q", ErrInvalidAnnotationKey, key)
	}
	if _, ok := reservedFields[key]; ok {
		return fmt.Errorf("%w: %s", ErrReservedAnnotation, key)
	}

	return nil
}

type WriteRequest struct {
	Blob     []byte
	Filename string
	MimeType string
	Tags     []string
	Custom   []model.Custom
}

// RootHandle identifies a committed root entity. Every later phase of a
// write needs it.
type RootHandle struct {
	Key    string
	PartOf uint64
}

type ThumbnailHandle struct {
	Key  string
	Size int
}

type WriteResult struct {
	Root        RootHandle
	Thumbnail   ThumbnailHandle
	ChunkKeys   []string
	ContentHash string
	Size        int
}

// Writer commits an object as a root entity, a thumbnail and continuation
// chunks. Each commit waits for the previous one; nothing is rolled back
// when a later commit fails.
type Writer struct {
	store     entitystore.Client
	thumbnail *ThumbnailBuilder
	cfg       ObjectConfig
}

func NewWriter(store entitystore.Client, thumbnail *ThumbnailBuilder, cfg ObjectConfig) *Writer {
	return &Writer{
		store:     store,
		thumbnail: thumbnail,
		cfg:       cfg,
	}
}

type writePlan struct {
	chunks      [][]byte
	filename    string
	mimeType    string
	thumbnail   Derived
	contentHash string
	size        int

	// annotations copied onto every entity of the object
	shared        []entity.StringAnnotation
	sharedNumeric []entity.NumericAnnotation
}

func (p *writePlan) partOf() uint64 {
	return uint64(len(p.chunks))
}

func (w *Writer) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	plan, err := w.plan(req)
	if err != nil {
		return WriteResult{}, err
	}

	root, err := w.commitRoot(ctx, plan)
	if err != nil {
		return WriteResult{}, fmt.Errorf("commit root: %w", err)
	}

	thumb, err := w.commitThumbnail(ctx, plan, root)
	if err != nil {
		return WriteResult{Root: root}, &PartialWriteError{
			RootKey:        root.Key,
			Stage:          "thumbnail",
			CommittedParts: 1,
			PartOf:         root.PartOf,
			Err:            err,
		}
	}

	chunkKeys, err := w.commitChunks(ctx, plan, root)
	if err != nil {
		return WriteResult{Root: root, Thumbnail: thumb, ChunkKeys: chunkKeys}, &PartialWriteError{
			RootKey:        root.Key,
			Stage:          fmt.Sprintf("chunk %d", len(chunkKeys)+2),
			CommittedParts: uint64(len(chunkKeys)) + 1,
			PartOf:         root.PartOf,
			Err:            err,
		}
	}

	return WriteResult{
		Root:        root,
		Thumbnail:   thumb,
		ChunkKeys:   chunkKeys,
		ContentHash: plan.contentHash,
		Size:        plan.size,
	}, nil
}

// plan validates the request and derives everything the commits need, so
// that nothing is written for a request that cannot complete locally.
func (w *Writer) plan(req WriteRequest) (*writePlan, error) {
	if len(req.Custom) > model.MaxCustomAnnotations {
		return nil, ErrTooManyCustom
	}

	for _, c := range req.Custom {
		if err := ValidateCustomKey(c.Key); err != nil {
			return nil, err
		}
	}

	chunks, err := chunker.Split(req.Blob, w.cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	thumbnail, err := w.thumbnail.Build(req.Blob)
	if err != nil {
		return nil, err
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = model.DefaultFilename
	}

	plan := &writePlan{
		chunks:      chunks,
		filename:    filename,
		mimeType:    req.MimeType,
		thumbnail:   thumbnail,
		contentHash: contentHash(req.Blob),
		size:        len(req.Blob),
	}

	for _, tag := range req.Tags {
		plan.shared = append(plan.shared, entity.StringAnnotation{Key: string(model.FieldTag), Value: tag})
	}

	for _, c := range req.Custom {
		if c.Numeric {
			plan.sharedNumeric = append(plan.sharedNumeric, entity.NumericAnnotation{Key: c.Key, Value: c.Number})

			continue
		}
		plan.shared = append(plan.shared, entity.StringAnnotation{Key: c.Key, Value: c.Value})
	}

	return plan, nil
}

func (w *Writer) commitRoot(ctx context.Context, plan *writePlan) (RootHandle, error) {
	create := entity.Create{
		Data: plan.chunks[0],
		BTL:  w.cfg.BTL,
		StringAnnotations: w.strings(model.TypeImage, "",
			entity.StringAnnotation{Key: string(model.FieldFilename), Value: plan.filename},
			entity.StringAnnotation{Key: string(model.FieldMimeType), Value: plan.mimeType},
			entity.StringAnnotation{Key: string(model.FieldContentHash), Value: plan.contentHash},
		),
		NumericAnnotations: []entity.NumericAnnotation{
			{Key: string(model.FieldPart), Value: 1},
			{Key: string(model.FieldPartOf), Value: plan.partOf()},
			{Key: string(model.FieldSize), Value: uint64(plan.size)},
		},
	}
	create.StringAnnotations = append(create.StringAnnotations, plan.shared...)
	create.NumericAnnotations = append(create.NumericAnnotations, plan.sharedNumeric...)

	key, err := w.createOne(ctx, create)
	if err != nil {
		return RootHandle{}, err
	}

	return RootHandle{Key: key, PartOf: plan.partOf()}, nil
}

func (w *Writer) commitThumbnail(ctx context.Context, plan *writePlan, root RootHandle) (ThumbnailHandle, error) {
	create := entity.Create{
		Data: plan.thumbnail.Data,
		BTL:  w.cfg.BTL,
		StringAnnotations: w.strings(model.TypeThumbnail, root.Key,
			entity.StringAnnotation{Key: string(model.FieldFilename), Value: model.ThumbnailPrefix + plan.filename},
			entity.StringAnnotation{Key: string(model.FieldMimeType), Value: plan.thumbnail.MimeType},
		),
	}
	create.StringAnnotations = append(create.StringAnnotations, plan.shared...)
	create.NumericAnnotations = append(create.NumericAnnotations, plan.sharedNumeric...)

	key, err := w.createOne(ctx, create)
	if err != nil {
		return ThumbnailHandle{}, err
	}

	return ThumbnailHandle{Key: key, Size: len(plan.thumbnail.Data)}, nil
}

// commitChunks writes parts 2..N and returns the keys committed so far,
// also when it stops early.
func (w *Writer) commitChunks(ctx context.Context, plan *writePlan, root RootHandle) ([]string, error) {
	keys := make([]string, 0, len(plan.chunks)-1)
	for i := 1; i < len(plan.chunks); i++ {
		part := uint64(i + 1)
		create := entity.Create{
			Data: plan.chunks[i],
			BTL:  w.cfg.BTL,
			StringAnnotations: w.strings(model.TypeChunk, root.Key,
				entity.StringAnnotation{Key: string(model.FieldFilename), Value: plan.filename},
				entity.StringAnnotation{Key: string(model.FieldMimeType), Value: plan.mimeType},
			),
			NumericAnnotations: []entity.NumericAnnotation{
				{Key: string(model.FieldPart), Value: part},
				{Key: string(model.FieldPartOf), Value: root.PartOf},
			},
		}
		create.StringAnnotations = append(create.StringAnnotations, plan.shared...)
		create.NumericAnnotations = append(create.NumericAnnotations, plan.sharedNumeric...)

		key, err := w.createOne(ctx, create)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}

func (w *Writer) strings(typ, parent string, extra ...entity.StringAnnotation) []entity.StringAnnotation {
	out := []entity.StringAnnotation{
		{Key: string(model.FieldType), Value: typ},
		{Key: string(model.FieldApp), Value: w.cfg.AppID},
	}
	if parent != "" {
		out = append(out, entity.StringAnnotation{Key: string(model.FieldParent), Value: parent})
	}

	return append(out, extra...)
}

func (w *Writer) createOne(ctx context.Context, create entity.Create) (string, error) {
	receipts, err := w.store.CreateEntities(ctx, []entity.Create{create})
	if err != nil {
		return "", err
	}
	if len(receipts) != 1 {
		return "", fmt.Errorf("store returned %d receipts for 1 create", len(receipts))
	}

	return receipts[0].EntityKey, nil
}

// contentHash is the hex BLAKE3-256 digest stored in the content-hash
// annotation.
func contentHash(data []byte) string {
	sum := blake3.Sum256(data)

	return hex.EncodeToString(sum[:])
}
