// Package entitystore implements the entity store contract on top of a
// MongoDB annotation index and MinIO payload objects.
package entitystore

import (
	"context"
	"fmt"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/annotation"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/payload"
	"github.com/frecklefacelabs/golembase-images/pkg/entitykey"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

type Config struct {
	Driver          string `yaml:"driver"`
	BlockTimeInMS   int64  `yaml:"block_time_in_ms"`
	SweepIntervalMS int64  `yaml:"sweep_interval_in_ms"`
	SweepBatch      int64  `yaml:"sweep_batch"`
}

func (c Config) BlockTime() time.Duration {
	return time.Duration(c.BlockTimeInMS) * time.Millisecond
}

type Payloads struct {
	Uploader   payload.Uploader
	Downloader payload.Downloader
	Remover    payload.Remover
}

type Records struct {
	Writer    annotation.Writer
	Retriever annotation.Retriever
	Querier   annotation.Querier
}

type Store struct {
	payloads  Payloads
	records   Records
	blockTime time.Duration
	now       func() time.Time
}

func New(payloads Payloads, records Records, blockTime time.Duration) *Store {
	return &Store{
		payloads:  payloads,
		records:   records,
		blockTime: blockTime,
		now:       time.Now,
	}
}

// CreateEntities stores each entity's payload first and its record second.
// A payload whose record could not be written is removed again.
func (s *Store) CreateEntities(ctx context.Context, creates []entity.Create) ([]entity.CreateReceipt, error) {
	for i, c := range creates {
		if c.BTL == 0 {
			return nil, fmt.Errorf("create %d: btl must be positive", i)
		}
	}

	receipts := make([]entity.CreateReceipt, 0, len(creates))
	for i, c := range creates {
		receipt, err := s.create(ctx, c)
		if err != nil {
			return receipts, fmt.Errorf("create %d: %w", i, err)
		}
		receipts = append(receipts, receipt)
	}

	return receipts, nil
}

func (s *Store) create(ctx context.Context, c entity.Create) (entity.CreateReceipt, error) {
	key := entitykey.New(c.Data)

	loc, err := s.payloads.Uploader.Upload(ctx, key, c.Data)
	if err != nil {
		return entity.CreateReceipt{}, fmt.Errorf("upload payload: %w", err)
	}

	now := s.now()
	record := &model.EntityRecord{
		Key:                key,
		Payload:            loc,
		CreatedAt:          now,
		ExpiresAt:          now.Add(time.Duration(c.BTL) * s.blockTime),
		StringAnnotations:  c.StringAnnotations,
		NumericAnnotations: c.NumericAnnotations,
	}

	if err := s.records.Writer.Write(ctx, record); err != nil {
		if rmErr := s.payloads.Remover.Remove(ctx, loc); rmErr != nil {
			logger.Error("failed to remove payload after record write failed", "key", key, "err", rmErr)
		}

		return entity.CreateReceipt{}, fmt.Errorf("write record: %w", err)
	}

	return entity.CreateReceipt{EntityKey: key, ExpiresAt: record.ExpiresAt}, nil
}

func (s *Store) GetEntityMetaData(ctx context.Context, key string) (*entity.Metadata, error) {
	record, err := s.records.Retriever.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	return record.Metadata(), nil
}

func (s *Store) GetStorageValue(ctx context.Context, key string) ([]byte, error) {
	record, err := s.records.Retriever.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	return s.payloads.Downloader.Download(ctx, record.Payload)
}

func (s *Store) QueryEntities(ctx context.Context, predicate string) ([]entity.QueryResult, error) {
	pred, err := query.Parse(predicate)
	if err != nil {
		return nil, err
	}

	records, err := s.records.Querier.Find(ctx, pred)
	if err != nil {
		return nil, err
	}

	results := make([]entity.QueryResult, 0, len(records))
	for _, r := range records {
		data, err := s.payloads.Downloader.Download(ctx, r.Payload)
		if err != nil {
			return nil, fmt.Errorf("payload of %s: %w", r.Key, err)
		}
		results = append(results, entity.QueryResult{EntityKey: r.Key, StorageValue: data})
	}

	return results, nil
}
