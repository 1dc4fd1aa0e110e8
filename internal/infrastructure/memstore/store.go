// Package memstore is an in-process entity store. It honours the same
// predicate language and lease semantics as the persistent backend and is
// used for local development and tests.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/pkg/entitykey"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

type record struct {
	data     []byte
	metadata entity.Metadata
}

type Store struct {
	mu        sync.RWMutex
	entities  map[string]*record
	order     []string
	blockTime time.Duration
	now       func() time.Time
}

func New(blockTime time.Duration) *Store {
	return &Store{
		entities:  make(map[string]*record),
		blockTime: blockTime,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for lease expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

func (s *Store) CreateEntities(ctx context.Context, creates []entity.Create) ([]entity.CreateReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, c := range creates {
		if c.BTL == 0 {
			return nil, fmt.Errorf("create %d: btl must be positive", i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	receipts := make([]entity.CreateReceipt, 0, len(creates))
	for _, c := range creates {
		key := entitykey.New(c.Data)
		expiresAt := s.now().Add(time.Duration(c.BTL) * s.blockTime)

		s.entities[key] = &record{
			data: bytes.Clone(c.Data),
			metadata: entity.Metadata{
				ExpiresAt:          expiresAt,
				StringAnnotations:  slices.Clone(c.StringAnnotations),
				NumericAnnotations: slices.Clone(c.NumericAnnotations),
			},
		}
		s.order = append(s.order, key)

		receipts = append(receipts, entity.CreateReceipt{EntityKey: key, ExpiresAt: expiresAt})
	}

	return receipts, nil
}

func (s *Store) GetEntityMetaData(ctx context.Context, key string) (*entity.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.live(key)
	if !ok {
		return nil, entitystore.ErrNotFound
	}

	return &entity.Metadata{
		ExpiresAt:          rec.metadata.ExpiresAt,
		StringAnnotations:  slices.Clone(rec.metadata.StringAnnotations),
		NumericAnnotations: slices.Clone(rec.metadata.NumericAnnotations),
	}, nil
}

func (s *Store) GetStorageValue(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.live(key)
	if !ok {
		return nil, entitystore.ErrNotFound
	}

	return bytes.Clone(rec.data), nil
}

func (s *Store) QueryEntities(ctx context.Context, predicate string) ([]entity.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pred, err := query.Parse(predicate)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]entity.QueryResult, 0)
	for _, key := range s.order {
		rec, ok := s.live(key)
		if !ok || !pred.Match(&rec.metadata) {
			continue
		}
		results = append(results, entity.QueryResult{
			EntityKey:    key,
			StorageValue: bytes.Clone(rec.data),
		})
	}

	return results, nil
}

// Len reports the number of live entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, key := range s.order {
		if _, ok := s.live(key); ok {
			n++
		}
	}

	return n
}

// live must be called with mu held.
func (s *Store) live(key string) (*record, bool) {
	rec, ok := s.entities[key]
	if !ok || !s.now().Before(rec.metadata.ExpiresAt) {
		return nil, false
	}

	return rec, true
}
