package database

import (
	"context"
	"errors"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
)

type RecordRetriever struct {
	db  *Database
	now func() time.Time
}

func NewRecordRetriever(db *Database) *RecordRetriever {
	return &RecordRetriever{
		db:  db,
		now: time.Now,
	}
}

// GetByKey returns a live record. Records past their expiry are reported as
// missing even while the TTL monitor has not removed them yet.
func (r *RecordRetriever) GetByKey(ctx context.Context, key string) (*model.EntityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	var record model.EntityRecord
	err := r.db.collection().FindOne(ctx, bson.M{
		"_id":        key,
		"expires_at": bson.M{"$gt": r.now()},
	}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entitystore.ErrNotFound
		}
		logger.Error("failed to retrieve entity record", "key", key, "err", err)

		return nil, err
	}

	return &record, nil
}
