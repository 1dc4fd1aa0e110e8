package database

import (
	"context"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
)

type RecordRemover struct {
	db  *Database
	now func() time.Time
}

func NewRecordRemover(db *Database) *RecordRemover {
	return &RecordRemover{
		db:  db,
		now: time.Now,
	}
}

// FindExpired returns up to limit records whose lease has run out, oldest
// first.
func (r *RecordRemover) FindExpired(ctx context.Context, limit int64) ([]model.EntityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	cursor, err := r.db.collection().Find(ctx,
		bson.M{"expires_at": bson.M{"$lte": r.now()}},
		options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}}).SetLimit(limit),
	)
	if err != nil {
		logger.Error("failed to list expired records", "err", err)

		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]model.EntityRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *RecordRemover) RemoveByKey(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	_, err := r.db.collection().DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		logger.Error("failed to remove entity record", "key", key, "err", err)

		return err
	}

	return nil
}
