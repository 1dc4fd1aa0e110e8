package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

// matchNone is a filter no stored record satisfies.
var matchNone = bson.M{"_id": bson.M{"$exists": false}}

type RecordQuerier struct {
	db  *Database
	now func() time.Time
}

func NewRecordQuerier(db *Database) *RecordQuerier {
	return &RecordQuerier{
		db:  db,
		now: time.Now,
	}
}

// Find returns the live records matching pred in creation order.
func (q *RecordQuerier) Find(ctx context.Context, pred query.Predicate) ([]model.EntityRecord, error) {
	filter, err := Filter(pred)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, q.db.QueryTimeout)
	defer cancel()

	cursor, err := q.db.collection().Find(ctx,
		bson.M{"$and": bson.A{
			bson.M{"expires_at": bson.M{"$gt": q.now()}},
			filter,
		}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		logger.Error("failed to query entity records", "predicate", pred.String(), "err", err)

		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]model.EntityRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// Filter translates a predicate into a mongo filter over the annotation
// arrays of an entity record.
func Filter(pred query.Predicate) (bson.M, error) {
	switch p := pred.(type) {
	case query.Equal:
		return bson.M{"string_annotations": bson.M{"$elemMatch": bson.M{
			"key":   string(p.Field),
			"value": p.Value,
		}}}, nil

	case query.EqualNum:
		if p.Value > math.MaxInt64 {
			return matchNone, nil
		}

		return bson.M{"numeric_annotations": bson.M{"$elemMatch": bson.M{
			"key":   string(p.Field),
			"value": int64(p.Value),
		}}}, nil

	case query.And:
		if len(p.Terms) == 0 {
			return bson.M{}, nil
		}
		terms, err := filters(p.Terms)
		if err != nil {
			return nil, err
		}

		return bson.M{"$and": terms}, nil

	case query.Or:
		if len(p.Terms) == 0 {
			return matchNone, nil
		}
		terms, err := filters(p.Terms)
		if err != nil {
			return nil, err
		}

		return bson.M{"$or": terms}, nil
	}

	return nil, fmt.Errorf("unsupported predicate %T", pred)
}

func filters(preds []query.Predicate) (bson.A, error) {
	out := make(bson.A, 0, len(preds))
	for _, p := range preds {
		f, err := Filter(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, nil
}
