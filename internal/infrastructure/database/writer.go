package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
)

type RecordWriter struct {
	db *Database
}

func NewRecordWriter(db *Database) *RecordWriter {
	return &RecordWriter{db: db}
}

// Write inserts a new entity record. Records are immutable, so an existing
// key is reported as an error instead of being replaced.
func (w *RecordWriter) Write(ctx context.Context, record *model.EntityRecord) error {
	ctx, cancel := context.WithTimeout(ctx, w.db.QueryTimeout)
	defer cancel()

	if _, err := w.db.collection().InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("entity %s already exists: %w", record.Key, err)
		}

		return fmt.Errorf("insert entity %s: %w", record.Key, err)
	}

	return nil
}
