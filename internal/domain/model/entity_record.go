package model

import (
	"time"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
)

// EntityRecord is the persisted form of one entity: its annotations plus a
// pointer to the payload object.
type EntityRecord struct {
	Key                string                     `bson:"_id"`
	Payload            entity.PayloadLocation     `bson:"payload"`
	CreatedAt          time.Time                  `bson:"created_at"`
	ExpiresAt          time.Time                  `bson:"expires_at"`
	StringAnnotations  []entity.StringAnnotation  `bson:"string_annotations"`
	NumericAnnotations []entity.NumericAnnotation `bson:"numeric_annotations"`
}

func (r *EntityRecord) Metadata() *entity.Metadata {
	return &entity.Metadata{
		ExpiresAt:          r.ExpiresAt,
		StringAnnotations:  r.StringAnnotations,
		NumericAnnotations: r.NumericAnnotations,
	}
}
