package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EntityCollection = "entity"

type Database struct {
	DBName           string
	QueryTimeout     time.Duration
	ExpiredRetention time.Duration
	Client           *mongo.Client
}

func Connect(cfg Config) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectionTimeout)*time.Millisecond)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(time.Duration(cfg.ConnectionTimeout) * time.Millisecond).
		SetBSONOptions(&options.BSONOptions{
			NilSliceAsEmpty: true,
		})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	qCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.QueryTimeout)*time.Millisecond)
	defer cancel()

	if err := client.Ping(qCtx, nil); err != nil {
		return nil, err
	}

	db := &Database{
		Client:           client,
		DBName:           cfg.DBName,
		QueryTimeout:     time.Duration(cfg.QueryTimeout) * time.Millisecond,
		ExpiredRetention: time.Duration(cfg.ExpiredRetention) * time.Second,
	}

	if err := initEntityCollection(db); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *Database) collection() *mongo.Collection {
	return db.Client.Database(db.DBName).Collection(EntityCollection)
}

func annotationSchema(valueType string) bson.M {
	return bson.M{
		"bsonType": "array",
		"items": bson.M{
			"bsonType": "object",
			"required": []string{"key", "value"},
			"properties": bson.M{
				"key":   bson.M{"bsonType": "string"},
				"value": bson.M{"bsonType": valueType},
			},
		},
	}
}

func initEntityCollection(db *Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.QueryTimeout)
	defer cancel()

	collections, err := db.Client.Database(db.DBName).ListCollectionNames(ctx, bson.M{"name": EntityCollection})
	if err != nil {
		return err
	}
	if len(collections) > 0 {
		return nil // already exists
	}

	collOpts := options.CreateCollection().SetValidator(bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "payload", "created_at", "expires_at"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType":    "string",
					"pattern":     "^0x[0-9a-f]{64}$",
					"description": "must be a 0x prefixed keccak-256 hex digest",
				},
				"payload": bson.M{
					"bsonType": "object",
					"required": []string{"bucket", "object_name", "size"},
					"properties": bson.M{
						"bucket":      bson.M{"bsonType": "string"},
						"object_name": bson.M{"bsonType": "string"},
						"size":        bson.M{"bsonType": []string{"int", "long"}},
					},
				},
				"created_at":          bson.M{"bsonType": "date"},
				"expires_at":          bson.M{"bsonType": "date"},
				"string_annotations":  annotationSchema("string"),
				"numeric_annotations": annotationSchema("long"),
			},
		},
	})

	err = db.Client.Database(db.DBName).CreateCollection(ctx, EntityCollection, collOpts)
	if err != nil {
		return err
	}

	_, err = db.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(int32(db.ExpiredRetention / time.Second)),
		},
		{Keys: bson.D{{Key: "string_annotations.key", Value: 1}, {Key: "string_annotations.value", Value: 1}}},
		{Keys: bson.D{{Key: "numeric_annotations.key", Value: 1}, {Key: "numeric_annotations.value", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})

	return err
}

func (db *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	return db.Client.Ping(ctx, nil)
}

func (db *Database) Stop() error {
	if err := db.Client.Disconnect(context.Background()); err != nil {
		return err
	}

	return nil
}
