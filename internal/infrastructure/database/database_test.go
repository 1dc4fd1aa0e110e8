package database

import (
	"context"
	"fmt"
	"math"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/pkg/entitykey"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

const (
	TestUsername = "testuser"
	TestPassword = "testpass"
	TestDBName   = "testdb"
)

func setupMongo(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		Env: map[string]string{
			"MONGO_INITDB_ROOT_USERNAME": TestUsername,
			"MONGO_INITDB_ROOT_PASSWORD": TestPassword,
		},
		WaitingFor: wait.ForLog("Waiting for connections").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatal("Failed to start MongoDB container:", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal("Failed to get container host:", err)
	}

	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatal("Failed to get mapped port:", err)
	}

	db, err := Connect(Config{
		URI:               fmt.Sprintf("mongodb://%s:%s@%s", TestUsername, TestPassword, net.JoinHostPort(host, port.Port())),
		DBName:            TestDBName,
		ConnectionTimeout: 30000,
		QueryTimeout:      30000,
		ExpiredRetention:  3600,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Stop() })

	return db
}

func record(data string, expiresAt time.Time, strs []entity.StringAnnotation, nums []entity.NumericAnnotation) *model.EntityRecord {
	key := entitykey.New([]byte(data))

	return &model.EntityRecord{
		Key:                key,
		Payload:            entity.PayloadLocation{Bucket: "entities", ObjectName: key, Size: int64(len(data))},
		CreatedAt:          time.Now(),
		ExpiresAt:          expiresAt,
		StringAnnotations:  strs,
		NumericAnnotations: nums,
	}
}

func TestRecords(t *testing.T) {
	t.Parallel()

	db := setupMongo(t)
	ctx := context.Background()
	writer := NewRecordWriter(db)
	retriever := NewRecordRetriever(db)
	querier := NewRecordQuerier(db)
	remover := NewRecordRemover(db)

	future := time.Now().Add(time.Hour)
	root := record("root", future,
		[]entity.StringAnnotation{{Key: "type", Value: "image"}, {Key: "key", Value: "cat"}, {Key: "key", Value: "pet"}},
		[]entity.NumericAnnotation{{Key: "part", Value: 1}, {Key: "part-of", Value: 2}})
	chunk := record("chunk", future,
		[]entity.StringAnnotation{{Key: "type", Value: "image_chunk"}, {Key: "parent", Value: root.Key}},
		[]entity.NumericAnnotation{{Key: "part", Value: 2}, {Key: "part-of", Value: 2}})
	expired := record("expired", time.Now().Add(-time.Minute),
		[]entity.StringAnnotation{{Key: "type", Value: "image"}, {Key: "key", Value: "cat"}}, nil)

	for _, r := range []*model.EntityRecord{root, chunk, expired} {
		require.NoError(t, writer.Write(ctx, r))
	}

	t.Run("validator rejects malformed keys", func(t *testing.T) {
		bad := record("bad", future, nil, nil)
		bad.Key = "not-a-key"
		assert.Error(t, writer.Write(ctx, bad))
	})

	t.Run("records are immutable", func(t *testing.T) {
		assert.Error(t, writer.Write(ctx, root))
	})

	t.Run("get by key", func(t *testing.T) {
		got, err := retriever.GetByKey(ctx, root.Key)
		require.NoError(t, err)
		assert.Equal(t, root.StringAnnotations, got.StringAnnotations)
		assert.Equal(t, root.NumericAnnotations, got.NumericAnnotations)
		assert.Equal(t, root.Payload, got.Payload)

		_, err = retriever.GetByKey(ctx, expired.Key)
		assert.ErrorIs(t, err, entitystore.ErrNotFound)

		_, err = retriever.GetByKey(ctx, entitykey.New([]byte("missing")))
		assert.ErrorIs(t, err, entitystore.ErrNotFound)
	})

	t.Run("find", func(t *testing.T) {
		tests := []struct {
			name     string
			pred     query.Predicate
			expected []string
		}{
			{"tag", query.AllOf(query.Eq("type", "image"), query.Eq("key", "cat")), []string{root.Key}},
			{"second tag", query.Eq("key", "pet"), []string{root.Key}},
			{"chunk by parent and part", query.AllOf(
				query.Eq("parent", root.Key), query.Eq("type", "image_chunk"), query.EqNum("part", 2),
			), []string{chunk.Key}},
			{"wrong part", query.AllOf(query.Eq("parent", root.Key), query.EqNum("part", 3)), []string{}},
			{"key and value must share an element", query.Eq("type", "cat"), []string{}},
			{"or", query.AnyOf(query.EqNum("part", 1), query.EqNum("part", 2)), []string{root.Key, chunk.Key}},
			{"empty or", query.AnyOf(), []string{}},
		}

		for _, tt := range tests {
			records, err := querier.Find(ctx, tt.pred)
			require.NoError(t, err, tt.name)

			keys := make([]string, 0, len(records))
			for _, r := range records {
				keys = append(keys, r.Key)
			}
			assert.ElementsMatch(t, tt.expected, keys, tt.name)
		}
	})

	t.Run("expired records", func(t *testing.T) {
		records, err := remover.FindExpired(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, expired.Key, records[0].Key)

		require.NoError(t, remover.RemoveByKey(ctx, expired.Key))

		records, err = remover.FindExpired(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pred     query.Predicate
		expected bson.M
	}{
		{
			name: "string",
			pred: query.Eq("type", "image"),
			expected: bson.M{"string_annotations": bson.M{"$elemMatch": bson.M{
				"key": "type", "value": "image",
			}}},
		},
		{
			name: "numeric",
			pred: query.EqNum("part", 3),
			expected: bson.M{"numeric_annotations": bson.M{"$elemMatch": bson.M{
				"key": "part", "value": int64(3),
			}}},
		},
		{
			name:     "numeric beyond int64",
			pred:     query.EqNum("part", math.MaxUint64),
			expected: matchNone,
		},
		{
			name:     "empty and",
			pred:     query.AllOf(),
			expected: bson.M{},
		},
		{
			name:     "empty or",
			pred:     query.AnyOf(),
			expected: matchNone,
		},
		{
			name: "nested",
			pred: query.AllOf(query.Eq("app", "x"), query.AnyOf(query.EqNum("part", 1))),
			expected: bson.M{"$and": bson.A{
				bson.M{"string_annotations": bson.M{"$elemMatch": bson.M{"key": "app", "value": "x"}}},
				bson.M{"$or": bson.A{
					bson.M{"numeric_annotations": bson.M{"$elemMatch": bson.M{"key": "part", "value": int64(1)}}},
				}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Filter(tt.pred)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
