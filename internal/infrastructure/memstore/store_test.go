package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/pkg/entitykey"
)

func TestCreateAndFetch(t *testing.T) {
	t.Parallel()

	store := New(2 * time.Second)
	ctx := context.Background()

	receipts, err := store.CreateEntities(ctx, []entity.Create{
		{
			Data: []byte("first"),
			BTL:  25,
			StringAnnotations: []entity.StringAnnotation{
				{Key: "type", Value: "image"},
				{Key: "key", Value: "a"},
				{Key: "key", Value: "b"},
			},
			NumericAnnotations: []entity.NumericAnnotation{{Key: "part", Value: 1}},
		},
		{Data: []byte("second"), BTL: 25},
	})
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.True(t, entitykey.Valid(receipts[0].EntityKey))
	assert.NotEqual(t, receipts[0].EntityKey, receipts[1].EntityKey)

	meta, err := store.GetEntityMetaData(ctx, receipts[0].EntityKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, meta.Strings("key"))
	part, ok := meta.Numeric("part")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), part)

	value, err := store.GetStorageValue(ctx, receipts[1].EntityKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)

	_, err = store.GetStorageValue(ctx, "0xmissing")
	assert.ErrorIs(t, err, entitystore.ErrNotFound)
}

func TestQueryEntities(t *testing.T) {
	t.Parallel()

	store := New(time.Second)
	ctx := context.Background()

	annotated := func(data, typ string, part uint64) entity.Create {
		return entity.Create{
			Data:               []byte(data),
			BTL:                10,
			StringAnnotations:  []entity.StringAnnotation{{Key: "type", Value: typ}},
			NumericAnnotations: []entity.NumericAnnotation{{Key: "part", Value: part}},
		}
	}

	receipts, err := store.CreateEntities(ctx, []entity.Create{
		annotated("one", "image", 1),
		annotated("two", "image_chunk", 2),
		annotated("three", "image_chunk", 3),
	})
	require.NoError(t, err)

	results, err := store.QueryEntities(ctx, `type = "image_chunk"`)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, receipts[1].EntityKey, results[0].EntityKey)
	assert.Equal(t, []byte("three"), results[1].StorageValue)

	results, err = store.QueryEntities(ctx, `type = "image_chunk" && part = 3`)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, receipts[2].EntityKey, results[0].EntityKey)

	results, err = store.QueryEntities(ctx, `type = "thumbnail"`)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	_, err = store.QueryEntities(ctx, `type = `)
	assert.Error(t, err)
}

func TestLeaseExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	store := New(2 * time.Second)
	store.SetClock(func() time.Time { return now })

	ctx := context.Background()
	receipts, err := store.CreateEntities(ctx, []entity.Create{{
		Data:              []byte("short lived"),
		BTL:               5,
		StringAnnotations: []entity.StringAnnotation{{Key: "type", Value: "image"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, now.Add(10*time.Second), receipts[0].ExpiresAt)

	now = now.Add(9 * time.Second)
	_, err = store.GetStorageValue(ctx, receipts[0].EntityKey)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	now = now.Add(time.Second)
	_, err = store.GetEntityMetaData(ctx, receipts[0].EntityKey)
	assert.ErrorIs(t, err, entitystore.ErrNotFound)

	results, err := store.QueryEntities(ctx, `type = "image"`)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, store.Len())
}

func TestCreateRejectsZeroBTL(t *testing.T) {
	t.Parallel()

	store := New(time.Second)
	_, err := store.CreateEntities(context.Background(), []entity.Create{{Data: []byte("x")}})
	assert.Error(t, err)
	assert.Zero(t, store.Len())
}
