package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
)

func TestIndex(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	writer, _ := newTestWriter(store)
	index := NewIndex(store, testObjectConf)
	ctx := context.Background()

	cat, err := writer.Write(ctx, WriteRequest{
		Blob:   blob(3 * testChunkSize),
		Tags:   []string{"cat", "pet"},
		Custom: []model.Custom{model.NewCustom("year", "2024"), model.NewCustom("camera", "x100")},
	})
	require.NoError(t, err)

	caterpillar, err := writer.Write(ctx, WriteRequest{
		Blob:   blob(5),
		Tags:   []string{"caterpillar"},
		Custom: []model.Custom{model.NewCustom("year", "2023")},
	})
	require.NoError(t, err)

	quoted, err := writer.Write(ctx, WriteRequest{Blob: blob(5), Tags: []string{`say "hi"`}})
	require.NoError(t, err)

	t.Run("find by tag", func(t *testing.T) {
		tests := []struct {
			tag      string
			expected []string
		}{
			{"cat", []string{cat.Root.Key}},
			{"pet", []string{cat.Root.Key}},
			{"caterpillar", []string{caterpillar.Root.Key}},
			{`say "hi"`, []string{quoted.Root.Key}},
			{"ca", []string{}},
			{"unknown", []string{}},
		}

		for _, tt := range tests {
			keys, err := index.FindByTag(ctx, tt.tag)
			require.NoError(t, err)
			assert.NotNil(t, keys)
			assert.Equal(t, tt.expected, keys, tt.tag)
		}
	})

	t.Run("find by custom", func(t *testing.T) {
		keys, err := index.FindByCustom(ctx, "year", "2024")
		require.NoError(t, err)
		assert.Equal(t, []string{cat.Root.Key}, keys)

		keys, err = index.FindByCustom(ctx, "camera", "x100")
		require.NoError(t, err)
		assert.Equal(t, []string{cat.Root.Key}, keys)

		keys, err = index.FindByCustom(ctx, "camera", "x200")
		require.NoError(t, err)
		assert.Empty(t, keys)

		_, err = index.FindByCustom(ctx, "bad key", "x")
		assert.ErrorIs(t, err, ErrInvalidAnnotationKey)
	})

	t.Run("list thumbnails", func(t *testing.T) {
		keys, err := index.ListThumbnails(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{cat.Thumbnail.Key, caterpillar.Thumbnail.Key, quoted.Thumbnail.Key}, keys)
	})

	t.Run("find parent", func(t *testing.T) {
		parent, err := index.FindParent(ctx, cat.Thumbnail.Key)
		require.NoError(t, err)
		assert.Equal(t, cat.Root.Key, parent)

		parent, err = index.FindParent(ctx, strings.TrimPrefix(caterpillar.Thumbnail.Key, "0x"))
		require.NoError(t, err)
		assert.Equal(t, caterpillar.Root.Key, parent)

		_, err = index.FindParent(ctx, cat.Root.Key)
		assert.ErrorIs(t, err, ErrParentNotFound)

		_, err = index.FindParent(ctx, "0x"+strings.Repeat("1", 64))
		assert.ErrorIs(t, err, ErrParentNotFound)
	})
}

func TestIndexIgnoresOtherApps(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	writer, _ := newTestWriter(store)
	other := ObjectConfig{AppID: "other-app", ChunkSize: testChunkSize, BTL: 25}
	otherWriter := NewWriter(store, NewThumbnailBuilder(&stubTransformer{}, ThumbnailConfig{Width: 100}), other)
	ctx := context.Background()

	mine, err := writer.Write(ctx, WriteRequest{Blob: blob(3), Tags: []string{"shared"}})
	require.NoError(t, err)
	_, err = otherWriter.Write(ctx, WriteRequest{Blob: blob(3), Tags: []string{"shared"}})
	require.NoError(t, err)

	keys, err := NewIndex(store, testObjectConf).FindByTag(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []string{mine.Root.Key}, keys)

	thumbs, err := NewIndex(store, other).ListThumbnails(ctx)
	require.NoError(t, err)
	assert.Len(t, thumbs, 1)
}

func TestFindParentStoreError(t *testing.T) {
	t.Parallel()

	store := &flakyStore{Store: newMemStore(), metaErr: errStoreDown}

	_, err := NewIndex(store, testObjectConf).FindParent(context.Background(), "0xabc")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, ErrParentNotFound)
}
