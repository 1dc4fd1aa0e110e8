package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/frecklefacelabs/golembase-images/internal/domain/dto"
	"github.com/frecklefacelabs/golembase-images/internal/domain/entity"
	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/broker"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/memstore"
)

const testChunkSize = 16

var (
	errStoreDown   = errors.New("store unavailable")
	testObjectConf = ObjectConfig{AppID: model.DefaultAppID, ChunkSize: testChunkSize, BTL: 25}
)

// stubTransformer records the requested dimensions instead of decoding.
// Inputs starting with "bad" fail.
type stubTransformer struct {
	mu    sync.Mutex
	calls [][2]int
}

func (s *stubTransformer) Resize(data []byte, width, height int) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, [2]int{width, height})
	s.mu.Unlock()

	if bytes.HasPrefix(data, []byte("bad")) {
		return nil, errors.New("unknown format")
	}

	return []byte(fmt.Sprintf("scaled %d bytes to %dx%d", len(data), width, height)), nil
}

func (s *stubTransformer) MimeType() string {
	return "image/png"
}

func (s *stubTransformer) lastCall() [2]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[len(s.calls)-1]
}

// flakyStore fails the create call with the given 1-based index and, when
// metaErr is set, every metadata lookup.
type flakyStore struct {
	*memstore.Store

	mu      sync.Mutex
	creates int
	failOn  int
	metaErr error
}

func (f *flakyStore) CreateEntities(ctx context.Context, creates []entity.Create) ([]entity.CreateReceipt, error) {
	f.mu.Lock()
	f.creates++
	fail := f.creates == f.failOn
	f.mu.Unlock()

	if fail {
		return nil, errStoreDown
	}

	return f.Store.CreateEntities(ctx, creates)
}

func (f *flakyStore) GetEntityMetaData(ctx context.Context, key string) (*entity.Metadata, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}

	return f.Store.GetEntityMetaData(ctx, key)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event dto.CommitEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

type fakeMessage struct {
	id    string
	event dto.CommitEvent
	err   error
	acked bool
}

func (m *fakeMessage) ID() string { return m.id }

func (m *fakeMessage) Event() (dto.CommitEvent, error) { return m.event, m.err }

func (m *fakeMessage) Ack() error {
	m.acked = true

	return nil
}

type fakeReceiver struct {
	messages []*fakeMessage
}

func (r *fakeReceiver) Messages(_ context.Context, _ string) (<-chan broker.Message, error) {
	out := make(chan broker.Message, len(r.messages))
	for _, m := range r.messages {
		out <- m
	}
	close(out)

	return out, nil
}

func newMemStore() *memstore.Store {
	return memstore.New(2 * time.Second)
}

func newTestWriter(store *memstore.Store) (*Writer, *stubTransformer) {
	transformer := &stubTransformer{}
	thumbs := NewThumbnailBuilder(transformer, ThumbnailConfig{Width: 100})

	return NewWriter(store, thumbs, testObjectConf), transformer
}

func blob(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}

	return b
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}
