package media

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/pkg/metrics"
)

type fakeStream struct {
	mu        sync.Mutex
	messages  chan domain.StreamMessage
	reclaimed []domain.StreamMessage
	acked     []string
	groupErr  error
}

func (f *fakeStream) ConsumeStream(ctx context.Context, _, _, _ string) (<-chan domain.StreamMessage, error) {
	return f.messages, nil
}

func (f *fakeStream) AckMessage(_ context.Context, _, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, id)
	return nil
}

func (f *fakeStream) CreateConsumerGroup(context.Context, string, string) error {
	return f.groupErr
}

func (f *fakeStream) PublishToStream(context.Context, string, interface{}) error {
	return nil
}

func (f *fakeStream) ReclaimPending(context.Context, string, string, string, time.Duration, int64) ([]domain.StreamMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.reclaimed
	f.reclaimed = nil
	return out, nil
}

func (f *fakeStream) ackedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.acked...)
}

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeStorage) PresignBatch(context.Context, []domain.PresignItem, time.Duration) ([]domain.PresignResult, error) {
	return nil, nil
}

func (f *fakeStorage) DeleteObjects(_ context.Context, keys []string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	return nil
}

type fakeMedia struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeMedia) GetPrimaryMedia(context.Context, domain.EntityType, []string) (map[string]domain.Media, error) {
	return nil, nil
}

func (f *fakeMedia) DeleteMedia(_ context.Context, ids []string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids...)
	return nil
}

func eventMessage(t *testing.T, id string, event domain.MediaCleanupEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func newWorker(stream *fakeStream, storage *fakeStorage, media *fakeMedia, m *metrics.Metrics) *CleanupWorker {
	return NewCleanupWorker(stream, storage, media, m, Options{
		ConsumerGroup:   "cleanup",
		Concurrency:     2,
		MaxRetries:      3,
		ReclaimInterval: 10 * time.Millisecond,
	}, zap.NewNop())
}

func TestCleanupWorker_Handle(t *testing.T) {
	event := domain.MediaCleanupEvent{
		EntityType: domain.EntityFarm,
		EntityID:   "f-1",
		MediaIDs:   []string{"m-1", "m-2"},
		FilePaths:  []string{"farms/f-1/a.jpg", "farms/f-1/b.jpg"},
	}

	t.Run("processed", func(t *testing.T) {
		stream, storage, media := &fakeStream{}, &fakeStorage{}, &fakeMedia{}
		m := metrics.New()
		w := newWorker(stream, storage, media, m)

		result := w.handle(context.Background(), eventMessage(t, "1-0", event))

		assert.Equal(t, ResultProcessed, result)
		assert.Equal(t, event.FilePaths, storage.deleted)
		assert.Equal(t, event.MediaIDs, media.deleted)
		assert.Equal(t, []string{"1-0"}, stream.ackedIDs())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupEvents.WithLabelValues(ResultProcessed)))
	})

	t.Run("storage failure leaves the event pending", func(t *testing.T) {
		stream, media := &fakeStream{}, &fakeMedia{}
		m := metrics.New()
		w := newWorker(stream, &fakeStorage{err: errors.New("s3 down")}, media, m)

		result := w.handle(context.Background(), eventMessage(t, "2-0", event))

		assert.Equal(t, ResultFailed, result)
		assert.Empty(t, media.deleted, "rows stay until their objects are gone")
		assert.Empty(t, stream.ackedIDs())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupEvents.WithLabelValues(ResultFailed)))
	})

	t.Run("row delete failure leaves the event pending", func(t *testing.T) {
		stream := &fakeStream{}
		w := newWorker(stream, &fakeStorage{}, &fakeMedia{err: errors.New("db down")}, nil)

		assert.Equal(t, ResultFailed, w.handle(context.Background(), eventMessage(t, "3-0", event)))
		assert.Empty(t, stream.ackedIDs())
	})

	t.Run("malformed event is dropped", func(t *testing.T) {
		stream := &fakeStream{}
		m := metrics.New()
		w := newWorker(stream, &fakeStorage{}, &fakeMedia{}, m)

		result := w.handle(context.Background(), domain.StreamMessage{ID: "4-0", Data: "{broken"})

		assert.Equal(t, ResultDropped, result)
		assert.Equal(t, []string{"4-0"}, stream.ackedIDs())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupEvents.WithLabelValues(ResultDropped)))
	})

	t.Run("event without files only removes rows", func(t *testing.T) {
		stream, storage, media := &fakeStream{}, &fakeStorage{}, &fakeMedia{}
		w := newWorker(stream, storage, media, nil)

		result := w.handle(context.Background(), eventMessage(t, "5-0", domain.MediaCleanupEvent{
			EntityType: domain.EntityGrassland,
			EntityID:   "g-1",
			MediaIDs:   []string{"m-9"},
		}))

		assert.Equal(t, ResultProcessed, result)
		assert.Empty(t, storage.deleted)
		assert.Equal(t, []string{"m-9"}, media.deleted)
	})
}

func TestCleanupWorker_StartConsumesAndReclaims(t *testing.T) {
	stream := &fakeStream{messages: make(chan domain.StreamMessage, 2)}
	storage, media := &fakeStorage{}, &fakeMedia{}
	w := newWorker(stream, storage, media, nil)

	stream.messages <- eventMessage(t, "1-0", domain.MediaCleanupEvent{EntityID: "a", MediaIDs: []string{"m-1"}, FilePaths: []string{"a.jpg"}})
	stream.reclaimed = []domain.StreamMessage{
		eventMessage(t, "0-9", domain.MediaCleanupEvent{EntityID: "b", MediaIDs: []string{"m-2"}, FilePaths: []string{"b.jpg"}}),
	}

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	assert.Eventually(t, func() bool {
		return len(stream.ackedIDs()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.ElementsMatch(t, []string{"1-0", "0-9"}, stream.ackedIDs())
	media.mu.Lock()
	assert.ElementsMatch(t, []string{"m-1", "m-2"}, media.deleted)
	media.mu.Unlock()
}

func TestCleanupWorker_StartFailsWithoutGroup(t *testing.T) {
	stream := &fakeStream{groupErr: errors.New("NOAUTH")}
	w := newWorker(stream, &fakeStorage{}, &fakeMedia{}, nil)

	assert.Error(t, w.Start(context.Background()))
}
