package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func newMemoryStore(t *testing.T) *cache.InMemoryIdempotencyStore {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	inner := newTestHandler("order.placed")
	h := NewIdempotentHandler("kafka", inner, newMemoryStore(t), zap.NewNop())
	ctx := context.Background()
	evt := newTestEvent("order.placed")

	require.NoError(t, h.Handle(ctx, evt))
	require.NoError(t, h.Handle(ctx, evt))
	require.NoError(t, h.Handle(ctx, newTestEvent("order.placed")))

	assert.Equal(t, 2, inner.count())
	assert.Equal(t, IdempotencyStats{EventsProcessed: 2, EventsDuplicate: 1}, h.Stats())
	assert.Equal(t, []string{"order.placed"}, h.EventTypes())
}

func TestIdempotentHandler_KeysAreScopedByName(t *testing.T) {
	store := newMemoryStore(t)
	a, b := newTestHandler(), newTestHandler()
	ha := NewIdempotentHandler("a", a, store, zap.NewNop())
	hb := NewIdempotentHandler("b", b, store, zap.NewNop())
	evt := newTestEvent("order.placed")

	require.NoError(t, ha.Handle(context.Background(), evt))
	require.NoError(t, hb.Handle(context.Background(), evt))
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestIdempotentHandler_StoreFailureStillHandles(t *testing.T) {
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
	inner := newTestHandler()
	h := NewIdempotentHandler("kafka", inner, store, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), newTestEvent("order.placed")))
	assert.Equal(t, 1, inner.count())
}

func TestIdempotentHandler_HandlerError(t *testing.T) {
	inner := newTestHandler()
	inner.err = errors.New("write failed")
	h := NewIdempotentHandler("kafka", inner, newMemoryStore(t), zap.NewNop())

	err := h.Handle(context.Background(), newTestEvent("order.placed"))
	assert.EqualError(t, err, "write failed")
	assert.Equal(t, int64(1), h.Stats().EventsFailed)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler()
	h := NewIdempotentHandler("kafka", inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))
	evt := newTestEvent("order.placed")

	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Equal(t, 2, inner.count())
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}
