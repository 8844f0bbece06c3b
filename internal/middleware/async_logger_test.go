package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLoggingService records the size of every batch it receives.
type MockLoggingService struct {
	mock.Mock
	mu      sync.Mutex
	batches []int
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	m.mu.Lock()
	m.batches = append(m.batches, len(entries))
	m.mu.Unlock()
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) batchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.batches...)
}

func fastConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    100,
		NumWorkers:    1,
		WriteTimeout:  time.Second,
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
	}
}

func sampleEntry(path string) *model.LogEntry {
	return &model.LogEntry{Level: "info", Message: "request", Path: path, StatusCode: 200}
}

func TestDefaultAsyncLoggerConfig(t *testing.T) {
	cfg := DefaultAsyncLoggerConfig()

	assert.Equal(t, AsyncLoggerConfig{
		BufferSize:    1000,
		NumWorkers:    2,
		WriteTimeout:  5 * time.Second,
		BatchSize:     50,
		FlushInterval: time.Second,
	}, cfg)
}

func TestAsyncLoggerConfig_WithDefaults(t *testing.T) {
	cfg := AsyncLoggerConfig{BatchSize: -1}.withDefaults()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 2, cfg.NumWorkers)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 1, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.FlushInterval)
}

func TestNewAsyncLogger_NilSink(t *testing.T) {
	assert.Nil(t, NewAsyncLogger(nil, fastConfig()))
}

func TestAsyncLogger_Log(t *testing.T) {
	t.Run("entry is written", func(t *testing.T) {
		sink := &MockLoggingService{}
		sink.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)

		al := NewAsyncLogger(sink, fastConfig())
		require.NotNil(t, al)

		assert.True(t, al.Log(sampleEntry("/api/analyze")))
		al.Stop()

		assert.Equal(t, int64(1), al.Stats().Written)
		sink.AssertExpectations(t)
	})

	t.Run("nil entry is ignored", func(t *testing.T) {
		al := NewAsyncLogger(&MockLoggingService{}, fastConfig())
		defer al.Stop()

		assert.False(t, al.Log(nil))
		assert.Equal(t, AsyncLoggerStats{}, al.Stats())
	})

	t.Run("rejected after stop", func(t *testing.T) {
		al := NewAsyncLogger(&MockLoggingService{}, fastConfig())
		al.Stop()

		assert.False(t, al.Log(sampleEntry("/api/analyze")))
		assert.Zero(t, al.Stats().Enqueued)
	})
}

func TestAsyncLogger_DropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	sink := &MockLoggingService{}
	sink.On("CreateLogs", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)

	cfg := fastConfig()
	cfg.BufferSize = 2
	cfg.BatchSize = 1
	al := NewAsyncLogger(sink, cfg)

	accepted := 0
	for i := 0; i < 10; i++ {
		if al.Log(sampleEntry("/api/analyze")) {
			accepted++
		}
	}
	close(release)
	al.Stop()

	stats := al.Stats()
	assert.Less(t, accepted, 10)
	assert.Equal(t, int64(accepted), stats.Enqueued)
	assert.Equal(t, int64(10-accepted), stats.Dropped)
	assert.Equal(t, stats.Enqueued, stats.Written)
}

func TestAsyncLogger_Batching(t *testing.T) {
	sink := &MockLoggingService{}
	sink.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)

	cfg := fastConfig()
	cfg.FlushInterval = time.Hour
	al := NewAsyncLogger(sink, cfg)

	for i := 0; i < 25; i++ {
		require.True(t, al.Log(sampleEntry("/api/analyze")))
	}
	al.Stop()

	total := 0
	for _, size := range sink.batchSizes() {
		assert.LessOrEqual(t, size, cfg.BatchSize)
		total += size
	}
	assert.Equal(t, 25, total)
	assert.Equal(t, int64(25), al.Stats().Written)
}

func TestAsyncLogger_FlushInterval(t *testing.T) {
	sink := &MockLoggingService{}
	sink.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)

	al := NewAsyncLogger(sink, fastConfig())
	defer al.Stop()

	al.Log(sampleEntry("/healthz"))
	al.Log(sampleEntry("/readyz"))

	assert.Eventually(t, func() bool {
		return al.Stats().Written == 2
	}, time.Second, 5*time.Millisecond)
}

func TestAsyncLogger_WriteFailure(t *testing.T) {
	sink := &MockLoggingService{}
	sink.On("CreateLogs", mock.Anything, mock.Anything).Return(errors.New("sink unavailable"))

	al := NewAsyncLogger(sink, fastConfig())
	for i := 0; i < 3; i++ {
		al.Log(sampleEntry("/api/analyze"))
	}
	al.Stop()

	stats := al.Stats()
	assert.Equal(t, int64(3), stats.Enqueued)
	assert.Equal(t, int64(3), stats.Failed)
	assert.Zero(t, stats.Written)
}

func TestAsyncLogger_StopIsIdempotent(t *testing.T) {
	sink := &MockLoggingService{}
	sink.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)

	al := NewAsyncLogger(sink, fastConfig())
	al.Log(sampleEntry("/api/analyze"))

	assert.NotPanics(t, func() {
		al.Stop()
		al.Stop()
	})
	assert.Equal(t, int64(1), al.Stats().Written)
}

func TestGlobalAsyncLogger(t *testing.T) {
	t.Cleanup(StopAsyncLogger)

	first := &MockLoggingService{}
	first.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)
	second := &MockLoggingService{}
	second.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)

	InitAsyncLogger(first, fastConfig())
	original := GetAsyncLogger()
	require.NotNil(t, original)
	original.Log(sampleEntry("/api/analyze"))

	InitAsyncLogger(second, fastConfig())
	replacement := GetAsyncLogger()
	assert.NotSame(t, original, replacement)
	assert.Equal(t, int64(1), original.Stats().Written)
	assert.False(t, original.Log(sampleEntry("/api/analyze")))

	StopAsyncLogger()
	assert.Nil(t, GetAsyncLogger())
	assert.NotPanics(t, StopAsyncLogger)
}
