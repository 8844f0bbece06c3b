package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/logger"
	"github.com/guttosm/nutriplate/internal/metrics"
	"github.com/guttosm/nutriplate/internal/service"
	"github.com/rs/zerolog"
)

// AsyncLoggerConfig sizes the background writer of the log sink.
type AsyncLoggerConfig struct {
	// BufferSize is how many entries may wait before new ones are dropped.
	BufferSize int
	// NumWorkers is the number of goroutines writing batches.
	NumWorkers int
	// WriteTimeout bounds a single batch write.
	WriteTimeout time.Duration
	// BatchSize is the largest batch a worker writes at once.
	BatchSize int
	// FlushInterval forces a write of a partial batch.
	FlushInterval time.Duration
}

// DefaultAsyncLoggerConfig returns the production settings.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    1000,
		NumWorkers:    2,
		WriteTimeout:  5 * time.Second,
		BatchSize:     50,
		FlushInterval: time.Second,
	}
}

func (cfg AsyncLoggerConfig) withDefaults() AsyncLoggerConfig {
	d := DefaultAsyncLoggerConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = d.BufferSize
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = d.NumWorkers
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = d.WriteTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = d.FlushInterval
	}
	return cfg
}

// AsyncLoggerStats is a snapshot of the writer counters.
type AsyncLoggerStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AsyncLogger moves sink writes off the request path. Entries are buffered
// and written in batches by a small worker pool; when the buffer is full new
// entries are dropped, so a slow sink never delays an analysis response.
type AsyncLogger struct {
	sink    service.LoggingService
	cfg     AsyncLoggerConfig
	log     *zerolog.Logger
	entries chan *model.LogEntry
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewAsyncLogger starts the workers. It returns nil for a nil sink.
func NewAsyncLogger(sink service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if sink == nil {
		return nil
	}
	cfg = cfg.withDefaults()

	al := &AsyncLogger{
		sink:    sink,
		cfg:     cfg,
		log:     logger.WithContext(map[string]interface{}{"component": "async_logger"}),
		entries: make(chan *model.LogEntry, cfg.BufferSize),
		stop:    make(chan struct{}),
	}
	al.wg.Add(cfg.NumWorkers)
	for i := 0; i < cfg.NumWorkers; i++ {
		go al.run()
	}
	return al
}

func (al *AsyncLogger) run() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*model.LogEntry, 0, al.cfg.BatchSize)
	add := func(e *model.LogEntry) {
		batch = append(batch, e)
		if len(batch) >= al.cfg.BatchSize {
			al.write(batch)
			batch = make([]*model.LogEntry, 0, al.cfg.BatchSize)
		}
	}

	for {
		select {
		case e := <-al.entries:
			add(e)
		case <-ticker.C:
			if len(batch) > 0 {
				al.write(batch)
				batch = make([]*model.LogEntry, 0, al.cfg.BatchSize)
			}
		case <-al.stop:
			// Drain whatever is buffered, then write the remainder.
			for {
				select {
				case e := <-al.entries:
					add(e)
				default:
					if len(batch) > 0 {
						al.write(batch)
					}
					return
				}
			}
		}
	}
}

func (al *AsyncLogger) write(batch []*model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), al.cfg.WriteTimeout)
	defer cancel()

	if err := al.sink.CreateLogs(ctx, batch); err != nil {
		al.failed.Add(int64(len(batch)))
		metrics.RecordLogSinkEntries("failed", len(batch))
		al.log.Warn().Err(err).Int("entries", len(batch)).Msg("Log sink batch write failed")
		return
	}
	al.written.Add(int64(len(batch)))
	metrics.RecordLogSinkEntries("written", len(batch))
}

// Log enqueues entry without blocking. It reports false when the entry was
// nil, the buffer was full or the logger is stopped.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	if entry == nil || al.closed.Load() {
		return false
	}
	select {
	case al.entries <- entry:
		al.enqueued.Add(1)
		return true
	default:
		al.dropped.Add(1)
		metrics.RecordLogSinkEntries("dropped", 1)
		return false
	}
}

// Stop writes buffered entries and waits for the workers. Safe to call twice.
func (al *AsyncLogger) Stop() {
	al.once.Do(func() {
		al.closed.Store(true)
		close(al.stop)
		al.wg.Wait()
	})
}

// Stats returns the current counters.
func (al *AsyncLogger) Stats() AsyncLoggerStats {
	return AsyncLoggerStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
	}
}

var (
	globalAsyncLogger   *AsyncLogger
	globalAsyncLoggerMu sync.RWMutex
)

// InitAsyncLogger installs the process-wide writer used by the request and
// audit loggers, stopping any previous one.
func InitAsyncLogger(sink service.LoggingService, cfg AsyncLoggerConfig) {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
	}
	globalAsyncLogger = NewAsyncLogger(sink, cfg)
}

// GetAsyncLogger returns the process-wide writer, or nil.
func GetAsyncLogger() *AsyncLogger {
	globalAsyncLoggerMu.RLock()
	defer globalAsyncLoggerMu.RUnlock()
	return globalAsyncLogger
}

// StopAsyncLogger flushes and removes the process-wide writer.
func StopAsyncLogger() {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
		globalAsyncLogger = nil
	}
}
