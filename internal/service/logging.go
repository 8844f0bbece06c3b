// Package service holds the application services behind the HTTP handlers.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/repository"
)

// contentFields never reach the sink. Audit entries describe a meal by its
// metadata; the description and photo stay in memory for the request only.
var contentFields = map[string]struct{}{
	"text":  {},
	"image": {},
	"photo": {},
}

// maxErrorLen truncates stored error messages, which may quote model output.
const maxErrorLen = 512

// LoggingService writes request logs and audit events to the log sink.
type LoggingService interface {
	// CreateLog stores a single log entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error

	// CreateLogs stores multiple log entries in bulk.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
}

// LoggingServiceImpl maps entries to documents and strips meal content.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a new logging service implementation.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

// CreateLog stores a single log entry.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	return s.repo.Create(ctx, toDocument(entry))
}

// CreateLogs stores entries in one bulk write. An empty batch is a no-op.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]*repository.LogEntryDocument, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		docs = append(docs, toDocument(entry))
	}
	return s.repo.CreateMany(ctx, docs)
}

// toDocument returns the stored form of entry with content fields removed.
// The repository assigns the document ID.
func toDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	doc := &repository.LogEntryDocument{
		Timestamp:  ts.UTC(),
		Level:      entry.Level,
		Message:    entry.Message,
		RequestID:  entry.RequestID,
		Method:     entry.Method,
		Path:       entry.Path,
		StatusCode: entry.StatusCode,
		Duration:   entry.Latency.Milliseconds(),
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		Error:      truncate(entry.Error, maxErrorLen),
		ActionType: entry.ActionType,
	}

	for k, v := range entry.Fields {
		if _, content := contentFields[strings.ToLower(k)]; content {
			continue
		}
		if doc.Fields == nil {
			doc.Fields = make(map[string]interface{}, len(entry.Fields))
		}
		doc.Fields[k] = v
	}
	return doc
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
