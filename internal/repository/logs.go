// Package repository stores request logs and analysis audit entries in MongoDB.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogEntryDocument is one stored entry. Audit entries carry ActionType and
// metadata in Fields; request logs carry the HTTP attributes.
type LogEntryDocument struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Level      string                 `bson:"level" json:"level"`
	Message    string                 `bson:"message" json:"message"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string                 `bson:"method,omitempty" json:"method,omitempty"`
	Path       string                 `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64                  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string                 `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string                 `bson:"error,omitempty" json:"error,omitempty"`
	ActionType string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// prepare assigns an ID and timestamp where missing.
func (d *LogEntryDocument) prepare(now time.Time) {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectIDFromTimestamp(now)
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = now
	}
}

// LogsRepository writes to the logs collection.
type LogsRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewLogsRepository creates a new logs repository.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{
		collection: db.Logs,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts one entry.
func (r *LogsRepository) Create(ctx context.Context, entry *LogEntryDocument) error {
	entry.prepare(r.now())
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany inserts entries in one unordered bulk write, so one bad document
// does not stop the rest of the batch. Nil entries are skipped.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	docs := prepareAll(entries, r.now())
	if len(docs) == 0 {
		return nil
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

func prepareAll(entries []*LogEntryDocument, now time.Time) []interface{} {
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		e.prepare(now)
		docs = append(docs, e)
	}
	return docs
}
