package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// LogsCollection holds request logs and analysis audit entries.
const LogsCollection = "logs"

const ttlIndexName = "timestamp_ttl"

// Server error codes the index helpers care about.
const (
	codeIndexNotFound         = 27
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// Option adjusts the client options used by Connect.
type Option func(*options.ClientOptions)

// WithPoolSize bounds the connection pool.
func WithPoolSize(minSize, maxSize uint64) Option {
	return func(o *options.ClientOptions) {
		o.SetMinPoolSize(minSize).SetMaxPoolSize(maxSize)
	}
}

// WithServerSelectionTimeout sets how long an operation waits for a usable server.
func WithServerSelectionTimeout(d time.Duration) Option {
	return func(o *options.ClientOptions) {
		o.SetServerSelectionTimeout(d)
	}
}

// WithoutCompression disables wire compression.
func WithoutCompression() Option {
	return func(o *options.ClientOptions) {
		o.Compressors = nil
	}
}

// clientOptions returns the log sink defaults: a small pool, wire compression
// and w:1 writes.
func clientOptions(uri string, opts []Option) *options.ClientOptions {
	o := options.Client().
		ApplyURI(uri).
		SetAppName("nutriplate").
		SetMinPoolSize(2).
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(10 * time.Minute).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetCompressors([]string{"zstd", "snappy", "zlib"}).
		SetWriteConcern(writeconcern.W1())
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MongoDB holds the client and the logs collection.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Logs     *mongo.Collection
}

// Connect dials uri, verifies the primary is reachable and ensures the lookup
// indexes on the logs collection exist.
func Connect(ctx context.Context, uri, database string, opts ...Option) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, clientOptions(uri, opts))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	m := &MongoDB{
		Client:   client,
		Database: db,
		Logs:     db.Collection(LogsCollection),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create log indexes: %w", err)
	}
	return m, nil
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.Logs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("request_id").SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "action_type", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("action_type_timestamp"),
		},
	})
	return err
}

// SetLogsTTL makes entries expire ttl after their timestamp. An existing TTL
// index is modified in place.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttl time.Duration) error {
	seconds := int32(ttl / time.Second)
	if seconds <= 0 {
		return fmt.Errorf("logs ttl must be at least one second, got %s", ttl)
	}

	err := m.Database.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: LogsCollection},
		{Key: "index", Value: bson.D{
			{Key: "name", Value: ttlIndexName},
			{Key: "expireAfterSeconds", Value: seconds},
		}},
	}).Err()
	if err == nil {
		return nil
	}
	if !hasCode(err, codeIndexNotFound) && !isNamespaceNotFound(err) {
		return err
	}

	_, err = m.Logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetName(ttlIndexName).SetExpireAfterSeconds(seconds),
	})
	if hasCode(err, codeIndexOptionsConflict, codeIndexKeySpecsConflict) {
		// A concurrent instance created it first.
		return nil
	}
	return err
}

func hasCode(err error, codes ...int32) bool {
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	for _, c := range codes {
		if cmdErr.Code == c {
			return true
		}
	}
	return false
}

func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceNotFound"
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary with a short timeout.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, readpref.Primary())
}
