//go:build !integration

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestLogEntryDocument_Prepare(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	entry := &LogEntryDocument{Message: "Meal analyzed"}

	entry.prepare(now)

	assert.False(t, entry.ID.IsZero())
	assert.Equal(t, now, entry.Timestamp)
	assert.Equal(t, now.Unix(), entry.ID.Timestamp().Unix())

	id := entry.ID
	entry.prepare(now.Add(time.Hour))
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, now, entry.Timestamp)
}

func TestPrepareAll(t *testing.T) {
	now := time.Now().UTC()
	kept := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []*LogEntryDocument{
		{Message: "request"},
		nil,
		{Message: "audit", Timestamp: kept},
	}

	docs := prepareAll(entries, now)

	assert.Len(t, docs, 2)
	assert.Equal(t, now, entries[0].Timestamp)
	assert.Equal(t, kept, entries[2].Timestamp)
	assert.Empty(t, prepareAll(nil, now))
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		codes []int32
		want  bool
	}{
		{name: "nil", err: nil, codes: []int32{codeIndexNotFound}},
		{name: "plain error", err: assert.AnError, codes: []int32{codeIndexNotFound}},
		{name: "matching code", err: mongo.CommandError{Code: 85}, codes: []int32{codeIndexOptionsConflict, codeIndexKeySpecsConflict}, want: true},
		{name: "other code", err: mongo.CommandError{Code: 11000}, codes: []int32{codeIndexNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasCode(tt.err, tt.codes...))
		})
	}
}

func TestIsNamespaceNotFound(t *testing.T) {
	assert.True(t, isNamespaceNotFound(mongo.CommandError{Code: 26, Name: "NamespaceNotFound"}))
	assert.False(t, isNamespaceNotFound(mongo.CommandError{Code: 27, Name: "IndexNotFound"}))
}

func TestClientOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o := clientOptions("mongodb://localhost:27017", nil)

		assert.Equal(t, uint64(2), *o.MinPoolSize)
		assert.Equal(t, uint64(20), *o.MaxPoolSize)
		assert.Equal(t, "nutriplate", *o.AppName)
		assert.Equal(t, []string{"zstd", "snappy", "zlib"}, o.Compressors)
		assert.True(t, *o.RetryWrites)
	})

	t.Run("options override defaults", func(t *testing.T) {
		o := clientOptions("mongodb://localhost:27017", []Option{
			WithPoolSize(1, 4),
			WithServerSelectionTimeout(time.Second),
			WithoutCompression(),
		})

		assert.Equal(t, uint64(1), *o.MinPoolSize)
		assert.Equal(t, uint64(4), *o.MaxPoolSize)
		assert.Equal(t, time.Second, *o.ServerSelectionTimeout)
		assert.Empty(t, o.Compressors)
	})
}

