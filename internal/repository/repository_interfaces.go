// Package repository provides interfaces for repository operations.
package repository

import "context"

// LogsRepositoryInterface is the write side of the request log sink.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
}
