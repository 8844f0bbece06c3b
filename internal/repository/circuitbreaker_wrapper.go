package repository

import (
	"context"
	"errors"

	"github.com/guttosm/nutriplate/internal/circuitbreaker"
)

// LogsRepositoryWithCircuitBreaker guards a logs repository with a circuit
// breaker. While the circuit is open writes are discarded and reported as
// success, because the log sink must never fail an analysis request.
type LogsRepositoryWithCircuitBreaker struct {
	repo LogsRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker wraps repo with cb.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

// Create stores a single log entry.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	return r.guard(ctx, func() error { return r.repo.Create(ctx, entry) })
}

// CreateMany stores multiple log entries.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	if len(entries) == 0 {
		return nil
	}
	return r.guard(ctx, func() error { return r.repo.CreateMany(ctx, entries) })
}

// Breaker returns the circuit breaker for readiness reporting.
func (r *LogsRepositoryWithCircuitBreaker) Breaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

func (r *LogsRepositoryWithCircuitBreaker) guard(ctx context.Context, write func() error) error {
	err := r.cb.Execute(ctx, write)
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}
