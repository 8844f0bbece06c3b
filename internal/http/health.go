package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

const (
	defaultCheckTimeout = 2 * time.Second
	maxConcurrentChecks = 4
)

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) error

// Check calls f.
func (f HealthCheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Status    string `json:"status"`
	Required  bool   `json:"required"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// ReadinessReport is the /readyz body.
type ReadinessReport struct {
	Status   string                          `json:"status"`
	Checks   map[string]CheckResult          `json:"checks"`
	Circuits map[string]circuitbreaker.Stats `json:"circuits,omitempty"`
}

type registeredCheck struct {
	checker  HealthChecker
	required bool
}

// HealthHandler serves the liveness and readiness probes. Only required
// checks affect readiness; optional checks and circuit breakers cover
// auxiliary sinks such as the request log store and are reported only.
type HealthHandler struct {
	checks   map[string]registeredCheck
	circuits map[string]*circuitbreaker.CircuitBreaker
	timeout  time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checks:   make(map[string]registeredCheck),
		circuits: make(map[string]*circuitbreaker.CircuitBreaker),
		timeout:  defaultCheckTimeout,
	}
}

// RegisterChecker registers a dependency that must be healthy for readiness.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checks[name] = registeredCheck{checker: checker, required: true}
}

// RegisterOptionalChecker registers a dependency that is reported only.
func (h *HealthHandler) RegisterOptionalChecker(name string, checker HealthChecker) {
	h.checks[name] = registeredCheck{checker: checker}
}

// RegisterCircuitBreaker reports cb under circuits. A nil breaker is ignored.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb == nil {
		return
	}
	h.circuits[name] = cb
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the service is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK if every required dependency is healthy. Optional sinks and circuit breakers are reported under checks.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.Report(c.Request.Context())

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Report runs every check concurrently, each bounded by the check timeout.
func (h *HealthHandler) Report(ctx context.Context) ReadinessReport {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := ReadinessReport{
		Status: "ok",
		Checks: make(map[string]CheckResult, len(h.checks)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(maxConcurrentChecks)
	for name, rc := range h.checks {
		g.Go(func() error {
			result := runCheck(ctx, rc)
			mu.Lock()
			report.Checks[name] = result
			if result.Required && result.Status != "ok" {
				report.Status = "degraded"
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(h.circuits) > 0 {
		report.Circuits = make(map[string]circuitbreaker.Stats, len(h.circuits))
		for name, cb := range h.circuits {
			report.Circuits[name] = cb.GetStats()
		}
	}
	return report
}

func runCheck(ctx context.Context, rc registeredCheck) CheckResult {
	start := time.Now()
	err := rc.checker.Check(ctx)

	result := CheckResult{
		Status:    "ok",
		Required:  rc.required,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Status = "down"
		result.Error = err.Error()
	}
	return result
}
