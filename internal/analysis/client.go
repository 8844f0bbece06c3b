// Package analysis builds meal analysis requests, sends them to a generative
// model backend and decodes the structured reply.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/logger"
	"github.com/guttosm/nutriplate/internal/metrics"
)

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "gemini-2.5-flash"

// Request is everything a backend needs for one generation call.
type Request struct {
	Model             string
	SystemInstruction string
	Parts             []Part
	Schema            *Schema
}

// Generator sends a single request to a model and returns the raw reply text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Analyzer analyzes a meal for a family.
type Analyzer interface {
	Analyze(ctx context.Context, family model.FamilyComposition, text, imagePayload string) (*model.AnalysisResult, error)
}

// Client implements Analyzer on top of a Generator. It holds configuration
// only and is safe for concurrent use if the Generator is.
type Client struct {
	generator Generator
	model     string
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the model identifier.
func WithModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.model = name
		}
	}
}

// NewClient creates a Client bound to the given backend.
func NewClient(generator Generator, opts ...Option) *Client {
	c := &Client{
		generator: generator,
		model:     DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Analyze sends one request and returns the decoded result. imagePayload is
// base64 without a data-url header; either it or text must be non-empty.
func (c *Client) Analyze(ctx context.Context, family model.FamilyComposition, text, imagePayload string) (*model.AnalysisResult, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	parts, presence, err := BuildParts(text, imagePayload)
	if err != nil {
		metrics.RecordMealAnalysis(0, "input_error", presence.String())
		return nil, err
	}

	req := Request{
		Model:             c.model,
		SystemInstruction: SystemInstruction(family),
		Parts:             parts,
		Schema:            ResultSchema(),
	}

	raw, err := c.generator.Generate(ctx, req)
	if err != nil {
		metrics.RecordMealAnalysis(time.Since(start), "transport_error", presence.String())
		log.Error().
			Err(err).
			Str("model", c.model).
			Str("presence", presence.String()).
			Bool("canceled", errors.Is(err, context.Canceled)).
			Msg("Meal analysis request failed")
		return nil, &TransportError{Err: err}
	}

	if strings.TrimSpace(raw) == "" {
		metrics.RecordMealAnalysis(time.Since(start), "service_error", presence.String())
		log.Warn().
			Str("model", c.model).
			Str("presence", presence.String()).
			Msg("Meal analysis returned an empty response")
		return nil, &ServiceError{Message: NoResponseMessage}
	}

	result, err := Decode(raw)
	if err != nil {
		metrics.RecordMealAnalysis(time.Since(start), "parse_error", presence.String())
		log.Error().
			Err(err).
			Str("model", c.model).
			Int("response_bytes", len(raw)).
			Msg("Meal analysis response could not be decoded")
		return nil, err
	}

	metrics.RecordMealAnalysis(time.Since(start), "success", presence.String())
	log.Debug().
		Str("model", c.model).
		Str("presence", presence.String()).
		Int("food_items", len(result.FoodItems)).
		Str("status", string(result.Gap.Status)).
		Dur("duration", time.Since(start)).
		Msg("Meal analysis completed")

	return result, nil
}
