// Package gemini implements analysis.Generator on the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"sync"

	"github.com/guttosm/nutriplate/internal/analysis"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned by Generate when no key was configured.
var ErrMissingAPIKey = errors.New("gemini: API key is not configured")

// Generator sends requests to the Gemini API. The underlying SDK client is
// created on first use so that a missing key only fails the call that needs it.
type Generator struct {
	apiKey  string
	baseURL string

	mu     sync.Mutex
	client *genai.Client
}

// Option configures a Generator.
type Option func(*Generator)

// WithBaseURL points the SDK at a different endpoint.
func WithBaseURL(u string) Option {
	return func(g *Generator) {
		g.baseURL = u
	}
}

// New creates a Generator for the given API key.
func New(apiKey string, opts ...Option) *Generator {
	g := &Generator{apiKey: apiKey}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) sdk(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

// Generate performs one non-streaming generateContent call with a JSON
// response schema and returns the concatenated reply text.
func (g *Generator) Generate(ctx context.Context, req analysis.Request) (string, error) {
	client, err := g.sdk(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ToSchema(req.Schema),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(ToParts(req.Parts), genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// ToParts converts request parts, preserving order.
func ToParts(parts []analysis.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case analysis.ImagePart:
			out = append(out, genai.NewPartFromBytes(v.Data, v.MIMEType))
		case analysis.TextPart:
			out = append(out, genai.NewPartFromText(v.Text))
		}
	}
	return out
}

// ToSchema converts the provider-neutral schema to the SDK representation.
func ToSchema(s *analysis.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:             schemaType(s.Type),
		Description:      s.Description,
		Required:         s.Required,
		Enum:             s.Enum,
		PropertyOrdering: s.PropertyOrdering,
		Items:            ToSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = ToSchema(prop)
		}
	}
	return out
}

func schemaType(t analysis.SchemaType) genai.Type {
	switch t {
	case analysis.TypeObject:
		return genai.TypeObject
	case analysis.TypeArray:
		return genai.TypeArray
	case analysis.TypeNumber:
		return genai.TypeNumber
	default:
		return genai.TypeString
	}
}
