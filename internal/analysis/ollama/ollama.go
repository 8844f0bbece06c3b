// Package ollama implements analysis.Generator against a local Ollama server.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/ollama/ollama/api"
)

// DefaultURL is the address of a locally running Ollama.
const DefaultURL = "http://localhost:11434"

// Generator sends chat requests with a JSON format constraint.
type Generator struct {
	client *api.Client
}

// New creates a Generator for the server at rawURL. Any path on the URL is ignored.
func New(rawURL string, httpClient *http.Client) (*Generator, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid ollama URL %q", rawURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Generator{client: api.NewClient(base, httpClient)}, nil
}

// Generate performs one non-streaming chat call. The system instruction is
// sent as a system message; image parts become message images.
func (g *Generator) Generate(ctx context.Context, req analysis.Request) (string, error) {
	format, err := json.Marshal(req.Schema)
	if err != nil {
		return "", fmt.Errorf("encode response schema: %w", err)
	}
	if req.Schema == nil {
		format = json.RawMessage(`"json"`)
	}

	stream := false
	chat := &api.ChatRequest{
		Model:    req.Model,
		Messages: Messages(req),
		Stream:   &stream,
		Format:   format,
	}

	var reply strings.Builder
	err = g.client.Chat(ctx, chat, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return StripFences(reply.String()), nil
}

// Messages builds the system and user messages for req.
func Messages(req analysis.Request) []api.Message {
	user := api.Message{Role: "user"}
	var texts []string
	for _, p := range req.Parts {
		switch v := p.(type) {
		case analysis.ImagePart:
			user.Images = append(user.Images, api.ImageData(v.Data))
		case analysis.TextPart:
			texts = append(texts, v.Text)
		}
	}
	user.Content = strings.Join(texts, "\n\n")

	var msgs []api.Message
	if req.SystemInstruction != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: req.SystemInstruction})
	}
	return append(msgs, user)
}

// StripFences removes a surrounding markdown code fence, which local models
// sometimes emit even under a format constraint.
func StripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return raw
	}
	if i := strings.Index(trimmed, "\n"); i >= 0 {
		trimmed = trimmed[i+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
