package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
)

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestClient_Generate(t *testing.T) {
	var gotRole, gotPrompt string
	c := &Client{
		generate: func(ctx context.Context, role, prompt string) (*genai.GenerateContentResponse, error) {
			gotRole, gotPrompt = role, prompt
			return textResponse(`{"genre":`, `"Sci-Fi"}`), nil
		},
	}

	out, err := c.Generate(context.Background(), "planner", "Analyze Alien")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != `{"genre":"Sci-Fi"}` {
		t.Errorf("Generate() = %q", out)
	}
	if gotRole != "planner" || gotPrompt != "Analyze Alien" {
		t.Errorf("got role=%q prompt=%q", gotRole, gotPrompt)
	}
}

func TestClient_GenerateEmptyResponse(t *testing.T) {
	c := &Client{
		generate: func(ctx context.Context, role, prompt string) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		},
	}
	if _, err := c.Generate(context.Background(), "role", "prompt"); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestClient_GenerateError(t *testing.T) {
	boom := errors.New("permission denied")
	c := &Client{
		generate: func(ctx context.Context, role, prompt string) (*genai.GenerateContentResponse, error) {
			return nil, boom
		},
	}
	if _, err := c.Generate(context.Background(), "role", "prompt"); !errors.Is(err, boom) {
		t.Errorf("Generate() error = %v", err)
	}
}

func TestNewClient_MissingKey(t *testing.T) {
	if _, err := NewClient(context.Background(), config.LLMConfig{}, config.ConcurrencyConfig{}); !errors.Is(err, llm.ErrMissingCredentials) {
		t.Errorf("NewClient() error = %v", err)
	}
}
