package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/einoopenai"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/gemini"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
)

// NewGenerator 根据配置创建 Generator
func NewGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if cfg.LLM.APIKey == "" {
		return nil, llm.ErrMissingCredentials
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "", "openai":
		return einoopenai.NewClient(ctx, cfg.LLM, cfg.Concurrency)
	case "gemini":
		return gemini.NewClient(ctx, cfg.LLM, cfg.Concurrency)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}
