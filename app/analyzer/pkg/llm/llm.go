package llm

import (
	"context"
	"errors"
)

// ErrMissingCredentials 未配置 LLM API Key
var ErrMissingCredentials = errors.New("LLM API key not configured")

// Generator 定义通用的文本生成接口。
// 每次调用都是独立的单轮对话，不复用历史消息。
type Generator interface {
	Generate(ctx context.Context, roleInstruction, userPrompt string) (string, error)
}

// GeneratorFunc 函数适配器
type GeneratorFunc func(ctx context.Context, roleInstruction, userPrompt string) (string, error)

// Generate implements Generator
func (f GeneratorFunc) Generate(ctx context.Context, roleInstruction, userPrompt string) (string, error) {
	return f(ctx, roleInstruction, userPrompt)
}
