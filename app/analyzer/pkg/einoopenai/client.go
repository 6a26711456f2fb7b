package einoopenai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
)

// Client 基于 eino OpenAI 兼容协议的 Generator
type Client struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
	retry     llm.RetryPolicy
}

// Ensure Client implements llm.Generator
var _ llm.Generator = (*Client)(nil)

// NewClient 创建客户端，API Key 通过参数显式传入
func NewClient(ctx context.Context, cfg config.LLMConfig, cc config.ConcurrencyConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, llm.ErrMissingCredentials
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return NewWithModel(chatModel, llm.NewLimiter(cc.RPM, cc.QPS)), nil
}

// NewWithModel 使用已有的 ChatModel 创建客户端
func NewWithModel(cm model.BaseChatModel, limiter *rate.Limiter) *Client {
	return &Client{
		chatModel: cm,
		limiter:   limiter,
		retry:     llm.DefaultRetryPolicy,
	}
}

// Generate implements llm.Generator
func (c *Client) Generate(ctx context.Context, roleInstruction, userPrompt string) (string, error) {
	if strings.TrimSpace(roleInstruction) == "" {
		return "", fmt.Errorf("role instruction is required")
	}

	return c.retry.Do(ctx, c.limiter, func() (string, error) {
		messages := []*schema.Message{
			{Role: schema.System, Content: roleInstruction},
			{Role: schema.User, Content: userPrompt},
		}

		resp, err := c.chatModel.Generate(ctx, messages)
		if err != nil {
			return "", err
		}
		if resp == nil {
			return "", fmt.Errorf("empty response from model")
		}
		return resp.Content, nil
	})
}
