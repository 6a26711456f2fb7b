package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
)

// DefaultModel 未配置模型时使用的 Gemini 模型
const DefaultModel = "gemini-2.0-flash"

type generateFunc func(ctx context.Context, roleInstruction, userPrompt string) (*genai.GenerateContentResponse, error)

// Client Gemini 版本的 Generator
type Client struct {
	client   *genai.Client
	generate generateFunc
	timeout  time.Duration
	limiter  *rate.Limiter
	retry    llm.RetryPolicy
}

// Ensure Client implements llm.Generator
var _ llm.Generator = (*Client)(nil)

// NewClient 创建 Gemini 客户端
func NewClient(ctx context.Context, cfg config.LLMConfig, cc config.ConcurrencyConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, llm.ErrMissingCredentials
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:  gc,
		timeout: cfg.Timeout,
		limiter: llm.NewLimiter(cc.RPM, cc.QPS),
		retry:   llm.DefaultRetryPolicy,
	}
	c.generate = func(ctx context.Context, roleInstruction, userPrompt string) (*genai.GenerateContentResponse, error) {
		// GenerativeModel 每次新建，调用之间不共享会话
		m := gc.GenerativeModel(modelName)
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(roleInstruction)}}
		return m.GenerateContent(ctx, genai.Text(userPrompt))
	}
	return c, nil
}

// Generate implements llm.Generator
func (c *Client) Generate(ctx context.Context, roleInstruction, userPrompt string) (string, error) {
	if strings.TrimSpace(roleInstruction) == "" {
		return "", fmt.Errorf("role instruction is required")
	}

	return c.retry.Do(ctx, c.limiter, func() (string, error) {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		resp, err := c.generate(callCtx, roleInstruction, userPrompt)
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		text := responseText(resp)
		if text == "" {
			return "", fmt.Errorf("empty response from model")
		}
		return text, nil
	})
}

// Close 释放底层连接
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
