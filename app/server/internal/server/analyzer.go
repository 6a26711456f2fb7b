package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/engine"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
	cmLogger "github.com/iWorld-y/cine_mind/app/analyzer/pkg/logger"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/server/internal/biz"
	"github.com/iWorld-y/cine_mind/app/server/internal/conf"
)

// unconfiguredAnalyzer 未配置 API key 时服务仍可启动，分析请求统一返回配置错误
type unconfiguredAnalyzer struct{}

func (unconfiguredAnalyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, engine.ErrInvalidInput
	}
	return nil, llm.ErrMissingCredentials
}

// NewAnalyzer 初始化分析引擎，cleanup 负责关闭 LLM 客户端
func NewAnalyzer(c *conf.Analyzer, logger log.Logger) (biz.Analyzer, func(), error) {
	helper := log.NewHelper(logger)
	cfg := toEngineConfig(c)

	if err := cmLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init analyzer logger: %v", err)
		_ = cmLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngineFromConfig(context.Background(), cfg)
	if errors.Is(err, llm.ErrMissingCredentials) {
		helper.Warn("LLM API key not configured, analysis requests will fail")
		return unconfiguredAnalyzer{}, func() {}, nil
	}
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the analyzer engine")
		if err := eng.Close(); err != nil {
			helper.Errorf("failed to close llm client: %v", err)
		}
	}
	return eng, cleanup, nil
}

// toEngineConfig 将 internal/conf.Analyzer 转换为 pkg/config.Config
func toEngineConfig(c *conf.Analyzer) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.ApplyDefaults()
		return cfg
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			Provider: c.Llm.Provider,
			BaseURL:  c.Llm.BaseUrl,
			APIKey:   c.Llm.ApiKey,
			Model:    c.Llm.Model,
		}
		if d, err := time.ParseDuration(c.Llm.Timeout); err == nil {
			cfg.LLM.Timeout = d
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{QPS: int(c.Concurrency.Qps), RPM: int(c.Concurrency.Rpm)}
	}
	if c.Engine != nil {
		cfg.Engine.ParallelFacets = c.Engine.ParallelFacets
	}
	cfg.ApplyDefaults()
	return cfg
}
