package biz

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/engine"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/storage"
)

// 错误原因
const (
	ReasonInvalidInput     = "INVALID_INPUT"
	ReasonLLMNotConfigured = "LLM_NOT_CONFIGURED"
	ReasonAnalysisFailed   = "ANALYSIS_FAILED"
)

// Analyzer 执行一次完整的多 agent 分析
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
}

// AnalysisRepo 分析结果仓库
type AnalysisRepo interface {
	SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error
	ListRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisResult, error)
}

// ErrInvalidTitle 标题缺失
func ErrInvalidTitle() *errors.Error {
	return errors.BadRequest(ReasonInvalidInput, "Movie title is required")
}

type AnalysisUseCase struct {
	analyzer Analyzer
	repo     AnalysisRepo
	log      *log.Helper
}

func NewAnalysisUseCase(analyzer Analyzer, repo AnalysisRepo, logger log.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{analyzer: analyzer, repo: repo, log: log.NewHelper(logger)}
}

// Analyze 分析并写入一条记录。写入失败同样视为分析失败。
func (uc *AnalysisUseCase) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	result, err := uc.analyzer.Analyze(ctx, req)
	if err != nil {
		switch {
		case stderrors.Is(err, engine.ErrInvalidInput):
			return nil, ErrInvalidTitle()
		case stderrors.Is(err, llm.ErrMissingCredentials):
			return nil, errors.InternalServer(ReasonLLMNotConfigured, "LLM API key not configured")
		}
		uc.log.WithContext(ctx).Errorf("Analysis failed: %v", err)
		return nil, errors.InternalServer(ReasonAnalysisFailed, "Analysis failed: "+err.Error()).WithCause(err)
	}

	if err := uc.repo.SaveAnalysis(ctx, result); err != nil {
		uc.log.WithContext(ctx).Errorf("Failed to save analysis %s: %v", result.ID, err)
		return nil, errors.InternalServer(ReasonAnalysisFailed, "Analysis failed: "+err.Error()).WithCause(err)
	}
	return result, nil
}

// ListRecent 最近的分析结果，limit 会被限制在 [1, 100]
func (uc *AnalysisUseCase) ListRecent(ctx context.Context, limit int) ([]*model.AnalysisResult, error) {
	limit = storage.ClampLimit(limit, storage.DefaultAnalysesLimit, storage.MaxAnalysesLimit)
	items, err := uc.repo.ListRecentAnalyses(ctx, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.AnalysisResult{}
	}
	return items, nil
}
