package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/server/internal/biz"
)

type analysisRepo struct {
	data *Data
	log  *log.Helper
}

func NewAnalysisRepo(data *Data, logger log.Logger) biz.AnalysisRepo {
	return &analysisRepo{data: data, log: log.NewHelper(logger)}
}

func (r *analysisRepo) SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error {
	if err := r.data.store.SaveAnalysis(ctx, result); err != nil {
		return err
	}
	r.log.WithContext(ctx).Infof("saved analysis %s for %q", result.ID, result.Title)
	return nil
}

func (r *analysisRepo) ListRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisResult, error) {
	return r.data.store.ListRecentAnalyses(ctx, limit)
}

type statusRepo struct {
	data *Data
}

func NewStatusRepo(data *Data) biz.StatusRepo {
	return &statusRepo{data: data}
}

func (r *statusRepo) SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	return r.data.store.SaveStatusCheck(ctx, check)
}

func (r *statusRepo) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	return r.data.store.ListStatusChecks(ctx, limit)
}
