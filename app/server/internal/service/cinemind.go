package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-playground/validator/v10"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/server/internal/biz"
)

// WelcomeMessage GET /api/ 的返回信息
const WelcomeMessage = "CineMind AI - Movie Intelligence System"

var validate = validator.New(validator.WithRequiredStructEnabled())

type RootReply struct {
	Message string `json:"message"`
}

type AnalyzeMovieRequest struct {
	MovieTitle  string             `json:"movie_title" validate:"required"`
	Preferences *model.Preferences `json:"preferences,omitempty"`
}

type ListAnalysesRequest struct {
	Limit int `json:"limit"`
}

type StatusCheckCreate struct {
	ClientName string `json:"client_name" validate:"required"`
}

type CineMindService struct {
	ucAnalysis *biz.AnalysisUseCase
	ucStatus   *biz.StatusUseCase
	log        *log.Helper
}

func NewCineMindService(ucAnalysis *biz.AnalysisUseCase, ucStatus *biz.StatusUseCase, logger log.Logger) *CineMindService {
	return &CineMindService{
		ucAnalysis: ucAnalysis,
		ucStatus:   ucStatus,
		log:        log.NewHelper(logger),
	}
}

func (s *CineMindService) Root(ctx context.Context) (*RootReply, error) {
	return &RootReply{Message: WelcomeMessage}, nil
}

func (s *CineMindService) AnalyzeMovie(ctx context.Context, req *AnalyzeMovieRequest) (*model.AnalysisResult, error) {
	// 只有空白的标题同样视为缺失，需在检查 LLM 配置之前拒绝
	if err := validate.Struct(req); err != nil || strings.TrimSpace(req.MovieTitle) == "" {
		return nil, biz.ErrInvalidTitle()
	}
	return s.ucAnalysis.Analyze(ctx, model.AnalysisRequest{
		Title:       req.MovieTitle,
		Preferences: req.Preferences,
	})
}

func (s *CineMindService) ListAnalyses(ctx context.Context, req *ListAnalysesRequest) ([]*model.AnalysisResult, error) {
	return s.ucAnalysis.ListRecent(ctx, req.Limit)
}

func (s *CineMindService) CreateStatusCheck(ctx context.Context, req *StatusCheckCreate) (*model.StatusCheck, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.BadRequest(biz.ReasonInvalidInput, "client_name is required")
	}
	return s.ucStatus.Create(ctx, req.ClientName)
}

func (s *CineMindService) ListStatusChecks(ctx context.Context) ([]*model.StatusCheck, error) {
	return s.ucStatus.List(ctx)
}

// parseLimit 空值返回 0，由用例层套用默认值
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest("INVALID_LIMIT", "limit must be an integer")
	}
	return n, nil
}
