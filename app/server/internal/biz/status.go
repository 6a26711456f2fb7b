package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/storage"
)

type StatusRepo interface {
	SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error
	ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error)
}

type StatusUseCase struct {
	repo StatusRepo
	now  func() time.Time
	log  *log.Helper
}

func NewStatusUseCase(repo StatusRepo, logger log.Logger) *StatusUseCase {
	return &StatusUseCase{repo: repo, now: time.Now, log: log.NewHelper(logger)}
}

func (uc *StatusUseCase) Create(ctx context.Context, clientName string) (*model.StatusCheck, error) {
	check := model.NewStatusCheck(clientName, uc.now())
	if err := uc.repo.SaveStatusCheck(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}

func (uc *StatusUseCase) List(ctx context.Context) ([]*model.StatusCheck, error) {
	items, err := uc.repo.ListStatusChecks(ctx, storage.MaxStatusChecks)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.StatusCheck{}
	}
	return items, nil
}
