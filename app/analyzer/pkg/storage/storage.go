// Package storage 持久化分析结果与状态检查记录。
// 支持 postgres、mongo 与进程内 memory 三种后端。
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
)

// 默认与最大查询条数
const (
	DefaultAnalysesLimit = 10
	MaxAnalysesLimit     = 100
	MaxStatusChecks      = 1000
)

// ErrUnknownDriver 不支持的存储驱动
var ErrUnknownDriver = errors.New("unknown store driver")

// Store 存储接口
type Store interface {
	// SaveAnalysis 追加一条分析结果，不做去重
	SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error
	// ListRecentAnalyses 按时间倒序返回最近的分析结果
	ListRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisResult, error)
	// SaveStatusCheck 追加一条状态检查记录
	SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error
	// ListStatusChecks 按写入顺序返回状态检查记录
	ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error)
	Close(ctx context.Context) error
}

// NewStore 按配置创建存储
func NewStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN)
	case "mongo", "mongodb":
		return NewMongoStore(ctx, cfg.DSN, cfg.Database)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// ClampLimit 把查询条数限制在 [1, max]，非正数使用 def
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
