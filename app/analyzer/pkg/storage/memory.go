package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
)

// MemoryStore 进程内存储，用于本地运行与测试
type MemoryStore struct {
	mu       sync.RWMutex
	analyses []*model.AnalysisResult
	checks   []*model.StatusCheck
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveAnalysis(ctx context.Context, result *model.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = append(s.analyses, result)
	return nil
}

func (s *MemoryStore) ListRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisResult, error) {
	limit = ClampLimit(limit, DefaultAnalysesLimit, MaxAnalysesLimit)

	s.mu.RLock()
	items := make([]*model.AnalysisResult, 0, len(s.analyses))
	for i := len(s.analyses) - 1; i >= 0; i-- {
		items = append(items, s.analyses[i])
	}
	s.mu.RUnlock()

	// 时间相同时后写入的排在前面
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStore) SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks = append(s.checks, check)
	return nil
}

func (s *MemoryStore) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	limit = ClampLimit(limit, MaxStatusChecks, MaxStatusChecks)

	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.checks)
	if n > limit {
		n = limit
	}
	items := make([]*model.StatusCheck, n)
	copy(items, s.checks[:n])
	return items, nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
