package biz

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/engine"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
)

// mockAnalyzer 模拟分析引擎
type mockAnalyzer struct {
	err   error
	calls int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	r := &model.AnalysisResult{Title: req.Title, Genre: "Sci-Fi"}
	r.Stamp(time.Now())
	return r, nil
}

// mockAnalysisRepo 模拟分析结果仓库
type mockAnalysisRepo struct {
	saved     []*model.AnalysisResult
	saveErr   error
	lastLimit int
}

func (m *mockAnalysisRepo) SaveAnalysis(ctx context.Context, r *model.AnalysisResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *mockAnalysisRepo) ListRecentAnalyses(ctx context.Context, limit int) ([]*model.AnalysisResult, error) {
	m.lastLimit = limit
	return nil, nil
}

func TestAnalysisUseCase_AnalyzeSavesOnce(t *testing.T) {
	repo := &mockAnalysisRepo{}
	uc := NewAnalysisUseCase(&mockAnalyzer{}, repo, log.DefaultLogger)

	res, err := uc.Analyze(context.Background(), model.AnalysisRequest{Title: "Arrival"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(repo.saved) != 1 || repo.saved[0] != res {
		t.Errorf("saved = %v", repo.saved)
	}
}

func TestAnalysisUseCase_AnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		saveErr  error
		code     int
		reason   string
		saved    int
		contains string
	}{
		{"invalid title", engine.ErrInvalidInput, nil, 400, ReasonInvalidInput, 0, ""},
		{"missing key", llm.ErrMissingCredentials, nil, 500, ReasonLLMNotConfigured, 0, ""},
		{"stage failure", &engine.StageError{Stage: engine.StageCritiqued, Agent: "Critic", Err: stderrors.New("timeout")}, nil, 500, ReasonAnalysisFailed, 0, "Analysis failed: Critic agent failed: timeout"},
		{"save failure", nil, stderrors.New("disk full"), 500, ReasonAnalysisFailed, 0, "Analysis failed: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAnalysisRepo{saveErr: tt.saveErr}
			uc := NewAnalysisUseCase(&mockAnalyzer{err: tt.err}, repo, log.DefaultLogger)

			res, err := uc.Analyze(context.Background(), model.AnalysisRequest{Title: "X"})
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			e := errors.FromError(err)
			if int(e.Code) != tt.code || e.Reason != tt.reason {
				t.Errorf("error = %v, want %d %s", err, tt.code, tt.reason)
			}
			if tt.contains != "" && e.Message != tt.contains {
				t.Errorf("message = %q, want %q", e.Message, tt.contains)
			}
			if len(repo.saved) != tt.saved {
				t.Errorf("saved = %d", len(repo.saved))
			}
		})
	}
}

func TestAnalysisUseCase_ListRecentClampsLimit(t *testing.T) {
	for _, tt := range []struct{ in, want int }{{0, 10}, {5, 5}, {1000, 100}} {
		repo := &mockAnalysisRepo{}
		uc := NewAnalysisUseCase(&mockAnalyzer{}, repo, log.DefaultLogger)
		items, err := uc.ListRecent(context.Background(), tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if items == nil {
			t.Error("ListRecent() returned nil slice")
		}
		if repo.lastLimit != tt.want {
			t.Errorf("limit %d -> %d, want %d", tt.in, repo.lastLimit, tt.want)
		}
	}
}

type mockStatusRepo struct {
	checks []*model.StatusCheck
	err    error
}

func (m *mockStatusRepo) SaveStatusCheck(ctx context.Context, c *model.StatusCheck) error {
	if m.err != nil {
		return m.err
	}
	m.checks = append(m.checks, c)
	return nil
}

func (m *mockStatusRepo) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	if len(m.checks) > limit {
		return m.checks[:limit], nil
	}
	return m.checks, nil
}

func TestStatusUseCase(t *testing.T) {
	repo := &mockStatusRepo{}
	uc := NewStatusUseCase(repo, log.DefaultLogger)
	uc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	for i := 0; i < 3; i++ {
		c, err := uc.Create(context.Background(), fmt.Sprintf("client-%d", i))
		if err != nil {
			t.Fatal(err)
		}
		if c.ID == "" || c.Timestamp.Year() != 2026 {
			t.Errorf("check = %+v", c)
		}
	}
	items, err := uc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || items[0].ClientName != "client-0" {
		t.Errorf("items = %+v", items)
	}

	repo.err = stderrors.New("down")
	if _, err := uc.Create(context.Background(), "x"); err == nil {
		t.Error("Create() error = nil")
	}
}
