package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/agent"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/config"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm/factory"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/logger"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/metrics"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/validator"
)

// Stage 编排状态
type Stage string

// 状态按顺序推进，只有个性化推荐存在 PERSONALIZED / SKIPPED 分支
const (
	StageStart         Stage = "START"
	StagePlanned       Stage = "PLANNED"
	StageCritiqued     Stage = "CRITIQUED"
	StageSentimentDone Stage = "SENTIMENT_DONE"
	StageSummarized    Stage = "SUMMARIZED"
	StageRecommended   Stage = "RECOMMENDED"
	StageCaptioned     Stage = "CAPTIONED"
	StagePersonalized  Stage = "PERSONALIZED"
	StageSkipped       Stage = "SKIPPED"
	StageValidated     Stage = "VALIDATED"
	StageDone          Stage = "DONE"
)

// ErrInvalidInput 标题为空或只有空白
var ErrInvalidInput = errors.New("invalid input: movie title is required")

// StageError 某个阶段的生成调用失败，整次分析作废
type StageError struct {
	Stage Stage
	Agent string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s agent failed: %v", e.Agent, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Engine 核心编排引擎，只持有不可变依赖，可被并发请求共享
type Engine struct {
	gen      llm.Generator
	parallel bool
	now      func() time.Time
}

// Option 引擎选项
type Option func(*Engine)

// WithParallelFacets Planner 之后并发执行各 facet agent
func WithParallelFacets(enabled bool) Option {
	return func(e *Engine) { e.parallel = enabled }
}

// WithClock 替换时间源
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine 创建引擎实例
func NewEngine(gen llm.Generator, opts ...Option) (*Engine, error) {
	if gen == nil {
		return nil, llm.ErrMissingCredentials
	}
	e := &Engine{gen: gen, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEngineFromConfig 按配置初始化 LLM 并创建引擎
func NewEngineFromConfig(ctx context.Context, cfg *config.Config) (*Engine, error) {
	gen, err := factory.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewEngine(gen, WithParallelFacets(cfg.Engine.ParallelFacets))
}

// Close 释放 Generator 持有的连接，Generator 未实现 io.Closer 时什么都不做
func (e *Engine) Close() error {
	if c, ok := e.gen.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RunOptions 运行选项
type RunOptions struct {
	Title            string
	Preferences      *model.Preferences
	ProgressCallback func(stage Stage, progress int)
}

// Analyze 执行一次完整分析
func (e *Engine) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	return e.Run(ctx, RunOptions{Title: req.Title, Preferences: req.Preferences})
}

type step struct {
	stage Stage
	agent string
	run   func(ctx context.Context) error
}

// Run 依次执行各 agent，校验后返回结果。任一生成调用失败则整体失败，不返回部分结果。
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*model.AnalysisResult, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		metrics.Analyses.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidInput
	}

	var mu sync.Mutex
	report := func(stage Stage, progress int) {
		if opts.ProgressCallback == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		opts.ProgressCallback(stage, progress)
	}

	logger.Log.Infof("Starting analysis for: %s", title)
	report(StageStart, 0)

	agents := agent.New(e.gen)

	// 1. Planner 必须最先执行，genre 是后续所有 agent 的上下文
	logger.Log.Infof("Running %s Agent...", agent.Planner)
	plan, err := agents.Plan(ctx, title)
	if err != nil {
		return nil, e.fail(&StageError{Stage: StagePlanned, Agent: agent.Planner, Err: err})
	}
	genre := plan.Genre.String()
	report(StagePlanned, 10)

	draft := model.Draft{Title: title, Genre: genre}
	var sentiment model.SentimentInfo

	personalStage := StageSkipped
	if opts.Preferences.Meaningful() {
		personalStage = StagePersonalized
	}

	// 2. 各 facet 只依赖 title 与 genre，按字段写入草稿
	steps := []step{
		{StageCritiqued, agent.Critic, func(ctx context.Context) (err error) {
			draft.CriticAnalysis, err = agents.Critique(ctx, title, genre)
			return err
		}},
		{StageSentimentDone, agent.Sentiment, func(ctx context.Context) (err error) {
			sentiment, err = agents.Sentiment(ctx, title)
			return err
		}},
		{StageSummarized, agent.Summary, func(ctx context.Context) (err error) {
			draft.Summary, err = agents.Summarize(ctx, title, genre)
			return err
		}},
		{StageRecommended, agent.Recommendation, func(ctx context.Context) (err error) {
			draft.Recommendations, err = agents.Recommend(ctx, title, genre)
			return err
		}},
		{StageCaptioned, agent.Social, func(ctx context.Context) (err error) {
			draft.InstagramCaptions, err = agents.Captions(ctx, title, genre)
			return err
		}},
		{personalStage, agent.Personalized, func(ctx context.Context) (err error) {
			draft.PersonalizedRecommendations, err = agents.Personalize(ctx, title, genre, opts.Preferences)
			return err
		}},
	}

	if e.parallel {
		err = e.runParallel(ctx, steps, report)
	} else {
		err = e.runSequential(ctx, steps, report)
	}
	if err != nil {
		return nil, e.fail(err)
	}

	draft.OverallSentiment = sentiment.Overall
	draft.AudienceSentiment = sentiment.Analysis

	// 3. Validator 最后执行，作用于完整草稿
	logger.Log.Info("Running Validator Agent...")
	result, warnings := validator.Validate(&draft)
	for _, w := range warnings {
		metrics.SpoilerWarnings.WithLabelValues(w.Field).Inc()
		logger.Log.Warnf("Potential spoiler detected in %s (%q)", w.Field, w.Term)
	}
	result.Stamp(e.now())
	report(StageValidated, 95)

	metrics.Analyses.WithLabelValues("ok").Inc()
	logger.Log.Infof("Analysis complete for: %s", title)
	report(StageDone, 100)
	return result, nil
}

func (e *Engine) runSequential(ctx context.Context, steps []step, report func(Stage, int)) error {
	for i, s := range steps {
		if s.stage == StageSkipped {
			logger.Log.Debugf("Skipping %s Agent: no preferences", s.agent)
		} else {
			logger.Log.Infof("Running %s Agent...", s.agent)
		}
		if err := s.run(ctx); err != nil {
			return &StageError{Stage: s.stage, Agent: s.agent, Err: err}
		}
		report(s.stage, progressOf(i, len(steps)))
	}
	return nil
}

func (e *Engine) runParallel(ctx context.Context, steps []step, report func(Stage, int)) error {
	g, gctx := errgroup.WithContext(ctx)
	var done int
	var mu sync.Mutex
	for _, s := range steps {
		s := s
		g.Go(func() error {
			if err := s.run(gctx); err != nil {
				return &StageError{Stage: s.stage, Agent: s.agent, Err: err}
			}
			mu.Lock()
			idx := done
			done++
			mu.Unlock()
			report(s.stage, progressOf(idx, len(steps)))
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) fail(err error) error {
	metrics.Analyses.WithLabelValues("error").Inc()
	logger.Log.Errorf("Analysis failed: %v", err)
	return err
}

// progressOf Planner 占 10%，facet 阶段占 10%~90%
func progressOf(i, total int) int {
	return 10 + (i+1)*80/total
}
