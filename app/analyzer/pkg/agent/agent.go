package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/extract"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/llm"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/logger"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/metrics"
	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
)

// Agent 名称
const (
	Planner        = "Planner"
	Critic         = "Critic"
	Sentiment      = "Sentiment"
	Summary        = "Summary"
	Recommendation = "Recommendation"
	Social         = "Social Media"
	Personalized   = "Personalized Recommendation"
)

// 解析失败时使用的默认值
const (
	DefaultGenre     = "Drama"
	DefaultYear      = "N/A"
	DefaultAnalysis  = "Audience reception varies based on individual preferences."
	maxFavoriteFilms = 5
)

// DefaultPlan Planner 的默认输出
func DefaultPlan() model.PlanInfo {
	return model.PlanInfo{Genre: DefaultGenre, Year: DefaultYear, MediaType: model.MediaMovie}
}

// DefaultSentiment Sentiment 的默认输出
func DefaultSentiment() model.SentimentInfo {
	return model.SentimentInfo{Overall: model.SentimentMixed, Analysis: DefaultAnalysis}
}

// DefaultRecommendations Recommendation 的默认输出
func DefaultRecommendations() []model.Recommendation {
	return []model.Recommendation{{Title: "Similar Movie", Reason: "Based on similar themes and genre."}}
}

// DefaultCaptions Social 的默认输出
func DefaultCaptions(title string) []string {
	return []string{
		fmt.Sprintf("Just watched %s! 🎬✨ #MovieNight #Cinema", title),
		fmt.Sprintf("%s hits different 🔥 #MustWatch #Film", title),
		fmt.Sprintf("This one's a gem 💎 %s #Movies #Recommended", title),
	}
}

// Agents 持有一次分析所需的 Generator，各方法互不共享状态
type Agents struct {
	gen llm.Generator
}

// New 创建 Agents
func New(gen llm.Generator) *Agents {
	return &Agents{gen: gen}
}

func (a *Agents) call(ctx context.Context, name, role, prompt string) (string, error) {
	start := time.Now()
	out, err := a.gen.Generate(ctx, role, prompt)
	metrics.AgentDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AgentCalls.WithLabelValues(name, "error").Inc()
		return "", err
	}
	metrics.AgentCalls.WithLabelValues(name, "ok").Inc()
	return out, nil
}

func fallback(name string, err error) {
	metrics.ExtractionFallbacks.WithLabelValues(name).Inc()
	logger.Log.Warnf("%s Agent 输出无法解析，使用默认值: %v", name, err)
}

// Plan 识别作品的类型、年份与媒体形式
func (a *Agents) Plan(ctx context.Context, title string) (model.PlanInfo, error) {
	out, err := a.call(ctx, Planner, plannerRole, fmt.Sprintf(plannerPrompt, title))
	if err != nil {
		return model.PlanInfo{}, err
	}

	var plan model.PlanInfo
	if err := extract.JSON(out, &plan); err != nil {
		fallback(Planner, err)
		return DefaultPlan(), nil
	}
	plan.Genre = model.FlexString(plan.Genre.Or(DefaultGenre))
	plan.Year = model.FlexString(plan.Year.Or(DefaultYear))
	plan.MediaType = model.FlexString(normalizeMediaType(plan.MediaType.String()))
	return plan, nil
}

// Critique 专业影评，原样接受模型输出
func (a *Agents) Critique(ctx context.Context, title, genre string) (string, error) {
	out, err := a.call(ctx, Critic, criticRole, fmt.Sprintf(criticPrompt, title, genre))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Sentiment 观众口碑
func (a *Agents) Sentiment(ctx context.Context, title string) (model.SentimentInfo, error) {
	out, err := a.call(ctx, Sentiment, sentimentRole, fmt.Sprintf(sentimentPrompt, title))
	if err != nil {
		return model.SentimentInfo{}, err
	}

	var info model.SentimentInfo
	if err := extract.JSON(out, &info); err != nil {
		fallback(Sentiment, err)
		return DefaultSentiment(), nil
	}
	info.Overall = normalizeSentiment(info.Overall)
	info.Analysis = strings.TrimSpace(info.Analysis)
	return info, nil
}

// Summarize 无剧透简介，原样接受模型输出
func (a *Agents) Summarize(ctx context.Context, title, genre string) (string, error) {
	out, err := a.call(ctx, Summary, summaryRole, fmt.Sprintf(summaryPrompt, title, genre))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Recommend 相似作品推荐。返回原始 JSON，形状由 Validator 纠正。
func (a *Agents) Recommend(ctx context.Context, title, genre string) (json.RawMessage, error) {
	out, err := a.call(ctx, Recommendation, recommendationRole, fmt.Sprintf(recommendationPrompt, title, genre))
	if err != nil {
		return nil, err
	}
	return rawOr(Recommendation, out, DefaultRecommendations()), nil
}

// Captions Instagram 文案
func (a *Agents) Captions(ctx context.Context, title, genre string) (json.RawMessage, error) {
	out, err := a.call(ctx, Social, socialRole, fmt.Sprintf(socialPrompt, title, genre))
	if err != nil {
		return nil, err
	}
	return rawOr(Social, out, DefaultCaptions(title)), nil
}

// Personalize 基于用户偏好的推荐。偏好为空时直接返回空列表，不调用 Generator。
func (a *Agents) Personalize(ctx context.Context, title, genre string, prefs *model.Preferences) (json.RawMessage, error) {
	if !prefs.Meaningful() {
		return json.RawMessage("[]"), nil
	}

	prompt := fmt.Sprintf(personalizedPrompt, title, genre, preferenceContext(prefs))
	out, err := a.call(ctx, Personalized, personalizedRole, prompt)
	if err != nil {
		return nil, err
	}
	return rawOr(Personalized, out, []model.Recommendation{}), nil
}

func rawOr[T any](name, out string, def T) json.RawMessage {
	var raw json.RawMessage
	if err := extract.JSON(out, &raw); err != nil {
		fallback(name, err)
		b, _ := json.Marshal(def)
		return b
	}
	return raw
}

func preferenceContext(p *model.Preferences) string {
	var parts []string
	if genres := nonEmpty(p.FavoriteGenres); len(genres) > 0 {
		parts = append(parts, "Preferred genres: "+strings.Join(genres, ", "))
	}
	if langs := nonEmpty(p.FavoriteLanguages); len(langs) > 0 {
		parts = append(parts, "Preferred languages: "+strings.Join(langs, ", "))
	}
	if movies := nonEmpty(p.FavoriteMovies); len(movies) > 0 {
		if len(movies) > maxFavoriteFilms {
			movies = movies[:maxFavoriteFilms]
		}
		parts = append(parts, "Favorite movies: "+strings.Join(movies, ", "))
	}
	if mood := strings.TrimSpace(p.CurrentMood); mood != "" {
		parts = append(parts, "Current mood: "+mood)
	}
	return strings.Join(parts, ". ")
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func normalizeSentiment(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "mixed"):
		return model.SentimentMixed
	case strings.Contains(lower, "negative"):
		return model.SentimentNegative
	case strings.Contains(lower, "positive"):
		return model.SentimentPositive
	default:
		return model.SentimentMixed
	}
}

func normalizeMediaType(s string) string {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "series") || strings.Contains(lower, "tv") || strings.Contains(lower, "show") {
		return model.MediaTVSeries
	}
	return model.MediaMovie
}
