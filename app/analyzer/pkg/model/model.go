package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout 持久化时间戳使用的定长 UTC 文本格式，字典序即时间序
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// 媒体类型
const (
	MediaMovie    = "Movie"
	MediaTVSeries = "TV Series"
)

// 观众整体口碑
const (
	SentimentPositive = "Positive"
	SentimentMixed    = "Mixed"
	SentimentNegative = "Negative"
)

// Preferences 用户口味偏好，各字段均可为空
type Preferences struct {
	FavoriteGenres    []string `json:"favorite_genres" yaml:"favorite_genres"`
	FavoriteLanguages []string `json:"favorite_languages" yaml:"favorite_languages"`
	FavoriteMovies    []string `json:"favorite_movies" yaml:"favorite_movies"`
	CurrentMood       string   `json:"current_mood,omitempty" yaml:"current_mood"`
}

// Meaningful 至少有一个非空字段时返回 true。
// 列表只看是否有元素，不检查元素内容。
func (p *Preferences) Meaningful() bool {
	if p == nil {
		return false
	}
	return len(p.FavoriteGenres) > 0 ||
		len(p.FavoriteLanguages) > 0 ||
		len(p.FavoriteMovies) > 0 ||
		p.CurrentMood != ""
}

// AnalysisRequest 一次分析请求
type AnalysisRequest struct {
	Title       string
	Preferences *Preferences
}

// PlanInfo Planner 产出的基础元数据，只有 Genre 会传递给后续阶段
type PlanInfo struct {
	Genre     FlexString `json:"genre"`
	Year      FlexString `json:"year"`
	MediaType FlexString `json:"type"`
}

// SentimentInfo 观众口碑
type SentimentInfo struct {
	Overall  string `json:"overall"`
	Analysis string `json:"analysis"`
}

// Recommendation 单条推荐
type Recommendation struct {
	Title  string `json:"title" bson:"title"`
	Reason string `json:"reason" bson:"reason"`
}

// Draft 校验前的各个 facet 汇总。
// 列表类 facet 保留原始 JSON，由 Validator 统一纠正形状。
type Draft struct {
	Title                       string
	Genre                       string
	OverallSentiment            string
	CriticAnalysis              string
	AudienceSentiment           string
	Summary                     string
	Recommendations             json.RawMessage
	PersonalizedRecommendations json.RawMessage
	InstagramCaptions           json.RawMessage
}

// AnalysisResult 最终分析结果，创建后不再修改
type AnalysisResult struct {
	ID                          string           `json:"id"`
	Title                       string           `json:"movie_title"`
	Genre                       string           `json:"genre"`
	OverallSentiment            string           `json:"overall_sentiment"`
	CriticAnalysis              string           `json:"critic_analysis"`
	AudienceSentiment           string           `json:"audience_sentiment"`
	Summary                     string           `json:"summary"`
	Recommendations             []Recommendation `json:"recommendations"`
	PersonalizedRecommendations []Recommendation `json:"personalized_recommendations"`
	InstagramCaptions           []string         `json:"instagram_captions"`
	Timestamp                   time.Time        `json:"timestamp"`
}

// Stamp 分配 ID 与 UTC 时间戳
func (r *AnalysisResult) Stamp(now time.Time) {
	r.ID = uuid.NewString()
	r.Timestamp = now.UTC()
}

// StatusCheck 客户端状态检查记录
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewStatusCheck 创建状态检查记录
func NewStatusCheck(clientName string, now time.Time) *StatusCheck {
	return &StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  now.UTC(),
	}
}

// FormatTimestamp 序列化为持久化使用的文本形式
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp 解析持久化的文本时间戳，同时兼容 RFC3339
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
