// Package validator 对汇总后的草稿做确定性的清洗与限长，不调用任何外部服务。
package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iWorld-y/cine_mind/app/analyzer/pkg/model"
)

// 列表上限
const (
	MaxRecommendations = 5
	MaxCaptions        = 3
)

// 被检查剧透的字段名
const (
	FieldCriticAnalysis    = "critic_analysis"
	FieldSummary           = "summary"
	FieldAudienceSentiment = "audience_sentiment"
)

// SpoilerTerms 疑似剧透的关键词，大小写不敏感
var SpoilerTerms = []string{"dies", "killed", "murder", "twist is", "ending", "final scene", "plot twist"}

// Warning 疑似剧透提示，仅用于观测，不会修改内容
type Warning struct {
	Field string
	Term  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s contains %q", w.Field, w.Term)
}

// Validate 把草稿整理为结构合法的结果，永不失败。
// 结果尚未分配 ID 与时间戳。
func Validate(d *model.Draft) (*model.AnalysisResult, []Warning) {
	warnings := scanSpoilers(map[string]string{
		FieldCriticAnalysis:    d.CriticAnalysis,
		FieldSummary:           d.Summary,
		FieldAudienceSentiment: d.AudienceSentiment,
	})

	return &model.AnalysisResult{
		Title:                       d.Title,
		Genre:                       d.Genre,
		OverallSentiment:            d.OverallSentiment,
		CriticAnalysis:              d.CriticAnalysis,
		AudienceSentiment:           d.AudienceSentiment,
		Summary:                     d.Summary,
		Recommendations:             Recommendations(d.Recommendations, MaxRecommendations),
		PersonalizedRecommendations: Recommendations(d.PersonalizedRecommendations, MaxRecommendations),
		InstagramCaptions:           Captions(d.InstagramCaptions, MaxCaptions),
	}, warnings
}

func scanSpoilers(fields map[string]string) []Warning {
	var warnings []Warning
	// 固定顺序，便于日志与测试
	for _, field := range []string{FieldCriticAnalysis, FieldSummary, FieldAudienceSentiment} {
		content := strings.ToLower(fields[field])
		for _, term := range SpoilerTerms {
			if strings.Contains(content, term) {
				warnings = append(warnings, Warning{Field: field, Term: term})
			}
		}
	}
	return warnings
}

// Recommendations 非数组时返回空列表，否则转换每个对象元素并截断到 limit。
// 非对象元素被丢弃，缺失的字段留空。
func Recommendations(raw json.RawMessage, limit int) []model.Recommendation {
	items, ok := asArray(raw)
	if !ok {
		return []model.Recommendation{}
	}

	out := make([]model.Recommendation, 0, min(len(items), limit))
	for _, item := range items {
		if len(out) == limit {
			break
		}
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		rec := model.Recommendation{Title: text(obj["title"]), Reason: text(obj["reason"])}
		if rec.Title == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Captions 非数组时返回空列表，否则保留非空字符串元素并截断到 limit
func Captions(raw json.RawMessage, limit int) []string {
	items, ok := asArray(raw)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, min(len(items), limit))
	for _, item := range items {
		if len(out) == limit {
			break
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
