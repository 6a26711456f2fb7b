// Package metrics 定义分析流水线的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AgentCalls 每个 agent 调用 Generator 的次数，outcome 为 ok / error
	AgentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_agent_calls_total",
			Help: "Generation calls made by each agent",
		},
		[]string{"agent", "outcome"},
	)

	// AgentDuration 单次 Generator 调用耗时
	AgentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemind_agent_call_duration_seconds",
			Help:    "Latency of generation calls per agent",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"agent"},
	)

	// ExtractionFallbacks 模型输出无法解析、使用默认值的次数
	ExtractionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_extraction_fallbacks_total",
			Help: "Agent outputs that could not be parsed and fell back to defaults",
		},
		[]string{"agent"},
	)

	// SpoilerWarnings 疑似剧透的字段
	SpoilerWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_spoiler_warnings_total",
			Help: "Potential spoiler terms detected per field",
		},
		[]string{"field"},
	)

	// Analyses 分析请求结果，outcome 为 ok / invalid / error
	Analyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemind_analyses_total",
			Help: "Completed analysis runs",
		},
		[]string{"outcome"},
	)
)
