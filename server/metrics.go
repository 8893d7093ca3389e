package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 服务指标集合。
type Metrics struct {
	// RequestsTotal 按路由/状态码计数
	RequestsTotal *prometheus.CounterVec
	// RequestDuration 请求耗时分布
	RequestDuration *prometheus.HistogramVec
	// RecommendationsServed 成功下发的推荐条数
	RecommendationsServed prometheus.Counter
	// ExhaustionsTotal 会话目录耗尽次数
	ExhaustionsTotal prometheus.Counter
	// ActionsTotal 按动作类型计数
	ActionsTotal *prometheus.CounterVec
	// SteersTotal 按引导方式计数
	SteersTotal *prometheus.CounterVec
}

// NewMetrics 注册并返回服务指标。reg 为 nil 时使用默认注册表。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stylekit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stylekit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		RecommendationsServed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stylekit",
			Name:      "recommendations_served_total",
			Help:      "Recommendations returned to callers.",
		}),
		ExhaustionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stylekit",
			Name:      "catalog_exhaustions_total",
			Help:      "Sessions that ran out of unseen items.",
		}),
		ActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stylekit",
			Name:      "actions_total",
			Help:      "Preference updates by action type.",
		}, []string{"action"}),
		SteersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stylekit",
			Name:      "steers_total",
			Help:      "Steering requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}
