// Package server 提供推荐引擎的 HTTP/JSON 外层接口。
//
// 路由分层：
//   - /api/v1/* 业务接口（偏好构建 / 推荐 / 反馈 / 引导 / 会话）
//   - /healthz 就绪探针，/metrics Prometheus 指标
//
// 偏好向量经调用方往返：服务端不持久化偏好，每个请求自带当前向量，
// 响应返回更新后的向量。并发同会话写偏好时后写覆盖先写。
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/stylekit/catalog"
	"github.com/rushteam/stylekit/coldstart"
	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/learn"
	"github.com/rushteam/stylekit/recall"
	"github.com/rushteam/stylekit/session"
	"github.com/rushteam/stylekit/steer"
)

// Engine 是引擎各组件的装配结果，启动后只读。
type Engine struct {
	Catalog   *catalog.Catalog
	Builder   *coldstart.Builder
	Retriever *recall.Retriever
	Learner   *learn.Learner
	Steerer   *steer.Steerer
	Tracker   *session.Tracker
	Config    core.EngineConfig
}

// Server HTTP 服务。
type Server struct {
	engine  *Engine
	logger  *slog.Logger
	metrics *Metrics

	// maxImageBytes 引导图片上传大小上限
	maxImageBytes int64
}

// Option 服务配置选项
type Option func(*Server)

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics 设置指标集合
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithMaxImageBytes 设置图片上传大小上限
func WithMaxImageBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxImageBytes = n
		}
	}
}

// New 创建服务。
func New(engine *Engine, opts ...Option) *Server {
	s := &Server{
		engine:        engine,
		maxImageBytes: 10 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// Router 组装路由。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog(s.logger, s.metrics))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/preference", s.handlePreference)
		r.Post("/recommendation", s.handleRecommendation)
		r.Post("/action", s.handleAction)
		r.Post("/steer/image", s.handleSteerImage)
		r.Post("/steer/text", s.handleSteerText)
		r.Post("/session/{id}/reset", s.handleSessionReset)
		r.Get("/session/{id}/seen", s.handleSessionSeen)
	})

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
