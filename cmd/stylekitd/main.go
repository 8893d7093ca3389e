// stylekitd 是推荐引擎的服务端入口。
//
// 用法：
//
//	stylekitd -config config.yaml
//
// 启动流程：加载配置 → 加载资产（属性空间/目录/向量/原型，视觉可选）→
// 构建索引 → 装配引擎 → 启动 HTTP 服务。收到 SIGINT/SIGTERM 后优雅退出。
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rushteam/stylekit/catalog"
	"github.com/rushteam/stylekit/coldstart"
	"github.com/rushteam/stylekit/config"
	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/filter"
	"github.com/rushteam/stylekit/learn"
	"github.com/rushteam/stylekit/recall"
	"github.com/rushteam/stylekit/server"
	"github.com/rushteam/stylekit/service"
	"github.com/rushteam/stylekit/session"
	"github.com/rushteam/stylekit/steer"
	"github.com/rushteam/stylekit/store"
	"github.com/rushteam/stylekit/vector"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to service config")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.LoadFromYAML(configPath)
	if err != nil {
		return err
	}
	engineCfg := cfg.EngineSettings()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assets, err := catalog.Load(ctx, catalog.AssetPaths{
		AttrNames:  cfg.Assets.AttrNames,
		Items:      cfg.Assets.Items,
		Vectors:    cfg.Assets.Vectors,
		Archetypes: cfg.Assets.Archetypes,
		Visual:     cfg.Assets.Visual,
	})
	if err != nil {
		return err
	}
	logger.Info("assets loaded",
		"items", assets.Catalog.Len(),
		"dims", assets.Catalog.Space().Size(),
		"visual_enabled", assets.Visual.Enabled(),
	)

	index, err := vector.FromItems(assets.Catalog.Space(), assets.Catalog.Items())
	if err != nil {
		return err
	}

	var kv core.KeyValueStore
	if cfg.Redis.Addr != "" {
		rs, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		kv = rs
		logger.Info("session store", "backend", rs.Name(), "addr", cfg.Redis.Addr)
	} else {
		kv = store.NewMemoryStore()
		logger.Info("session store", "backend", "memory")
	}
	defer kv.Close()

	tracker := session.NewTracker(kv)

	filters := []filter.Filter{filter.NewSeenFilter(tracker)}
	if len(cfg.FilterRules) > 0 {
		ruleFilter, err := filter.NewRuleFilter(cfg.FilterRules)
		if err != nil {
			return err
		}
		filters = append(filters, ruleFilter)
	}

	retriever := recall.NewRetriever(assets.Catalog, index, tracker, filters, engineCfg, logger)
	learner := learn.NewLearner(engineCfg)
	builder := coldstart.NewBuilder(assets.Catalog, assets.Archetypes, engineCfg)

	embedder := service.NewVisualEmbedClient(cfg.Upstream.VisualEmbed,
		service.WithVisualEmbedTimeout(engineCfg.UpstreamTimeout()))
	analyzer := service.NewStyleAnalyzeClient(cfg.Upstream.StyleAnalyze,
		service.WithStyleAnalyzeTimeout(engineCfg.UpstreamTimeout()))
	defer embedder.Close()
	defer analyzer.Close()

	steerer := steer.NewSteerer(assets.Catalog, assets.Visual, embedder, analyzer,
		learner, retriever, engineCfg, logger)

	srv := server.New(&server.Engine{
		Catalog:   assets.Catalog,
		Builder:   builder,
		Retriever: retriever,
		Learner:   learner,
		Steerer:   steerer,
		Tracker:   tracker,
		Config:    engineCfg,
	},
		server.WithLogger(logger),
		server.WithMaxImageBytes(cfg.Server.MaxImageBytes),
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
