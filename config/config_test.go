package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadFromYAML 测试文件配置覆盖与默认值回落
func TestLoadFromYAML(t *testing.T) {
	content := `server:
  addr: ":9000"
assets:
  attr_names: data/attrs.txt
engine:
  learning_rate: 0.2
  default_top_k: 100
redis:
  addr: localhost:6379
  db: 2
filter_rules:
  - item.category == "Shorts"
upstream:
  visual_embed: http://embed:8080
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写配置失败: %v", err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr 期望 :9000，实际 %s", cfg.Server.Addr)
	}
	// 未设置的字段保留默认值
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown_timeout 应保留默认值，实际 %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Assets.AttrNames != "data/attrs.txt" {
		t.Errorf("attr_names 覆盖失败: %s", cfg.Assets.AttrNames)
	}
	if cfg.Assets.Items != "assets/items.jsonl" {
		t.Errorf("items 应保留默认值: %s", cfg.Assets.Items)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis 配置错误: %+v", cfg.Redis)
	}
	if len(cfg.FilterRules) != 1 {
		t.Errorf("规则数期望 1，实际 %d", len(cfg.FilterRules))
	}
	if cfg.Upstream.VisualEmbed != "http://embed:8080" {
		t.Errorf("upstream 配置错误: %+v", cfg.Upstream)
	}
}

// TestEngineSettings 测试引擎参数的零值回落
func TestEngineSettings(t *testing.T) {
	cfg := Default()
	cfg.Engine.LearningRate = 0.3

	settings := cfg.EngineSettings()
	if settings.LearningRate() != 0.3 {
		t.Errorf("learning_rate 期望 0.3，实际 %v", settings.LearningRate())
	}
	// 未设置的回落默认
	if settings.SuperlikeWeight() != 2.5 {
		t.Errorf("superlike_weight 应回落 2.5，实际 %v", settings.SuperlikeWeight())
	}
	if settings.DefaultTopK() != 50 {
		t.Errorf("default_top_k 应回落 50，实际 %v", settings.DefaultTopK())
	}
	if settings.MaxActiveAttrs() != 10 {
		t.Errorf("max_active_attrs 应回落 10，实际 %v", settings.MaxActiveAttrs())
	}
}

// TestEnvOverride 测试环境变量覆盖
func TestEnvOverride(t *testing.T) {
	t.Setenv("STYLEKIT_ADDR", ":7070")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0o644); err != nil {
		t.Fatalf("写配置失败: %v", err)
	}
	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("环境变量应覆盖文件配置，实际 %s", cfg.Server.Addr)
	}
}
