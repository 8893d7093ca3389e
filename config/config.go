// Package config 提供服务配置的加载与默认值（支持 YAML + 环境变量覆盖）。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/stylekit/core"
)

// Config 是服务完整配置结构。
type Config struct {
	Server ServerConfig `yaml:"server"`
	Assets AssetConfig  `yaml:"assets"`
	Engine EngineConfig `yaml:"engine"`
	Redis  RedisConfig  `yaml:"redis"`
	// Upstream 外部协作方端点，为空时对应引导路径不可用
	Upstream UpstreamConfig `yaml:"upstream"`
	// FilterRules CEL 规则表达式，启动时编译（编译失败即启动失败）
	FilterRules []string `yaml:"filter_rules"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxImageBytes 引导图片上传大小上限
	MaxImageBytes int64 `yaml:"max_image_bytes"`
}

// AssetConfig 启动资产路径。
type AssetConfig struct {
	AttrNames  string `yaml:"attr_names"`
	Items      string `yaml:"items"`
	Vectors    string `yaml:"vectors"`
	Archetypes string `yaml:"archetypes"`
	// Visual 可选；缺失仅禁用图片引导
	Visual string `yaml:"visual"`
}

// EngineConfig 引擎可调参数。零值字段回落到内置默认值。
type EngineConfig struct {
	LearningRate        float64       `yaml:"learning_rate"`
	SuperlikeWeight     float64       `yaml:"superlike_weight"`
	DefaultTopK         int           `yaml:"default_top_k"`
	AmplifyWeight       float64       `yaml:"amplify_weight"`
	SteerAttributeValue float64       `yaml:"steer_attribute_value"`
	ActiveAttrThreshold float64       `yaml:"active_attr_threshold"`
	MaxActiveAttrs      int           `yaml:"max_active_attrs"`
	UpstreamTimeout     time.Duration `yaml:"upstream_timeout"`
}

// RedisConfig 可选的 Redis 会话存储；Addr 为空时使用内存存储。
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// UpstreamConfig 外部协作方端点。
type UpstreamConfig struct {
	VisualEmbed  string `yaml:"visual_embed"`
	StyleAnalyze string `yaml:"style_analyze"`
}

// Default 返回内置默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxImageBytes:   10 << 20,
		},
		Assets: AssetConfig{
			AttrNames:  "assets/attr_names.txt",
			Items:      "assets/items.jsonl",
			Vectors:    "assets/vectors.f32",
			Archetypes: "assets/archetypes.yaml",
			Visual:     "assets/visual.jsonl",
		},
	}
}

// LoadFromYAML 从 YAML 文件加载配置，未设置的字段保持默认值。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// 配置文件缺失时退回默认配置，环境变量仍然生效
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv 环境变量覆盖（部署期最常变的两项）。
func (c *Config) applyEnv() {
	if v := os.Getenv("STYLEKIT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STYLEKIT_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}

// EngineSettings 把文件配置转换为引擎参数，零值回落到内置默认值。
func (c *Config) EngineSettings() core.EngineConfig {
	def := &core.DefaultEngineConfig{}
	s := &engineSettings{
		learningRate:        c.Engine.LearningRate,
		superlikeWeight:     c.Engine.SuperlikeWeight,
		defaultTopK:         c.Engine.DefaultTopK,
		amplifyWeight:       c.Engine.AmplifyWeight,
		steerAttributeValue: c.Engine.SteerAttributeValue,
		activeAttrThreshold: c.Engine.ActiveAttrThreshold,
		maxActiveAttrs:      c.Engine.MaxActiveAttrs,
		upstreamTimeout:     c.Engine.UpstreamTimeout,
	}
	if s.learningRate <= 0 {
		s.learningRate = def.LearningRate()
	}
	if s.superlikeWeight <= 0 {
		s.superlikeWeight = def.SuperlikeWeight()
	}
	if s.defaultTopK <= 0 {
		s.defaultTopK = def.DefaultTopK()
	}
	if s.amplifyWeight <= 1.0 {
		s.amplifyWeight = def.AmplifyWeight()
	}
	if s.steerAttributeValue <= 0 {
		s.steerAttributeValue = def.SteerAttributeValue()
	}
	if s.activeAttrThreshold <= 0 {
		s.activeAttrThreshold = def.ActiveAttrThreshold()
	}
	if s.maxActiveAttrs <= 0 {
		s.maxActiveAttrs = def.MaxActiveAttrs()
	}
	if s.upstreamTimeout <= 0 {
		s.upstreamTimeout = def.UpstreamTimeout()
	}
	return s
}

type engineSettings struct {
	learningRate        float64
	superlikeWeight     float64
	defaultTopK         int
	amplifyWeight       float64
	steerAttributeValue float64
	activeAttrThreshold float64
	maxActiveAttrs      int
	upstreamTimeout     time.Duration
}

func (s *engineSettings) LearningRate() float64          { return s.learningRate }
func (s *engineSettings) SuperlikeWeight() float64       { return s.superlikeWeight }
func (s *engineSettings) DefaultTopK() int               { return s.defaultTopK }
func (s *engineSettings) AmplifyWeight() float64         { return s.amplifyWeight }
func (s *engineSettings) SteerAttributeValue() float64   { return s.steerAttributeValue }
func (s *engineSettings) ActiveAttrThreshold() float64   { return s.activeAttrThreshold }
func (s *engineSettings) MaxActiveAttrs() int            { return s.maxActiveAttrs }
func (s *engineSettings) UpstreamTimeout() time.Duration { return s.upstreamTimeout }

var _ core.EngineConfig = (*engineSettings)(nil)
