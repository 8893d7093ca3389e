package core

import "time"

// EngineConfig 是推荐/学习引擎的可调参数接口，用于提供默认值。
type EngineConfig interface {
	// LearningRate 返回滑动平均学习率 α
	LearningRate() float64

	// SuperlikeWeight 返回 superlike 权重 β（有效混合系数为 α·β）
	SuperlikeWeight() float64

	// DefaultTopK 返回召回候选池大小（seen 过滤前从索引取出的条数）
	DefaultTopK() int

	// AmplifyWeight 返回冷启动时性别/品类维度的放大倍数（> 1.0）
	AmplifyWeight() float64

	// SteerAttributeValue 返回文本引导合成向量中命中维度的取值
	SteerAttributeValue() float64

	// ActiveAttrThreshold 返回判定属性"生效"的阈值（展示属性名用）
	ActiveAttrThreshold() float64

	// MaxActiveAttrs 返回响应中展示的属性名上限
	MaxActiveAttrs() int

	// UpstreamTimeout 返回外部协作方（视觉/文本服务）调用超时
	UpstreamTimeout() time.Duration
}

// DefaultEngineConfig 是默认的引擎配置实现。
// 学习率与 superlike 权重沿用线上观测值；注意 α·β = 0.25，
// 单次 superlike 的拉动刻意强于一次普通 like，不做钳位。
type DefaultEngineConfig struct{}

func (c *DefaultEngineConfig) LearningRate() float64 { return 0.1 }

func (c *DefaultEngineConfig) SuperlikeWeight() float64 { return 2.5 }

func (c *DefaultEngineConfig) DefaultTopK() int { return 50 }

func (c *DefaultEngineConfig) AmplifyWeight() float64 { return 1.5 }

func (c *DefaultEngineConfig) SteerAttributeValue() float64 { return 1.0 }

func (c *DefaultEngineConfig) ActiveAttrThreshold() float64 { return 0.5 }

func (c *DefaultEngineConfig) MaxActiveAttrs() int { return 10 }

func (c *DefaultEngineConfig) UpstreamTimeout() time.Duration { return 10 * time.Second }

var _ EngineConfig = (*DefaultEngineConfig)(nil)
