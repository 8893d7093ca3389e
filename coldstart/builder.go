// Package coldstart 负责冷启动：在没有任何行为反馈时，
// 由（性别，国家，品类集合）构建初始偏好向量。
package coldstart

import (
	"fmt"
	"strings"

	"github.com/rushteam/stylekit/catalog"
	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/pkg/vecmath"
)

// Builder 是冷启动偏好向量构建器。
//
// 构建规则：
//  1. （性别，品类组合）在原型表中精确命中 → 直接取原型向量
//  2. 未命中 → 对每个请求品类取（性别，单品类）原型，逐维平均后 L2 归一
//  3. 对性别词与各品类词模糊命中的维度乘以放大倍数（> 1.0），
//     让冷启动推荐强烈倾向请求的侧面
//
// 国家只进响应摘要，不参与向量计算。
type Builder struct {
	Catalog    *catalog.Catalog
	Archetypes *catalog.ArchetypeTable
	Config     core.EngineConfig
}

// Result 是冷启动构建结果。
type Result struct {
	Vector    []float64
	Archetype string // 命中或合成来源的描述
	Summary   string // 面向客户端的摘要文案
}

// NewBuilder 创建构建器；cfg 为 nil 时使用默认引擎配置。
func NewBuilder(c *catalog.Catalog, t *catalog.ArchetypeTable, cfg core.EngineConfig) *Builder {
	if cfg == nil {
		cfg = &core.DefaultEngineConfig{}
	}
	return &Builder{Catalog: c, Archetypes: t, Config: cfg}
}

// Build 构建初始偏好向量。
// gender 必须是 MEN/WOMEN；categories 非空且至少一个品类在该性别下可识别，
// 否则返回 INVALID_INPUT（校验先于一切状态变更）。
func (b *Builder) Build(gender, country string, categories []string) (*Result, error) {
	g := strings.ToUpper(strings.TrimSpace(gender))
	if g != "MEN" && g != "WOMEN" {
		return nil, core.NewDomainError(core.ModuleColdstart, core.ErrorCodeInvalidInput,
			fmt.Sprintf("unrecognized gender %q, expected MEN or WOMEN", gender))
	}
	if len(categories) == 0 {
		return nil, core.NewDomainError(core.ModuleColdstart, core.ErrorCodeInvalidInput,
			"category set must not be empty")
	}

	known := make([]string, 0, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if b.Catalog.HasCategory(g, c) {
			known = append(known, c)
		}
	}
	if len(known) == 0 {
		return nil, core.NewDomainError(core.ModuleColdstart, core.ErrorCodeInvalidInput,
			fmt.Sprintf("no requested category is known for gender %s", g))
	}

	vec, source := b.selectBase(g, known)

	// 放大性别与品类对应的维度，冷启动强倾向请求侧面
	b.amplify(vec, g)
	for _, c := range known {
		b.amplify(vec, c)
	}

	styleWords := catalog.CountryStyleWords(country)
	summary := fmt.Sprintf("Constructed preference vector for %s from %s (%s) with categories %s",
		g, country, strings.Join(styleWords, "/"), strings.Join(known, ", "))

	return &Result{Vector: vec, Archetype: source, Summary: summary}, nil
}

// selectBase 选取基础向量：精确命中或合成平均。返回向量副本与来源描述。
func (b *Builder) selectBase(gender string, categories []string) ([]float64, string) {
	if arch, ok := b.Archetypes.Exact(gender, categories); ok {
		out := make([]float64, len(arch.Vector))
		copy(out, arch.Vector)
		return out, arch.Name
	}

	var (
		parts [][]float64
		names []string
	)
	for _, c := range categories {
		if arch, ok := b.Archetypes.ByCategory(gender, c); ok {
			parts = append(parts, arch.Vector)
			names = append(names, arch.Name)
		}
	}
	if len(parts) == 0 {
		// 原型表覆盖不到时退化为中性向量，仅靠维度放大表达倾向
		return make([]float64, b.Catalog.Space().Size()), "neutral"
	}

	vec := vecmath.Normalize(vecmath.Mean(parts...))
	return vec, "avg(" + strings.Join(names, "+") + ")"
}

// amplify 对 token 模糊命中的维度施加放大倍数。
// 命中维度当前为 0 时先置入基准值再放大，保证倾向可被检索感知。
func (b *Builder) amplify(vec []float64, token string) {
	w := b.Config.AmplifyWeight()
	if w <= 1.0 {
		w = 1.0
	}
	for _, idx := range b.Catalog.Space().MatchIndices(token) {
		if idx >= len(vec) {
			continue
		}
		if vec[idx] == 0 {
			vec[idx] = 0.1
		}
		vec[idx] *= w
	}
}
