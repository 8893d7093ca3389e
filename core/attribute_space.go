package core

import (
	"fmt"
	"strings"
)

// AttributeSpace 是固定的属性维度表：463 个有名字的属性维度。
//
// 一句话定义：属性空间 = 偏好向量与物品向量的"共同坐标系"。
//
// 设计要点：
//   - 维度的唯一身份是它在序列中的下标；名字仅用于展示与模糊匹配
//   - 进程生命周期内不可变，启动时加载一次，之后可被并发只读共享
//   - 偏好向量、物品向量、风格原型向量的长度必须恒等于 Size()
type AttributeSpace struct {
	names []string
	// lower 是名字的小写缓存，避免每次模糊匹配重复 ToLower
	lower []string
}

// NewAttributeSpace 基于有序属性名列表创建属性空间。
func NewAttributeSpace(names []string) *AttributeSpace {
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	return &AttributeSpace{names: names, lower: lower}
}

// Size 返回属性空间的维度数。
func (s *AttributeSpace) Size() int { return len(s.names) }

// Name 返回下标 i 对应的属性名；越界返回空串。
func (s *AttributeSpace) Name(i int) string {
	if i < 0 || i >= len(s.names) {
		return ""
	}
	return s.names[i]
}

// Names 返回全部属性名（调用方不得修改）。
func (s *AttributeSpace) Names() []string { return s.names }

// CheckDim 校验向量长度是否与属性空间一致。
func (s *AttributeSpace) CheckDim(vec []float64) error {
	if len(vec) != len(s.names) {
		return NewDomainError(ModuleCatalog, ErrorCodeDimensionMismatch,
			fmt.Sprintf("vector dimension mismatch: expected %d, got %d", len(s.names), len(vec)))
	}
	return nil
}

// MatchIndices 返回名字与 token 模糊匹配的维度下标。
// 匹配规则与原始数据管线保持一致：双向子串（token 含于属性名，或属性名含于 token），
// 大小写不敏感。token 过短（< 3 字符）时不做匹配，避免噪声命中。
func (s *AttributeSpace) MatchIndices(token string) []int {
	t := strings.ToLower(strings.TrimSpace(token))
	if len(t) < 3 {
		return nil
	}
	var out []int
	for i, name := range s.lower {
		if strings.Contains(name, t) || strings.Contains(t, name) {
			out = append(out, i)
		}
	}
	return out
}

// ActiveNames 返回向量中取值超过阈值的维度名，按维度顺序，最多 limit 个。
// limit <= 0 表示不限制。
func (s *AttributeSpace) ActiveNames(vec []float64, threshold float64, limit int) []string {
	var out []string
	for i, v := range vec {
		if i >= len(s.names) {
			break
		}
		if v > threshold {
			out = append(out, s.names[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}
