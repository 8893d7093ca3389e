// Package catalog 负责启动期资产的装载与目录物品的静态视图：
// 属性空间、物品元信息（id / 性别 / 品类 / 图片）、风格原型表、可选的视觉嵌入集。
// 所有结构在装载完成后只读，可被并发请求无锁共享。
package catalog

import (
	"strings"

	"github.com/rushteam/stylekit/core"
)

// Catalog 是目录物品的静态索引（向量本体在 vector.FlatIndex）。
// 物品顺序与向量矩阵行序严格对齐；该顺序同时是检索平分时的稳定决胜序。
type Catalog struct {
	space *core.AttributeSpace
	items []*core.Item
	byID  map[string]int
}

// NewCatalog 由属性空间与有序物品列表构建目录。
// 物品的 Pos 字段会被重写为插入位置。
func NewCatalog(space *core.AttributeSpace, items []*core.Item) *Catalog {
	byID := make(map[string]int, len(items))
	for i, it := range items {
		it.Pos = i
		byID[it.ID] = i
	}
	return &Catalog{space: space, items: items, byID: byID}
}

// Space 返回属性空间。
func (c *Catalog) Space() *core.AttributeSpace { return c.space }

// Len 返回物品总数。
func (c *Catalog) Len() int { return len(c.items) }

// Items 返回按插入位置排列的全部物品（调用方不得修改）。
func (c *Catalog) Items() []*core.Item { return c.items }

// ItemAt 返回位置 pos 的物品；越界返回 nil。
func (c *Catalog) ItemAt(pos int) *core.Item {
	if pos < 0 || pos >= len(c.items) {
		return nil
	}
	return c.items[pos]
}

// ByID 按物品 id 查找。
func (c *Catalog) ByID(id string) (*core.Item, bool) {
	pos, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.items[pos], true
}

// SelectCandidates 返回性别匹配且品类与请求集合相交的物品位置，
// 按目录插入序排列。纯函数：与会话 seen 状态无关。
// 结果为空不是错误，由召回层按"立即枯竭"处理。
func (c *Catalog) SelectCandidates(gender string, categories []string) []int {
	g := strings.ToUpper(strings.TrimSpace(gender))
	var out []int
	for pos, it := range c.items {
		if g != "" && !strings.EqualFold(it.Gender, g) {
			continue
		}
		if len(categories) > 0 && !categoryMatchesAny(it.Category, categories) {
			continue
		}
		out = append(out, pos)
	}
	return out
}

// KnownCategories 返回指定性别下目录中实际存在的品类集合（去重，保序）。
func (c *Catalog) KnownCategories(gender string) []string {
	g := strings.ToUpper(strings.TrimSpace(gender))
	seen := make(map[string]struct{})
	var out []string
	for _, it := range c.items {
		if g != "" && !strings.EqualFold(it.Gender, g) {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// HasCategory 判断指定性别下某个请求品类能否命中目录品类。
func (c *Catalog) HasCategory(gender, category string) bool {
	for _, known := range c.KnownCategories(gender) {
		if categoryMatches(known, category) {
			return true
		}
	}
	return false
}

// categoryMatchesAny 判断目录品类是否与任一请求品类匹配。
func categoryMatchesAny(catalogCategory string, requested []string) bool {
	for _, r := range requested {
		if categoryMatches(catalogCategory, r) {
			return true
		}
	}
	return false
}

// categoryMatches 是品类名的宽松匹配：
// 统一分隔符与大小写、单数化后比较整体或词元。
// 用词元相等而不是子串包含，避免 "Suits" 误命中 "Jumpsuits" 这类后缀陷阱。
func categoryMatches(catalogCategory, requested string) bool {
	name := normalizeTag(catalogCategory)
	pref := normalizeTag(requested)
	if name == "" || pref == "" {
		return false
	}
	nameSing := singularize(name)
	prefSing := singularize(pref)
	if name == pref || nameSing == prefSing {
		return true
	}
	// 复合品类（如 Jackets_Coats）按词元拆开比较
	for _, nt := range strings.Split(nameSing, "_") {
		for _, pt := range strings.Split(prefSing, "_") {
			if nt != "" && singularize(nt) == singularize(pt) {
				return true
			}
		}
	}
	return false
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func singularize(s string) string {
	if strings.HasSuffix(s, "s") && len(s) > 1 {
		return s[:len(s)-1]
	}
	return s
}
