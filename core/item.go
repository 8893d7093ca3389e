package core

import "github.com/rushteam/stylekit/pkg/utils"

// Item 是推荐链路中的统一承载结构：目录物品 + 检索分数 + 可解释标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID       string
	Gender   string   // 性别标签（MEN / WOMEN）
	Category string   // 品类标签（如 Jeans / Dresses）
	Vector   []float64
	Images   []string // 候选图片路径（front → side → back 顺序）
	Pos      int      // 目录插入位置，分数相同时按此稳定排序
	Score    float64
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
