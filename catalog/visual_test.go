package catalog

import (
	"testing"

	"github.com/rushteam/stylekit/core"
)

// TestItemIDFromPath 测试图片路径取 id 约定
func TestItemIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"WOMEN/Dresses/id_00000002/02_1_front.jpg", "id_00000002"},
		{"/MEN/Jeans/id_00000077/01_7_additional.jpg", "id_00000077"},
		{"broken/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := itemIDFromPath(tt.path); got != tt.want {
			t.Errorf("itemIDFromPath(%q) 期望 %q，实际 %q", tt.path, tt.want, got)
		}
	}
}

// TestVisualSetNearest 测试视觉最近邻
func TestVisualSetNearest(t *testing.T) {
	set := NewVisualSet([]VisualEntry{
		{ImagePath: "MEN/Jeans/id_001/01_front.jpg", Embedding: []float64{1, 0}},
		{ImagePath: "MEN/Suits/id_002/01_front.jpg", Embedding: []float64{0, 1}},
	})

	itemID, imagePath, score, err := set.Nearest([]float64{0.9, 0.1})
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}
	if itemID != "id_001" {
		t.Errorf("期望 id_001，实际 %s", itemID)
	}
	if imagePath != "MEN/Jeans/id_001/01_front.jpg" {
		t.Errorf("图片路径错误: %s", imagePath)
	}
	if score <= 0 {
		t.Errorf("相似度应为正，实际 %v", score)
	}
}

// TestVisualSetEmpty 测试空集合的软失败
func TestVisualSetEmpty(t *testing.T) {
	set := NewVisualSet(nil)
	if set.Enabled() {
		t.Error("空集合不应可用")
	}
	_, _, _, err := set.Nearest([]float64{1})
	if !core.IsNoVisualMatch(err) {
		t.Errorf("期望 NO_VISUAL_MATCH，实际 %v", err)
	}
}

// TestVisualSetSkipsInvalid 测试非法条目被跳过
func TestVisualSetSkipsInvalid(t *testing.T) {
	set := NewVisualSet([]VisualEntry{
		{ImagePath: "bad", Embedding: []float64{1}},           // 无法推导 id
		{ImagePath: "MEN/Jeans/id_001/01.jpg"},                // 缺嵌入
		{ItemID: "id_002", ImagePath: "x", Embedding: []float64{1}}, // 显式 id 合法
	})
	if set.Len() != 1 {
		t.Errorf("期望保留 1 条，实际 %d", set.Len())
	}
}
