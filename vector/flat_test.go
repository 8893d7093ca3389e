package vector

import (
	"context"
	"testing"

	"github.com/rushteam/stylekit/core"
)

func testIndex(t *testing.T) *FlatIndex {
	t.Helper()
	idx, err := NewFlatIndex(2, [][]float64{
		{1, 0},   // pos 0
		{0, 1},   // pos 1
		{0.5, 0}, // pos 2
		{1, 0},   // pos 3，与 pos 0 同分
	})
	if err != nil {
		t.Fatalf("构建索引失败: %v", err)
	}
	return idx
}

// TestSearchSubsetOrdering 测试分数降序与同分按插入位置升序
func TestSearchSubsetOrdering(t *testing.T) {
	idx := testIndex(t)

	matches, err := idx.SearchSubset(context.Background(), []float64{1, 0}, 10, nil)
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}

	wantPos := []int{0, 3, 2, 1}
	if len(matches) != len(wantPos) {
		t.Fatalf("结果数期望 %d，实际 %d", len(wantPos), len(matches))
	}
	for i, m := range matches {
		if m.Pos != wantPos[i] {
			t.Errorf("第 %d 位期望 pos=%d，实际 pos=%d", i, wantPos[i], m.Pos)
		}
	}
}

// TestSearchSubsetCandidates 测试子集限定与 TopK 截断
func TestSearchSubsetCandidates(t *testing.T) {
	idx := testIndex(t)

	matches, err := idx.SearchSubset(context.Background(), []float64{1, 0}, 1, []int{1, 2})
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}
	if len(matches) != 1 || matches[0].Pos != 2 {
		t.Errorf("期望命中 pos=2，实际 %+v", matches)
	}

	// 越界候选被跳过
	matches, err = idx.SearchSubset(context.Background(), []float64{1, 0}, 10, []int{0, 99})
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}
	if len(matches) != 1 || matches[0].Pos != 0 {
		t.Errorf("越界候选应被跳过，实际 %+v", matches)
	}
}

// TestSearchSubsetDimMismatch 测试查询向量维度校验
func TestSearchSubsetDimMismatch(t *testing.T) {
	idx := testIndex(t)
	_, err := idx.SearchSubset(context.Background(), []float64{1, 0, 0}, 10, nil)
	if !core.IsDimensionMismatch(err) {
		t.Errorf("期望 DIMENSION_MISMATCH，实际 %v", err)
	}
}

// TestNewFlatIndexValidates 测试构建期维度校验
func TestNewFlatIndexValidates(t *testing.T) {
	_, err := NewFlatIndex(2, [][]float64{{1, 0}, {1}})
	if !core.IsDimensionMismatch(err) {
		t.Errorf("期望 DIMENSION_MISMATCH，实际 %v", err)
	}
}

// TestReconstruct 测试向量还原
func TestReconstruct(t *testing.T) {
	idx := testIndex(t)
	vec, err := idx.Reconstruct(1)
	if err != nil || vec[1] != 1 {
		t.Errorf("还原错误: %v, %v", vec, err)
	}
	if _, err := idx.Reconstruct(99); !core.IsNotFound(err) {
		t.Errorf("越界期望 NOT_FOUND，实际 %v", err)
	}
}
