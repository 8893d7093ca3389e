// Package vector 提供 core.VectorIndex 的实现。
// FlatIndex 在候选子集上做精确内积排序——目录规模在万级，
// 无需近似结构即可满足召回延迟要求，换来完全确定的结果。
package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/pkg/vecmath"
)

// FlatIndex 是精确内积索引：向量按目录插入序平铺存放，启动后只读。
//
// 排序约定：
//   - 相似度（内积）降序
//   - 相似度相同按目录插入位置升序（稳定、可复现）
type FlatIndex struct {
	dim     int
	vectors [][]float64
}

// NewFlatIndex 由有序向量列表构建索引。所有向量维度必须一致。
func NewFlatIndex(dim int, vectors [][]float64) (*FlatIndex, error) {
	for i, v := range vectors {
		if len(v) != dim {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeDimensionMismatch,
				fmt.Sprintf("vector %d has dim %d, index dim is %d", i, len(v), dim))
		}
	}
	return &FlatIndex{dim: dim, vectors: vectors}, nil
}

// FromItems 按目录物品序构建索引（物品向量即矩阵行）。
func FromItems(space *core.AttributeSpace, items []*core.Item) (*FlatIndex, error) {
	vectors := make([][]float64, len(items))
	for i, it := range items {
		vectors[i] = it.Vector
	}
	return NewFlatIndex(space.Size(), vectors)
}

func (idx *FlatIndex) Dim() int { return idx.dim }

func (idx *FlatIndex) Len() int { return len(idx.vectors) }

func (idx *FlatIndex) Reconstruct(pos int) ([]float64, error) {
	if pos < 0 || pos >= len(idx.vectors) {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound,
			fmt.Sprintf("vector position %d out of range [0,%d)", pos, len(idx.vectors)))
	}
	return idx.vectors[pos], nil
}

// SearchSubset 在 candidates 位置子集上做内积 TopK。
// candidates 为 nil 时检索全量；topK <= 0 时取默认 10。
func (idx *FlatIndex) SearchSubset(ctx context.Context, query []float64, topK int, candidates []int) ([]core.VectorMatch, error) {
	if len(query) != idx.dim {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeDimensionMismatch,
			fmt.Sprintf("query dim %d, index dim %d", len(query), idx.dim))
	}
	if topK <= 0 {
		topK = 10
	}

	scan := candidates
	if scan == nil {
		scan = make([]int, len(idx.vectors))
		for i := range scan {
			scan[i] = i
		}
	}

	matches := make([]core.VectorMatch, 0, len(scan))
	for _, pos := range scan {
		if pos < 0 || pos >= len(idx.vectors) {
			continue
		}
		matches = append(matches, core.VectorMatch{
			Pos:   pos,
			Score: vecmath.InnerProduct(query, idx.vectors[pos]),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Pos < matches[j].Pos
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

var _ core.VectorIndex = (*FlatIndex)(nil)
