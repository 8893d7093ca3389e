package catalog

import (
	"strings"

	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/pkg/vecmath"
)

// VisualSet 是可选的视觉嵌入集：目录图片在视觉特征空间（与 463 维属性空间
// 无关的独立空间）中的预计算嵌入，服务图片引导路径。
// 资产缺失时集合为空，图片引导整体降级，推荐主链路不受影响。
type VisualSet struct {
	entries []visualEntry
}

type visualEntry struct {
	imagePath string
	itemID    string
	embedding []float64
}

// VisualEntry 是 visual.jsonl 的单行。item_id 缺失时按图片路径约定
// GENDER/Category/id_xxx/file.jpg 取第三段推导。
type VisualEntry struct {
	ImagePath string    `json:"image_path"`
	ItemID    string    `json:"item_id,omitempty"`
	Embedding []float64 `json:"embedding"`
}

// NewVisualSet 由条目列表构建视觉嵌入集。
func NewVisualSet(entries []VisualEntry) *VisualSet {
	set := &VisualSet{entries: make([]visualEntry, 0, len(entries))}
	for _, e := range entries {
		id := e.ItemID
		if id == "" {
			id = itemIDFromPath(e.ImagePath)
		}
		if id == "" || len(e.Embedding) == 0 {
			continue
		}
		set.entries = append(set.entries, visualEntry{
			imagePath: e.ImagePath,
			itemID:    id,
			embedding: e.Embedding,
		})
	}
	return set
}

// Enabled 返回视觉引导能力是否可用。
func (s *VisualSet) Enabled() bool { return s != nil && len(s.entries) > 0 }

// Len 返回嵌入条数。
func (s *VisualSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Nearest 在视觉空间中按余弦相似度找最近的目录图片。
// 集合为空返回 NO_VISUAL_MATCH（可选能力降级，不是内部错误）。
func (s *VisualSet) Nearest(query []float64) (itemID, imagePath string, score float64, err error) {
	if !s.Enabled() {
		return "", "", 0, core.NewDomainError(core.ModuleSteer, core.ErrorCodeNoVisualMatch,
			"visual embeddings not loaded, image steering unavailable")
	}

	best := -1
	bestScore := 0.0
	for i, e := range s.entries {
		sim := vecmath.CosineSimilarity(query, e.embedding)
		if best < 0 || sim > bestScore {
			best = i
			bestScore = sim
		}
	}
	if best < 0 {
		return "", "", 0, core.NewDomainError(core.ModuleSteer, core.ErrorCodeNoVisualMatch,
			"no visual match found")
	}
	return s.entries[best].itemID, s.entries[best].imagePath, bestScore, nil
}

// itemIDFromPath 从图片路径约定中取物品 id。
// 例：WOMEN/Dresses/id_00000002/02_1_front.jpg → id_00000002
func itemIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}
