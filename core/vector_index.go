package core

import "context"

// VectorIndex 是物品向量检索的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（vector）实现
//   - 索引在启动时构建完成，之后只读，可被并发请求无锁共享
//
// 使用场景（召回场景专用）：
//   - 在候选子集（性别 + 品类过滤后）上做内积 TopK 检索
//
// 实现：
//   - vector.FlatIndex（精确内积检索，插入序稳定打破平分）
type VectorIndex interface {
	// Dim 返回索引向量维度
	Dim() int

	// Len 返回索引中的向量条数
	Len() int

	// Reconstruct 返回位置 pos 处的原始向量（调用方不得修改）
	Reconstruct(pos int) ([]float64, error)

	// SearchSubset 在 candidates 指定的位置子集上做内积 TopK 检索。
	// candidates 为 nil 时检索全量。结果按相似度降序排列；
	// 相似度相同按目录插入位置升序（稳定、可复现）。
	SearchSubset(ctx context.Context, query []float64, topK int, candidates []int) ([]VectorMatch, error)
}

// VectorMatch 单个检索结果：目录位置 + 内积分数。
type VectorMatch struct {
	Pos   int
	Score float64
}

// VisualEmbedService 是图片视觉特征提取服务（冻结的视觉模型）的领域接口。
// 引擎只消费它的输出：上传图片的定长视觉嵌入。
type VisualEmbedService interface {
	// Embed 提取图片的视觉嵌入
	Embed(ctx context.Context, image []byte) ([]float64, error)

	// Close 关闭连接
	Close() error
}

// ExtractedAttributes 是文本理解服务抽取出的服饰属性集合。
// 每个类别是自由文本 token 列表，可能为空；上游天然不可靠，
// 调用方必须容忍零命中并以软失败透出。
type ExtractedAttributes struct {
	Color    []string `json:"color"`
	Style    []string `json:"style"`
	Occasion []string `json:"occasion"`
	Fit      []string `json:"fit"`
	Material []string `json:"material"`
	Pattern  []string `json:"pattern"`
}

// Tokens 展平所有类别的 token。
func (a *ExtractedAttributes) Tokens() []string {
	if a == nil {
		return nil
	}
	var out []string
	for _, group := range [][]string{a.Color, a.Style, a.Occasion, a.Fit, a.Material, a.Pattern} {
		out = append(out, group...)
	}
	return out
}

// StyleAnalyzeService 是自然语言风格描述解析服务的领域接口。
// 引擎只消费它的输出：从自由文本中抽取的命名服饰属性。
type StyleAnalyzeService interface {
	// Analyze 解析风格描述，返回抽取的属性与摘要
	Analyze(ctx context.Context, description string) (*StyleAnalysis, error)

	// Close 关闭连接
	Close() error
}

// StyleAnalysis 风格解析结果。
type StyleAnalysis struct {
	Attributes *ExtractedAttributes `json:"extracted_attributes"`
	Confidence float64              `json:"confidence"`
	Summary    string               `json:"summary"`
}
