// Package steer 实现会话引导：用户上传图片或文本描述，
// 直接把偏好向量拉向目标风格（等价于一次强制 superlike），
// 然后立刻返回一条新推荐。
//
// 两条路径共享同一收口：
//   - 图片引导：上游视觉嵌入 → 视觉库最近邻 → 取对应物品的属性向量
//   - 文本引导：上游属性抽取 → 属性名模糊匹配 → 合成目标向量
//
// 上游调用不持有会话锁（锁在 recall.Retriever 内部短暂持有），
// 上游超时不会阻塞该会话的其他请求。
package steer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rushteam/stylekit/catalog"
	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/learn"
	"github.com/rushteam/stylekit/recall"
)

// Steerer 会话引导器。所有字段启动后只读，可并发共享。
type Steerer struct {
	Catalog   *catalog.Catalog
	Visual    *catalog.VisualSet
	Embedder  core.VisualEmbedService
	Analyzer  core.StyleAnalyzeService
	Learner   *learn.Learner
	Retriever *recall.Retriever
	Config    core.EngineConfig
	Logger    *slog.Logger
}

// NewSteerer 创建引导器。visual 可为 nil（视觉资产缺失时仅禁用图片引导）。
func NewSteerer(
	cat *catalog.Catalog,
	visual *catalog.VisualSet,
	embedder core.VisualEmbedService,
	analyzer core.StyleAnalyzeService,
	learner *learn.Learner,
	retriever *recall.Retriever,
	cfg core.EngineConfig,
	logger *slog.Logger,
) *Steerer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Steerer{
		Catalog:   cat,
		Visual:    visual,
		Embedder:  embedder,
		Analyzer:  analyzer,
		Learner:   learner,
		Retriever: retriever,
		Config:    cfg,
		Logger:    logger,
	}
}

// ImageResult 图片引导结果。
type ImageResult struct {
	// MatchedItemID 视觉最近邻命中的目录物品
	MatchedItemID string
	// MatchedImage 命中的图片路径
	MatchedImage string
	// VisualSimilarity 视觉空间余弦相似度（与属性空间无关）
	VisualSimilarity float64
	// Preference 引导后的偏好向量
	Preference []float64
	// Next 引导后的新推荐
	Next *recall.Result
}

// TextResult 文本引导结果。
type TextResult struct {
	// MatchedAttributes 命中的属性维度名
	MatchedAttributes []string
	// Summary 上游对描述的摘要
	Summary string
	// Preference 引导后的偏好向量
	Preference []float64
	// Next 引导后的新推荐
	Next *recall.Result
}

// SteerByImage 以上传图片引导会话。
// 视觉资产缺失时返回 NoVisualMatch 软失败，偏好向量不变。
func (s *Steerer) SteerByImage(ctx context.Context, rctx *core.RecommendContext, image []byte) (*ImageResult, error) {
	space := s.Catalog.Space()
	if err := space.CheckDim(rctx.Preference); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, core.NewDomainError(core.ModuleSteer, core.ErrorCodeInvalidInput,
			"image payload is empty")
	}
	if !s.Visual.Enabled() {
		return nil, core.NewDomainError(core.ModuleSteer, core.ErrorCodeNoVisualMatch,
			"visual embeddings are not loaded, image steering is disabled")
	}

	// 上游调用在锁外
	embedding, err := s.Embedder.Embed(ctx, image)
	if err != nil {
		return nil, err
	}

	itemID, imagePath, visScore, err := s.Visual.Nearest(embedding)
	if err != nil {
		return nil, err
	}
	item, ok := s.Catalog.ByID(itemID)
	if !ok {
		return nil, core.NewDomainError(core.ModuleSteer, core.ErrorCodeNoVisualMatch,
			fmt.Sprintf("visual match %q not present in catalog", itemID))
	}

	updated, err := s.Learner.ApplyAction(rctx.Preference, item.Vector, learn.ActionSuperlike)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("image steer applied",
		"session_id", rctx.SessionID,
		"matched_item", itemID,
		"visual_similarity", visScore,
	)

	next, err := s.nextWith(ctx, rctx, updated)
	if err != nil {
		return nil, err
	}
	return &ImageResult{
		MatchedItemID:    itemID,
		MatchedImage:     imagePath,
		VisualSimilarity: visScore,
		Preference:       updated,
		Next:             next,
	}, nil
}

// SteerByText 以自然语言描述引导会话。
// 零命中返回 NoTextMatch 软失败，偏好向量不变。
func (s *Steerer) SteerByText(ctx context.Context, rctx *core.RecommendContext, description string) (*TextResult, error) {
	space := s.Catalog.Space()
	if err := space.CheckDim(rctx.Preference); err != nil {
		return nil, err
	}

	// 上游调用在锁外
	analysis, err := s.Analyzer.Analyze(ctx, description)
	if err != nil {
		return nil, err
	}

	target, matched := s.synthesize(space, analysis.Attributes.Tokens())
	if len(matched) == 0 {
		msg := "description did not match any attribute dimension"
		if analysis.Summary != "" {
			msg = fmt.Sprintf("%s (summary: %s)", msg, analysis.Summary)
		}
		return nil, core.NewDomainError(core.ModuleSteer, core.ErrorCodeNoTextMatch, msg)
	}

	updated, err := s.Learner.ApplyAction(rctx.Preference, target, learn.ActionSuperlike)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("text steer applied",
		"session_id", rctx.SessionID,
		"matched_attrs", len(matched),
	)

	next, err := s.nextWith(ctx, rctx, updated)
	if err != nil {
		return nil, err
	}
	return &TextResult{
		MatchedAttributes: matched,
		Summary:           analysis.Summary,
		Preference:        updated,
		Next:              next,
	}, nil
}

// synthesize 把抽取 token 合成目标向量：命中维度置 SteerAttributeValue，
// 其余为零。返回向量与去重后的命中属性名。
func (s *Steerer) synthesize(space *core.AttributeSpace, tokens []string) ([]float64, []string) {
	target := make([]float64, space.Size())
	hit := make(map[int]struct{})
	for _, token := range tokens {
		for _, idx := range space.MatchIndices(token) {
			hit[idx] = struct{}{}
		}
	}

	matched := make([]string, 0, len(hit))
	for idx := range hit {
		target[idx] = s.Config.SteerAttributeValue()
	}
	// 按维度序输出，保证可复现
	for i := 0; i < space.Size(); i++ {
		if _, ok := hit[i]; ok {
			matched = append(matched, space.Name(i))
		}
	}
	return target, matched
}

// nextWith 用更新后的偏好取一条新推荐。
func (s *Steerer) nextWith(ctx context.Context, rctx *core.RecommendContext, pref []float64) (*recall.Result, error) {
	steered := *rctx
	steered.Preference = pref
	return s.Retriever.Next(ctx, &steered)
}
