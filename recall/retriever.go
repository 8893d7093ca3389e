// Package recall 实现召回主链路：候选过滤 → 子集内积检索 → 过滤器链 → 单条投递。
package recall

import (
	"context"
	"log/slog"

	"github.com/rushteam/stylekit/catalog"
	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/filter"
	"github.com/rushteam/stylekit/pkg/utils"
	"github.com/rushteam/stylekit/pkg/vecmath"
	"github.com/rushteam/stylekit/session"
)

// Retriever 是推荐检索器。
//
// 单次 Next 的执行序（与会话锁的临界区）：
//  1. 维度校验（任何状态变更之前）
//  2. 候选过滤（纯函数，性别 + 品类）；空候选 → 立即枯竭响应，不触发检索
//  3. 加会话锁
//  4. TopK 内积检索，按相似度降序、插入序决胜走一遍过滤器链
//  5. TopK 全被过滤且 TopK < 候选数时，以 k=候选数 重检一次兜底
//  6. 仍无幸存者 → 标记会话枯竭；否则先标记已见再返回
//
// 同一会话的请求串行化由第 3 步保证：即使并发/重试，
// 一个物品对同一会话至多投递一次。
type Retriever struct {
	Catalog *catalog.Catalog
	Index   core.VectorIndex
	Tracker *session.Tracker
	Filters []filter.Filter
	Config  core.EngineConfig
	Logger  *slog.Logger
}

// Result 是单次推荐结果。Exhausted 时 Item 为 nil——
// 枯竭是正常终态，响应结构与校验失败在任何时候都可区分。
type Result struct {
	Item           *core.Item
	Similarity     float64  // 展示用分数，归一到 [0,1]
	RawScore       float64  // 原始内积
	AttributeNames []string // 物品生效属性名（展示用，截断）
	Exhausted      bool
	SeenCount      int64 // 会话累计已见数
	FilteredCount  int   // 过滤后候选总数
}

// NewRetriever 创建检索器。过滤器链至少包含会话已见过滤。
func NewRetriever(
	c *catalog.Catalog,
	idx core.VectorIndex,
	tracker *session.Tracker,
	filters []filter.Filter,
	cfg core.EngineConfig,
	logger *slog.Logger,
) *Retriever {
	if cfg == nil {
		cfg = &core.DefaultEngineConfig{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		Catalog: c,
		Index:   idx,
		Tracker: tracker,
		Filters: filters,
		Config:  cfg,
		Logger:  logger,
	}
}

// Next 返回该会话的下一条推荐。
func (r *Retriever) Next(ctx context.Context, rctx *core.RecommendContext) (*Result, error) {
	if err := r.Catalog.Space().CheckDim(rctx.Preference); err != nil {
		return nil, err
	}

	candidates := r.Catalog.SelectCandidates(rctx.Gender, rctx.Categories)
	if len(candidates) == 0 {
		// 空候选按"立即枯竭"处理，不触发检索，也不落枯竭标记
		// （过滤条件本身无物品可配，不改变会话状态）
		seen, err := r.Tracker.SeenCount(ctx, rctx.SessionID)
		if err != nil {
			return nil, err
		}
		r.Logger.Info("empty candidate set",
			"session_id", rctx.SessionID, "gender", rctx.Gender, "categories", rctx.Categories)
		return &Result{Exhausted: true, SeenCount: seen, FilteredCount: 0}, nil
	}

	unlock := r.Tracker.Lock(rctx.SessionID)
	defer unlock()

	topK := r.Config.DefaultTopK()
	if topK > len(candidates) {
		topK = len(candidates)
	}

	picked, err := r.firstSurvivor(ctx, rctx, topK, candidates)
	if err != nil {
		return nil, err
	}
	if picked == nil && topK < len(candidates) {
		// TopK 全灭时全量兜底一次，确保"有未见物品就一定找得到"
		picked, err = r.firstSurvivor(ctx, rctx, len(candidates), candidates)
		if err != nil {
			return nil, err
		}
	}

	if picked == nil {
		if err := r.Tracker.MarkExhausted(ctx, rctx.SessionID); err != nil {
			return nil, err
		}
		seen, err := r.Tracker.SeenCount(ctx, rctx.SessionID)
		if err != nil {
			return nil, err
		}
		r.Logger.Info("catalog exhausted",
			"session_id", rctx.SessionID, "seen", seen, "filtered", len(candidates))
		return &Result{Exhausted: true, SeenCount: seen, FilteredCount: len(candidates)}, nil
	}

	// 响应前标记已见：至多一次投递的提交点
	if err := r.Tracker.MarkSeen(ctx, rctx.SessionID, picked.item.ID); err != nil {
		return nil, err
	}
	seen, err := r.Tracker.SeenCount(ctx, rctx.SessionID)
	if err != nil {
		return nil, err
	}

	// 目录物品是全局只读共享的，分数与标签落在请求级副本上
	out := *picked.item
	out.Score = picked.score
	out.Labels = map[string]utils.Label{
		"recall_source": {Value: "flat_ip", Source: "recall"},
	}

	space := r.Catalog.Space()
	return &Result{
		Item:           &out,
		Similarity:     vecmath.ClampUnit(picked.score),
		RawScore:       picked.score,
		AttributeNames: space.ActiveNames(out.Vector, r.Config.ActiveAttrThreshold(), r.Config.MaxActiveAttrs()),
		SeenCount:      seen,
		FilteredCount:  len(candidates),
	}, nil
}

type pickedItem struct {
	item  *core.Item
	score float64
}

// firstSurvivor 以给定 k 检索并返回过滤器链后的第一条幸存物品；无幸存返回 nil。
func (r *Retriever) firstSurvivor(
	ctx context.Context,
	rctx *core.RecommendContext,
	topK int,
	candidates []int,
) (*pickedItem, error) {
	matches, err := r.Index.SearchSubset(ctx, rctx.Preference, topK, candidates)
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		item := r.Catalog.ItemAt(m.Pos)
		if item == nil {
			continue
		}
		filtered := false
		for _, f := range r.Filters {
			hit, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误不中断链路，视为保留
				r.Logger.Warn("filter error", "filter", f.Name(), "item", item.ID, "err", err)
				continue
			}
			if hit {
				filtered = true
				break
			}
		}
		if !filtered {
			return &pickedItem{item: item, score: m.Score}, nil
		}
	}
	return nil, nil
}
