package filter

import (
	"context"

	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/session"
)

// SeenFilter 是已投递过滤器：过滤掉该会话已经看过的物品，
// 支撑 never-repeat 语义。调用方（召回层）负责持有会话锁，
// 过滤本身只做成员判断，不写状态。
type SeenFilter struct {
	Tracker *session.Tracker
}

func NewSeenFilter(tracker *session.Tracker) *SeenFilter {
	return &SeenFilter{Tracker: tracker}
}

func (f *SeenFilter) Name() string { return "filter.seen" }

func (f *SeenFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Tracker == nil || rctx == nil || rctx.SessionID == "" {
		return false, nil
	}
	return f.Tracker.Seen(ctx, rctx.SessionID, item.ID)
}

var _ Filter = (*SeenFilter)(nil)
