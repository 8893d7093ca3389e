// Package session 管理会话的已见集合与枯竭状态。
//
// 会话是进程生命周期的服务端状态中唯一可变的部分：
//   - 身份：调用方提供的字符串 id（未鉴权，不持久化）
//   - 懒创建：首次推荐请求时出现
//   - 不自动销毁：重置需显式调用 Reset
//
// 并发纪律：同一会话 id 的推荐请求必须串行（per-key 互斥），
// 否则"同一物品至多投递一次"的不变量在竞态下会被打破；
// 不同会话 id 之间永不争用。
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rushteam/stylekit/core"
)

const (
	seenKeyPrefix      = "session:seen:"
	exhaustedKeyPrefix = "session:exhausted:"
)

// Tracker 是会话状态追踪器，状态落在 core.KeyValueStore
// （默认内存，可选 Redis），互斥锁始终在进程内。
type Tracker struct {
	store core.KeyValueStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Status 是会话状态快照（只读查询，不触发任何变更）。
type Status struct {
	SessionID string `json:"session_id"`
	SeenCount int64  `json:"seen_count"`
	Exhausted bool   `json:"exhausted"`
}

// NewTracker 创建追踪器。
func NewTracker(store core.KeyValueStore) *Tracker {
	return &Tracker{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock 获取会话级互斥锁并加锁，返回解锁函数。
// 调用方在"查已见 → 选中 → 标记已见"的整个临界区里持有它。
func (t *Tracker) Lock(sessionID string) func() {
	t.mu.Lock()
	lock, ok := t.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[sessionID] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Seen 判断物品是否已投递给该会话。
func (t *Tracker) Seen(ctx context.Context, sessionID, itemID string) (bool, error) {
	return t.store.SIsMember(ctx, seenKeyPrefix+sessionID, itemID)
}

// MarkSeen 标记物品已投递。幂等。
func (t *Tracker) MarkSeen(ctx context.Context, sessionID, itemID string) error {
	_, err := t.store.SAdd(ctx, seenKeyPrefix+sessionID, itemID)
	return err
}

// SeenCount 返回会话已见物品数。
func (t *Tracker) SeenCount(ctx context.Context, sessionID string) (int64, error) {
	return t.store.SCard(ctx, seenKeyPrefix+sessionID)
}

// SeenItems 返回会话已见物品 id 列表（顺序不保证）。
func (t *Tracker) SeenItems(ctx context.Context, sessionID string) ([]string, error) {
	return t.store.SMembers(ctx, seenKeyPrefix+sessionID)
}

// MarkExhausted 标记会话目录枯竭。只有召回层在确认
// "过滤后的候选全部已见"之后才调用；没有自动回转。
func (t *Tracker) MarkExhausted(ctx context.Context, sessionID string) error {
	return t.store.Set(ctx, exhaustedKeyPrefix+sessionID, []byte("1"))
}

// Exhausted 查询枯竭标记。
func (t *Tracker) Exhausted(ctx context.Context, sessionID string) (bool, error) {
	_, err := t.store.Get(ctx, exhaustedKeyPrefix+sessionID)
	if errors.Is(err, core.ErrStoreNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Reset 清空会话的已见集合与枯竭标记，会话回到 Active。
func (t *Tracker) Reset(ctx context.Context, sessionID string) error {
	unlock := t.Lock(sessionID)
	defer unlock()

	if err := t.store.Delete(ctx, seenKeyPrefix+sessionID); err != nil {
		return err
	}
	return t.store.Delete(ctx, exhaustedKeyPrefix+sessionID)
}

// Status 返回会话状态快照。幂等：连续两次调用结果一致（期间无写入时）。
func (t *Tracker) Status(ctx context.Context, sessionID string) (*Status, error) {
	count, err := t.SeenCount(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	exhausted, err := t.Exhausted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Status{SessionID: sessionID, SeenCount: count, Exhausted: exhausted}, nil
}
