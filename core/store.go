package core

import (
	"context"
	"errors"
)

// ErrStoreNotFound 表示键不存在，由各 Store 实现统一返回。
var ErrStoreNotFound = errors.New("store: key not found")

// Store 是基础 KV 存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 实现：
//   - store.MemoryStore（内存，默认，进程生命周期）
//   - store.RedisStore（Redis，可选，跨进程共享会话状态）
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl ...int) error
	Delete(ctx context.Context, key string) error

	Close() error
}

// KeyValueStore 在基础 KV 之上扩展集合操作，服务会话已见集合（seen set）。
//
// 使用场景：
//   - 会话已见集合：SAdd / SIsMember / SCard / SMembers
//   - 会话枯竭标记：Get / Set / Delete
type KeyValueStore interface {
	Store

	// SAdd 向集合添加成员，返回本次新增的成员数（幂等：已存在返回 0）
	SAdd(ctx context.Context, key string, members ...string) (int64, error)

	// SIsMember 判断成员是否在集合中
	SIsMember(ctx context.Context, key string, member string) (bool, error)

	// SCard 返回集合大小
	SCard(ctx context.Context, key string) (int64, error)

	// SMembers 返回集合全部成员（顺序不保证）
	SMembers(ctx context.Context, key string) ([]string, error)
}
