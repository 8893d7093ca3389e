// Package stylekit 是一个服饰推荐与偏好自适应引擎（Style Kit）。
//
// 设计要点：
// - 向量中心：物品与用户偏好共享同一属性空间，检索即内积
// - 偏好经调用方往返：服务端无偏好状态，会话仅维护已见集合
// - 反馈即学习：like/dislike/superlike 以滑动平均即时更新偏好
// - 引导可插拔：图片/文本引导收口为一次强制 superlike
package stylekit

import "github.com/rushteam/stylekit/core"

// 轻量 facade：便于用户直接 import "stylekit" 使用核心抽象。
type AttributeSpace = core.AttributeSpace
type Item = core.Item
type RecommendContext = core.RecommendContext
type EngineConfig = core.EngineConfig
type VectorIndex = core.VectorIndex
type Store = core.Store
type KeyValueStore = core.KeyValueStore
