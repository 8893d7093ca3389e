package core

// RecommendContext 承载会话/过滤/偏好信息，贯穿召回、过滤与引导路径透传。
//
// 偏好向量不是服务端状态：调用方每次请求都携带当前向量，
// 服务端返回更新后的副本（client authoritative，刻意的无状态设计）。
type RecommendContext struct {
	SessionID  string // 调用方提供的会话标识，未鉴权
	Gender     string // MEN / WOMEN
	Categories []string
	Country    string // 仅用于响应摘要等元信息，不参与向量计算

	// Preference 是当前偏好向量，长度必须等于属性空间维度
	Preference []float64

	// Params 请求级上下文参数，供过滤规则（CEL）等策略读取
	Params map[string]any
}

// GetParam 读取请求级参数，不存在时返回零值。
func (rctx *RecommendContext) GetParam(key string) (any, bool) {
	if rctx == nil || rctx.Params == nil {
		return nil, false
	}
	v, ok := rctx.Params[key]
	return v, ok
}
