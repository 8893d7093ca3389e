package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// 推荐结果、过滤原因、引导来源都以 Label 形式挂在 Item 上，
// 客户端与排查工具据此还原"这条推荐为什么出现/消失"。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / steer / coldstart ...
}

// MergeLabel 用于合并同名 Label，遵循"保留历史、可追踪"的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
