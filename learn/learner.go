// Package learn 实现显式反馈的在线学习：对偏好向量做滑动平均更新。
// 更新是纯函数：无隐藏状态、确定性，服务端不保存任何用户向量。
package learn

import (
	"fmt"
	"strings"

	"github.com/rushteam/stylekit/core"
)

// Action 是显式反馈动作。
type Action string

const (
	ActionLike      Action = "like"
	ActionDislike   Action = "dislike"
	ActionSuperlike Action = "superlike"
)

// ParseAction 解析动作字符串（大小写不敏感）。
// 非法动作返回 UNKNOWN_ACTION。
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionLike:
		return ActionLike, nil
	case ActionDislike:
		return ActionDislike, nil
	case ActionSuperlike:
		return ActionSuperlike, nil
	default:
		return "", core.NewDomainError(core.ModuleLearn, core.ErrorCodeUnknownAction,
			fmt.Sprintf("unknown action %q, expected like/dislike/superlike", s))
	}
}

// Learner 按滑动平均规则更新偏好向量。
//
// 更新规则（α 为学习率，β 为 superlike 权重）：
//   - like:      updated = (1-α)·pref + α·item
//   - dislike:   updated = (1-α)·pref - α·item     （拉动项取负，远离物品）
//   - superlike: updated = (1-αβ)·pref + αβ·item
//
// αβ = 0.25 刻意大于普通 like 的拉动；更新后不钳位、不归一——
// 引导路径（视觉/文本）靠这一点一步到位。是否收敛到 [0,1]
// 是产品口径问题，这里保持观测行为。
type Learner struct {
	Config core.EngineConfig
}

// NewLearner 创建学习器；cfg 为 nil 时使用默认引擎配置。
func NewLearner(cfg core.EngineConfig) *Learner {
	if cfg == nil {
		cfg = &core.DefaultEngineConfig{}
	}
	return &Learner{Config: cfg}
}

// ApplyAction 应用一次反馈，返回更新后的偏好向量（新切片，入参不变）。
// 向量长度不一致返回 DIMENSION_MISMATCH；动作非法返回 UNKNOWN_ACTION。
func (l *Learner) ApplyAction(pref, item []float64, action Action) ([]float64, error) {
	if len(pref) != len(item) {
		return nil, core.NewDomainError(core.ModuleLearn, core.ErrorCodeDimensionMismatch,
			fmt.Sprintf("preference dim %d, item dim %d", len(pref), len(item)))
	}

	alpha := l.Config.LearningRate()
	var keep, pull float64
	switch action {
	case ActionLike:
		keep, pull = 1-alpha, alpha
	case ActionDislike:
		keep, pull = 1-alpha, -alpha
	case ActionSuperlike:
		eff := alpha * l.Config.SuperlikeWeight()
		keep, pull = 1-eff, eff
	default:
		return nil, core.NewDomainError(core.ModuleLearn, core.ErrorCodeUnknownAction,
			fmt.Sprintf("unknown action %q", action))
	}

	updated := make([]float64, len(pref))
	for i := range pref {
		updated[i] = keep*pref[i] + pull*item[i]
	}
	return updated, nil
}
