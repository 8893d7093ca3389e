package learn

import (
	"math"
	"testing"

	"github.com/rushteam/stylekit/core"
)

const eps = 1e-9

func almostEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// TestParseAction 测试动作解析
func TestParseAction(t *testing.T) {
	tests := []struct {
		input   string
		want    Action
		wantErr bool
	}{
		{"like", ActionLike, false},
		{"dislike", ActionDislike, false},
		{"superlike", ActionSuperlike, false},
		{"LIKE", ActionLike, false},
		{" Superlike ", ActionSuperlike, false},
		{"love", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("期望报错，实际得到 %q", got)
				}
				if !core.IsUnknownAction(err) {
					t.Errorf("期望 UNKNOWN_ACTION，实际 %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("期望 %q，实际 %q", tt.want, got)
			}
		})
	}
}

// TestApplyAction 测试滑动平均更新规则
// 偏好 [0,0]、物品 [1,1]，α=0.1、β=2.5
func TestApplyAction(t *testing.T) {
	learner := NewLearner(nil)
	pref := []float64{0, 0}
	item := []float64{1, 1}

	tests := []struct {
		name   string
		action Action
		want   []float64
	}{
		{"like 拉近 α", ActionLike, []float64{0.1, 0.1}},
		{"dislike 推远 α", ActionDislike, []float64{-0.1, -0.1}},
		{"superlike 拉近 αβ", ActionSuperlike, []float64{0.25, 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := learner.ApplyAction(pref, item, tt.action)
			if err != nil {
				t.Fatalf("更新失败: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

// TestApplyActionKeepsInput 测试入参向量不被修改
func TestApplyActionKeepsInput(t *testing.T) {
	learner := NewLearner(nil)
	pref := []float64{0.5, 0.5}
	item := []float64{1, 0}

	if _, err := learner.ApplyAction(pref, item, ActionLike); err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if !almostEqual(pref, []float64{0.5, 0.5}) {
		t.Errorf("入参被修改: %v", pref)
	}
}

// TestApplyActionNoClamp 测试更新后不钳位：反复 dislike 可以出负
func TestApplyActionNoClamp(t *testing.T) {
	learner := NewLearner(nil)
	pref := []float64{0.0}
	item := []float64{1.0}

	var err error
	for i := 0; i < 5; i++ {
		pref, err = learner.ApplyAction(pref, item, ActionDislike)
		if err != nil {
			t.Fatalf("更新失败: %v", err)
		}
	}
	if pref[0] >= 0 {
		t.Errorf("期望负值，实际 %v", pref[0])
	}
}

// TestApplyActionDimensionMismatch 测试维度不一致
func TestApplyActionDimensionMismatch(t *testing.T) {
	learner := NewLearner(nil)
	_, err := learner.ApplyAction([]float64{1, 2}, []float64{1}, ActionLike)
	if !core.IsDimensionMismatch(err) {
		t.Errorf("期望 DIMENSION_MISMATCH，实际 %v", err)
	}
}
