package filter

import (
	"context"
	"testing"

	"github.com/rushteam/stylekit/core"
)

func ruleTestItem(id, gender, category string) *core.Item {
	it := core.NewItem(id)
	it.Gender = gender
	it.Category = category
	return it
}

// TestRuleFilter 测试 CEL 规则过滤
func TestRuleFilter(t *testing.T) {
	f, err := NewRuleFilter([]string{
		`item.category == "Shorts"`,
		`item.id.contains("id_0009")`,
	})
	if err != nil {
		t.Fatalf("编译规则失败: %v", err)
	}

	ctx := context.Background()
	rctx := &core.RecommendContext{SessionID: "s1"}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{"品类命中", ruleTestItem("id_001", "MEN", "Shorts"), true},
		{"id 前缀命中", ruleTestItem("id_00091", "MEN", "Jeans"), true},
		{"未命中", ruleTestItem("id_001", "MEN", "Jeans"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(ctx, rctx, tt.item)
			if err != nil {
				t.Fatalf("求值失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

// TestRuleFilterSessionContext 测试规则读取会话上下文
func TestRuleFilterSessionContext(t *testing.T) {
	f, err := NewRuleFilter([]string{
		`session.country == "US" && item.category == "Suits"`,
	})
	if err != nil {
		t.Fatalf("编译规则失败: %v", err)
	}

	ctx := context.Background()
	item := ruleTestItem("id_001", "MEN", "Suits")

	hit, _ := f.ShouldFilter(ctx, &core.RecommendContext{Country: "US"}, item)
	if !hit {
		t.Error("US 会话应过滤 Suits")
	}
	hit, _ = f.ShouldFilter(ctx, &core.RecommendContext{Country: "JP"}, item)
	if hit {
		t.Error("JP 会话不应过滤")
	}
}

// TestRuleFilterCompileError 测试非法表达式启动期失败
func TestRuleFilterCompileError(t *testing.T) {
	if _, err := NewRuleFilter([]string{`item.category ==`}); err == nil {
		t.Fatal("非法表达式应编译失败")
	}
}

// TestRuleFilterEvalErrorKeepsItem 测试求值错误时保留物品
func TestRuleFilterEvalErrorKeepsItem(t *testing.T) {
	f, err := NewRuleFilter([]string{`item.not_a_field == "x"`})
	if err != nil {
		t.Fatalf("编译规则失败: %v", err)
	}
	hit, err := f.ShouldFilter(context.Background(), &core.RecommendContext{}, ruleTestItem("id_001", "MEN", "Jeans"))
	if err != nil {
		t.Fatalf("求值错误不应上抛: %v", err)
	}
	if hit {
		t.Error("求值错误应保留物品")
	}
}
