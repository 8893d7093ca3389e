package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/stylekit/core"
	"github.com/rushteam/stylekit/pkg/dsl"
)

// RuleFilter 是规则过滤器：按运营配置的 CEL 表达式过滤物品。
// 任何一条规则命中即过滤；规则求值出错时保留物品并继续
// （策略错误不应打断召回链路）。
//
// 示例规则：
//   - `item.category == "Shorts"`            临时下架某品类
//   - `item.id.contains("id_0009")`          屏蔽一批问题物品
//   - `session.country == "US" && item.category == "Suits"`
type RuleFilter struct {
	rules []*dsl.Rule
}

// NewRuleFilter 编译规则表达式集合。任一表达式非法时立刻失败，
// 配置错误应在启动期暴露而不是留到请求期。
func NewRuleFilter(exprs []string) (*RuleFilter, error) {
	rules := make([]*dsl.Rule, 0, len(exprs))
	for _, expr := range exprs {
		if expr == "" {
			continue
		}
		rule, err := dsl.CompileRule(expr)
		if err != nil {
			return nil, fmt.Errorf("filter rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return &RuleFilter{rules: rules}, nil
}

// Empty 返回是否没有任何规则。
func (f *RuleFilter) Empty() bool { return len(f.rules) == 0 }

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	for _, rule := range f.rules {
		hit, err := rule.Eval(item, rctx)
		if err != nil {
			continue
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}

var _ Filter = (*RuleFilter)(nil)
