package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/stylekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("session", cel.DynType),
		cel.Variable("params", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Rule 是一条编译后的过滤规则，使用 CEL (Common Expression Language) 实现。
// 规则来自运营配置（config 的 filter.rules），返回 true 表示对应物品应被过滤。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：item.category == "Shorts" / item.gender != "MEN"
//   - 数值：item.score > 0.7 / session.seen_count >= 100
//   - 逻辑：item.category == "Suits" && item.score < 0.2
//   - 包含：item.id.contains("id_000")
//
// 表达式在构造时编译一次，Eval 可被并发重复调用。
type Rule struct {
	expr string
	prg  cel.Program
}

// CompileRule 编译一条规则表达式。
func CompileRule(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %v", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %v", expr, err)
	}

	return &Rule{expr: expr, prg: prg}, nil
}

// Expr 返回规则原始表达式（用于日志与 Label）。
func (r *Rule) Expr() string { return r.expr }

// Eval 对单个物品求值，返回布尔结果。
// 表达式必须返回 bool；访问不存在的 key 时 CEL 会报错，
// 调用方应视为"不过滤"并记录，而不是中断整条召回链路。
func (r *Rule) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := r.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]interface{} {
	labels := make(map[string]interface{})
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	in := map[string]interface{}{
		"item": map[string]interface{}{
			"id":       item.ID,
			"gender":   item.Gender,
			"category": item.Category,
			"score":    item.Score,
			"labels":   labels,
		},
	}

	session := map[string]interface{}{}
	params := map[string]interface{}{}
	if rctx != nil {
		session["id"] = rctx.SessionID
		session["gender"] = rctx.Gender
		session["country"] = rctx.Country
		if rctx.Params != nil {
			params = rctx.Params
		}
	}
	in["session"] = session
	in["params"] = params
	return in
}
