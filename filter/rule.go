package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("props", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// RuleFilter 是基于 CEL (Common Expression Language) 的规则过滤器。
// 表达式在创建时编译一次，之后对每个候选求值；求值为 true 的候选被剔除。
//
// 可访问的变量：
//   - item:  {"id": string, "score": double, "features": map}
//   - props: 候选的离散属性（字符串取值），例如 props.available
//   - rctx:  {"user_id": string, "session_id": string}
//
// 示例：
//   - `props.available == "0"`            → 剔除不可售物品
//   - `item.score < 0.0`                  → 剔除负分候选
//   - `item.id in rctx.recent_items`      → 剔除刚看过的物品
type RuleFilter struct {
	expr string
	prg  cel.Program
}

// NewRuleFilter 编译表达式并创建规则过滤器。编译错误在此暴露，
// 作为配置错误处理，而不是留到请求路径。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", expr, err)
	}
	return &RuleFilter{expr: expr, prg: prg}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	return f.Evaluate(rctx, item)
}

// Evaluate 对单个候选求值。求值失败视为不剔除（过滤是尽力而为的治理手段）。
func (f *RuleFilter) Evaluate(rctx *core.RecommendContext, item *core.Item) (bool, error) {
	props := make(map[string]any, len(item.Categorical))
	for k, v := range item.Categorical {
		props[k] = v
	}
	features := make(map[string]any, len(item.Features))
	for k, v := range item.Features {
		features[k] = v
	}
	recent := make([]any, 0, len(rctx.RecentItems))
	for _, id := range rctx.RecentItems {
		recent = append(recent, id)
	}

	input := map[string]any{
		"item": map[string]any{
			"id":       item.ID,
			"score":    item.Score,
			"features": features,
		},
		"props": props,
		"rctx": map[string]any{
			"user_id":      rctx.UserID,
			"session_id":   rctx.SessionID,
			"recent_items": recent,
		},
	}

	out, _, err := f.prg.Eval(input)
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", f.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q must return boolean, got %T", f.expr, out.Value())
	}
	return result, nil
}
