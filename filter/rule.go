package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// RuleFilter 是业务规则过滤器：命中任意一条 CEL 表达式的物品被过滤。
//
// 规则示例：
//   - `item.category == "restricted"`
//   - `item.rating < 2.0`
//   - `label.recall_source == "trending" && item.price_tier == "premium"`
//
// 表达式求值失败时该条规则按不命中处理（规则配置错误不应放大为请求失败）。
type RuleFilter struct {
	// Rules 是 CEL 表达式列表，语义为"命中即剔除"。
	Rules []string
}

// NewRuleFilter 创建一个业务规则过滤器。
func NewRuleFilter(rules []string) *RuleFilter {
	return &RuleFilter{Rules: rules}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if len(f.Rules) == 0 {
		return false, nil
	}

	eval := dsl.NewEval(item, rctx)
	for _, rule := range f.Rules {
		if rule == "" {
			continue
		}
		hit, err := eval.Evaluate(rule)
		if err != nil {
			continue
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}
