package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Diversity 是多样性 ReRank 节点：沿排序结果顺序走，限制已录取物品中
// 不同类目/品牌的数量，避免结果单调。
//
// 录取规则：
//   - 录取某物品会使不同类目数超过 MaxCategories，或不同品牌数超过
//     MaxBrands 时，跳过该物品
//   - 类目与品牌都已在录取集合中出现过的物品从不被上限拦截
//     （录取它不会扩大任何一个多样性集合）
//   - 录取满 Limit 个后停止
//
// 注意：前几个物品在集合未填满前按上述规则宽松放行，这是刻意保留的
// 行为口径，收紧须与产品确认。
type Diversity struct {
	// MaxCategories 不同类目上限（默认 3）
	MaxCategories int

	// MaxBrands 不同品牌上限（默认 5）
	MaxBrands int

	// Limit 录取物品总数上限（默认 20）
	Limit int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	maxCategories := n.MaxCategories
	if maxCategories <= 0 {
		maxCategories = 3
	}
	maxBrands := n.MaxBrands
	if maxBrands <= 0 {
		maxBrands = 5
	}
	limit := n.Limit
	if limit <= 0 {
		limit = 20
	}

	seenCategories := make(map[string]bool, maxCategories)
	seenBrands := make(map[string]bool, maxBrands)
	out := make([]*core.Item, 0, limit)

	for _, it := range items {
		if it == nil {
			continue
		}
		if len(out) >= limit {
			break
		}

		category := it.MetaString("category")
		brand := it.MetaString("brand")

		newCategory := category != "" && !seenCategories[category]
		newBrand := brand != "" && !seenBrands[brand]

		// 只有会扩大多样性集合的物品才受上限约束
		if newCategory && len(seenCategories) >= maxCategories {
			continue
		}
		if newBrand && len(seenBrands) >= maxBrands {
			continue
		}

		if newCategory {
			seenCategories[category] = true
		}
		if newBrand {
			seenBrands[brand] = true
		}
		out = append(out, it)
	}

	return out, nil
}
