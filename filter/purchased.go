package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// PurchasedFilter 过滤掉用户已购买的物品。
//
// 个性化召回已经各自做过排除，这里兜住热门等不带用户视角的来源，
// 保证"不重复推荐已购"在出口处成立。
type PurchasedFilter struct{}

func (f *PurchasedFilter) Name() string {
	return "filter.purchased"
}

func (f *PurchasedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.Behavior == nil {
		return false, nil
	}
	return rctx.Behavior.HasPurchased(item.ID), nil
}
