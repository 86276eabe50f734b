package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// AvailabilityFilter 过滤掉不可售的物品：零库存或已下架/停用。
// 可售性信号来自 Item.Meta（由特征补全阶段写入）；缺失信号时按保守
// 口径处理为不可售，避免把目录里查不到的物品推给用户。
type AvailabilityFilter struct{}

func (f *AvailabilityFilter) Name() string {
	return "filter.availability"
}

func (f *AvailabilityFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	inStock := item.MetaBool("in_stock", false)
	active := item.MetaBool("active", false)
	return !inStock || !active, nil
}
