package rank

import (
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// SourceList 是一路召回的有序结果。
type SourceList struct {
	Source string
	Items  []*core.Item
}

// 各召回源的固定贡献权重。
const (
	WeightCollaborative = 0.40
	WeightContent       = 0.35
	WeightTrending      = 0.25
)

// 行为调权系数。
const (
	wishlistBoost     = 1.5
	clickThroughBoost = 1.2
	cartAbandonedMute = 0.8

	clickThroughFloor = 3 // 点击数超过该值才触发提权
)

// DefaultWeights 返回按召回源名称的默认贡献权重。
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"recall.collaborative": WeightCollaborative,
		"recall.content":       WeightContent,
		"recall.trending":      WeightTrending,
	}
}

// Hybrid 将多路有序召回融合为一个按分数排序的列表。
//
// 融合规则：
//  1. 每路列表中名次为 rank（0 起）的物品获得位置分 (len-rank)/len，
//     乘以该路的贡献权重；跨路求和（缺席的路贡献 0）
//  2. 行为调权：心愿单 ×1.5，点击数 >3 ×1.2，弃购 ×0.8，多项命中时连乘
//  3. 分数降序，同分按物品 ID 升序，保证全序稳定
//
// 同一物品出现在多路时保留同一个 Item 实例，Labels 合并、Meta 取先到的非空值。
type Hybrid struct {
	// Weights 是召回源名称 -> 贡献权重；为空时使用 DefaultWeights。
	Weights map[string]float64
}

func (h *Hybrid) Combine(lists []SourceList, behavior *core.UserBehavior) []*core.Item {
	weights := h.Weights
	if len(weights) == 0 {
		weights = DefaultWeights()
	}

	merged := make(map[string]*core.Item)
	scores := make(map[string]float64)

	for _, list := range lists {
		weight := weights[list.Source]
		if weight == 0 || len(list.Items) == 0 {
			continue
		}
		length := float64(len(list.Items))
		for rank, it := range list.Items {
			if it == nil {
				continue
			}
			positional := (length - float64(rank)) / length
			scores[it.ID] += positional * weight

			if existing, ok := merged[it.ID]; ok {
				for k, v := range it.Labels {
					existing.PutLabel(k, v)
				}
				if len(existing.Meta) == 0 && len(it.Meta) > 0 {
					existing.Meta = it.Meta
				}
				continue
			}
			merged[it.ID] = it
		}
	}

	// 行为调权
	if behavior != nil {
		for id := range scores {
			multiplier := 1.0
			if behavior.Wishlist[id] {
				multiplier *= wishlistBoost
			}
			if behavior.ClickThrough[id] > clickThroughFloor {
				multiplier *= clickThroughBoost
			}
			if behavior.CartAbandoned[id] {
				multiplier *= cartAbandonedMute
			}
			scores[id] *= multiplier
		}
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := merged[id]
		it.Score = scores[id]
		it.PutLabel("rank_stage", utils.Label{Value: "hybrid", Source: "rank"})
		out = append(out, it)
	}
	return out
}
