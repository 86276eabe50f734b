package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
	"github.com/rushteam/shoprec/similarity"
)

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢具有某些特征的物品，推荐具有相似特征的其他物品"
//
// 算法流程：
//  1. 由浏览∪购买的物品统计偏好画像：类目/品牌/价位出现次数
//  2. 对每个浏览过的种子物品，取同类目候选（上限 PerSeedLimit），
//     计算 ItemSimilarity，保留 > SimilarityThreshold 的并按种子累加
//  3. 候选分数乘偏好系数：
//     (1+0.1×类目计数)×(1+0.05×品牌计数)×(1+0.05×价位计数)，总提升封顶 2.0
//  4. 降序取 TopK
//
// 已购物品与种子自身不会成为候选。
type Content struct {
	Features core.FeatureStore

	// SimilarityThreshold 候选入围的相似度下限（默认 0.4）
	SimilarityThreshold float64

	// PerSeedLimit 每个种子物品取的同类目候选数（默认 50）
	PerSeedLimit int

	// TopK 最终返回的物品数（默认 20）
	TopK int
}

// 偏好系数权重与封顶。
const (
	categoryBoostStep  = 0.1
	brandBoostStep     = 0.05
	tierBoostStep      = 0.05
	maxPreferenceBoost = 2.0
)

func (r *Content) Name() string {
	return "recall.content"
}

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Features == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	behavior := rctx.Behavior
	if behavior == nil || len(behavior.ViewedItems) == 0 {
		return nil, nil
	}

	threshold := r.SimilarityThreshold
	if threshold <= 0 {
		threshold = 0.4
	}
	perSeed := r.PerSeedLimit
	if perSeed <= 0 {
		perSeed = 50
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	// 1. 偏好画像：浏览∪购买物品的类目/品牌/价位计数。
	// 缺失的物品（目录下架等）直接跳过，不向上冒泡。
	profile := r.buildProfile(ctx, behavior)

	// 2. 逐种子累加候选分数
	itemScores := make(map[string]float64)
	features := make(map[string]*core.ItemFeatures)

	for seedID := range behavior.ViewedSet() {
		seed, err := r.Features.Get(ctx, seedID)
		if err != nil || seed == nil {
			continue
		}

		candidates, err := r.Features.QueryByCategory(ctx, seed.Category, perSeed)
		if err != nil {
			continue
		}
		for _, cand := range candidates {
			if cand == nil || cand.ItemID == seedID {
				continue
			}
			if behavior.HasPurchased(cand.ItemID) {
				continue
			}
			sim := similarity.ItemSimilarity(seed, cand)
			if sim <= threshold {
				continue
			}
			itemScores[cand.ItemID] += sim
			features[cand.ItemID] = cand
		}
	}

	// 3. 偏好系数
	for id, score := range itemScores {
		f := features[id]
		boost := (1 + categoryBoostStep*float64(profile.categories[f.Category])) *
			(1 + brandBoostStep*float64(profile.brands[f.Brand])) *
			(1 + tierBoostStep*float64(profile.tiers[f.PriceTier()]))
		if boost > maxPreferenceBoost {
			boost = maxPreferenceBoost
		}
		itemScores[id] = score * boost
	}

	// 4. 排序取 TopK
	out := rankScores(itemScores, topK)
	for _, it := range out {
		it.ApplyFeatures(features[it.ID])
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
	}
	return out, nil
}

type preferenceProfile struct {
	categories map[string]int
	brands     map[string]int
	tiers      map[core.PriceTier]int
}

func (r *Content) buildProfile(ctx context.Context, behavior *core.UserBehavior) *preferenceProfile {
	p := &preferenceProfile{
		categories: make(map[string]int),
		brands:     make(map[string]int),
		tiers:      make(map[core.PriceTier]int),
	}

	engaged := behavior.ViewedSet()
	for id := range behavior.PurchasedItems {
		engaged[id] = struct{}{}
	}

	for id := range engaged {
		f, err := r.Features.Get(ctx, id)
		if err != nil || f == nil {
			continue
		}
		p.categories[f.Category]++
		p.brands[f.Brand]++
		p.tiers[f.PriceTier()]++
	}
	return p
}
