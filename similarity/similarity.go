// Package similarity 提供用户-用户与物品-物品相似度的纯函数实现。
// 所有函数无副作用、可并发调用；权重常量是行为兼容性的契约，不可调参。
package similarity

import (
	"math"

	"github.com/rushteam/shoprec/core"
)

// 用户相似度权重：购买重合 0.7，浏览重合 0.3。
const (
	userPurchaseWeight = 0.7
	userViewWeight     = 0.3
)

// 物品相似度权重：类目 0.3，品牌 0.2，价位 0.2，标签 Jaccard 0.3；
// 双方都有 embedding 时按 0.5/0.5 与余弦相似度融合。
const (
	itemCategoryWeight  = 0.3
	itemBrandWeight     = 0.2
	itemPriceWeight     = 0.2
	itemTagWeight       = 0.3
	itemEmbeddingWeight = 0.5
)

// UserSimilarity 计算两个用户行为聚合的相似度，范围 [0,1]。
//
//	purchaseSim = Jaccard(购买集合)
//	viewSim     = |浏览交集| / sqrt(|浏览a| × |浏览b|)
//	result      = 0.7×purchaseSim + 0.3×viewSim
func UserSimilarity(a, b *core.UserBehavior) float64 {
	if a == nil || b == nil {
		return 0
	}
	purchaseSim := jaccardBool(a.PurchasedItems, b.PurchasedItems)
	viewSim := viewOverlap(a.ViewedSet(), b.ViewedSet())
	return userPurchaseWeight*purchaseSim + userViewWeight*viewSim
}

// ItemSimilarity 计算两个物品内容特征的相似度。
//
// 类目/品牌/价位相等分别加 0.3/0.2/0.2，标签按 Jaccard 加权 0.3；
// 两者都有 embedding 时，结果 = 0.5×内容分 + 0.5×余弦相似度。
func ItemSimilarity(p, q *core.ItemFeatures) float64 {
	if p == nil || q == nil {
		return 0
	}

	var score float64
	if p.Category == q.Category {
		score += itemCategoryWeight
	}
	if p.Brand == q.Brand {
		score += itemBrandWeight
	}
	if p.PriceTier() == q.PriceTier() {
		score += itemPriceWeight
	}
	score += itemTagWeight * Jaccard(p.TagSet(), q.TagSet())

	if len(p.Embedding) > 0 && len(q.Embedding) > 0 {
		return itemEmbeddingWeight*score + itemEmbeddingWeight*Cosine(p.Embedding, q.Embedding)
	}
	return score
}

// Jaccard 计算两个集合的 Jaccard 指数：|交集| / |并集|；并集为空时为 0。
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Cosine 计算两个向量的余弦相似度：点积 / 模长之积；任一零向量时为 0。
// 维度不一致视为不可比较，返回 0。
func Cosine(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	var dot, normX, normY float64
	for i := range x {
		dot += x[i] * y[i]
		normX += x[i] * x[i]
		normY += y[i] * y[i]
	}
	if normX == 0 || normY == 0 {
		return 0
	}
	return dot / (math.Sqrt(normX) * math.Sqrt(normY))
}

// jaccardBool 是 map[string]bool 集合上的 Jaccard。
func jaccardBool(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k, ok := range a {
		if ok && b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// viewOverlap = |交集| / sqrt(|a| × |b|)；任一为空时为 0。
func viewOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(a))*float64(len(b)))
}
