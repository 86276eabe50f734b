package core

import "github.com/rushteam/shoprec/pkg/utils"

// Item 是推荐链路中的统一承载结构：分数、元信息、标签。
// Meta 承载候选品的目录属性（category/brand/price_tier/...）；
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// MetaString 读取 Meta 中的字符串字段，不存在或类型不符时返回 ""。
func (it *Item) MetaString(key string) string {
	if it.Meta == nil {
		return ""
	}
	if s, ok := it.Meta[key].(string); ok {
		return s
	}
	return ""
}

// MetaFloat 读取 Meta 中的数值字段，不存在或类型不符时返回 0。
func (it *Item) MetaFloat(key string) float64 {
	if it.Meta == nil {
		return 0
	}
	switch v := it.Meta[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// MetaBool 读取 Meta 中的布尔字段，不存在时返回 defaultVal。
func (it *Item) MetaBool(key string, defaultVal bool) bool {
	if it.Meta == nil {
		return defaultVal
	}
	if b, ok := it.Meta[key].(bool); ok {
		return b
	}
	return defaultVal
}

// ApplyFeatures 将目录特征写入 Item 的 Meta，供过滤/多样性/解释阶段使用。
func (it *Item) ApplyFeatures(f *ItemFeatures) {
	if f == nil {
		return
	}
	if it.Meta == nil {
		it.Meta = make(map[string]any)
	}
	it.Meta["category"] = f.Category
	it.Meta["brand"] = f.Brand
	it.Meta["price_tier"] = string(f.PriceTier())
	it.Meta["rating"] = f.Rating
	it.Meta["popularity"] = f.Popularity
	it.Meta["in_stock"] = f.InStock
	it.Meta["active"] = f.Active
}

// PriceTier 是价格档位：budget / mid / premium。
type PriceTier string

const (
	TierBudget  PriceTier = "budget"
	TierMid     PriceTier = "mid"
	TierPremium PriceTier = "premium"
)

// 价格档位阈值（目录基准货币单位）。
const (
	budgetPriceCeiling = 1000
	midPriceCeiling    = 5000
)

// PriceTierOf 由价格推导档位，是 price 的纯函数。
func PriceTierOf(price float64) PriceTier {
	switch {
	case price < budgetPriceCeiling:
		return TierBudget
	case price < midPriceCeiling:
		return TierMid
	default:
		return TierPremium
	}
}

// ItemFeatures 是目录物品的内容特征，由目录系统拥有，本引擎只读、短时缓存。
//
// Embedding 为可选的外部向量特征；参与比较的物品之间维度必须一致。
type ItemFeatures struct {
	ItemID     string    `json:"item_id"`
	Category   string    `json:"category"`
	Brand      string    `json:"brand"`
	Price      float64   `json:"price"`
	Popularity int64     `json:"popularity"` // 浏览量
	Rating     float64   `json:"rating"`     // 0-5
	Tags       []string  `json:"tags,omitempty"`
	Embedding  []float64 `json:"embedding,omitempty"`

	// 可售性信号（目录/库存系统回写）
	InStock bool `json:"in_stock"`
	Active  bool `json:"active"`
}

// PriceTier 返回由 Price 推导的档位。
func (f *ItemFeatures) PriceTier() PriceTier {
	return PriceTierOf(f.Price)
}

// Available 表示物品当前可被推荐（有库存且未下架）。
func (f *ItemFeatures) Available() bool {
	return f.InStock && f.Active
}

// TagSet 返回标签集合，用于 Jaccard 计算。
func (f *ItemFeatures) TagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(f.Tags))
	for _, t := range f.Tags {
		set[t] = struct{}{}
	}
	return set
}
