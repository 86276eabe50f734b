package engine

import (
	"sort"
	"strings"

	"github.com/rushteam/shoprec/core"
)

// 置信度口径：基线 0.5，按行为证据加成，封顶 0.95。
const (
	confidenceBase    = 0.5
	confidenceCeiling = 0.95

	purchaseEvidenceFloor = 5  // |购买| > 5 → +0.2
	viewEvidenceFloor     = 20 // |浏览| > 20 → +0.15
	wishlistEvidenceFloor = 3  // |心愿单| > 3 → +0.1
	ratingEvidenceFloor   = 4.0
)

// confidence 估计行为证据对结果集的支撑程度。
func confidence(behavior *core.UserBehavior, items []*core.Item) float64 {
	c := confidenceBase
	if behavior != nil {
		if len(behavior.PurchasedItems) > purchaseEvidenceFloor {
			c += 0.2
		}
		if len(behavior.ViewedItems) > viewEvidenceFloor {
			c += 0.15
		}
		if len(behavior.Wishlist) > wishlistEvidenceFloor {
			c += 0.1
		}
	}
	if meanRating(items) > ratingEvidenceFloor {
		c += 0.05
	}
	if c > confidenceCeiling {
		c = confidenceCeiling
	}
	return c
}

func meanRating(items []*core.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.MetaFloat("rating")
	}
	return sum / float64(len(items))
}

// reasoning 生成面向用户的解释串。各条件独立判定，顺序固定。
func reasoning(behavior *core.UserBehavior, items []*core.Item) []string {
	out := make([]string, 0, 5)

	if behavior != nil {
		if len(behavior.PurchasedItems) > 0 {
			out = append(out, "Based on your purchase history")
		}
		if len(behavior.ViewedItems) > 10 {
			out = append(out, "Similar to products you viewed")
		}
		if len(behavior.Wishlist) > 0 {
			out = append(out, "Related to items in your wishlist")
		}
	}

	// 结果集聚焦在少数类目时点名类目
	categories := distinctCategories(items)
	if len(categories) > 0 && len(categories) <= 2 {
		out = append(out, "Popular in "+strings.Join(categories, ", "))
	}

	for _, it := range items {
		if it.MetaFloat("rating") > 4.5 {
			out = append(out, "Highly rated by other customers")
			break
		}
	}

	return out
}

func distinctCategories(items []*core.Item) []string {
	seen := make(map[string]bool)
	for _, it := range items {
		if category := it.MetaString("category"); category != "" {
			seen[category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
