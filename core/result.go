package core

// Strategy 标记一次推荐结果的主导策略。
type Strategy string

const (
	StrategyCollaborative Strategy = "collaborative"
	StrategyContent       Strategy = "content"
	StrategyTrending      Strategy = "trending"
	StrategyHybrid        Strategy = "hybrid"
)

// RecommendationResult 是单次请求的瞬态输出。
//
// Confidence ∈ [0,1]，表示行为证据对该结果集的支撑程度；
// Reasoning 是面向用户的解释串，顺序有意义。
type RecommendationResult struct {
	Items      []*Item  `json:"items"`
	Confidence float64  `json:"confidence"`
	Reasoning  []string `json:"reasoning"`
	Strategy   Strategy `json:"strategy"`
}

// ItemIDs 返回结果的物品 ID 序列（曝光记录用）。
func (r *RecommendationResult) ItemIDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
