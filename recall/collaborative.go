package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
	"github.com/rushteam/shoprec/similarity"
)

// Collaborative 是基于用户的协同过滤召回源（User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 从 BehaviorStore 抽样一批候选用户（上限 MaxCandidates，抽样策略归实现方）
//  2. 计算与目标用户的行为相似度，保留 > SimilarityThreshold 的
//  3. 按相似度降序取 TopKNeighbors 个邻居
//  4. 邻居购买过、目标用户未购买的物品，按 score[item] += neighborSimilarity 累加
//  5. 按累计分降序取 TopKItems 个
//
// 保证：
//   - 从不返回目标用户已购买的物品
//   - 排序全序且稳定：分数相同时按物品 ID 升序
type Collaborative struct {
	Behaviors core.BehaviorStore

	// SimilarityThreshold 邻居入围的相似度下限（默认 0.3）
	SimilarityThreshold float64

	// TopKNeighbors 保留的相似邻居数（默认 10）
	TopKNeighbors int

	// TopKItems 最终返回的物品数（默认 20）
	TopKItems int

	// MaxCandidates 候选用户抽样上限（默认 100）
	MaxCandidates int
}

func (r *Collaborative) Name() string {
	return "recall.collaborative"
}

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Behaviors == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	target := rctx.Behavior
	if target == nil || target.Empty() {
		return nil, nil
	}

	maxCandidates := r.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 100
	}
	threshold := r.SimilarityThreshold
	if threshold <= 0 {
		threshold = 0.3
	}
	topKNeighbors := r.TopKNeighbors
	if topKNeighbors <= 0 {
		topKNeighbors = 10
	}
	topK := r.TopKItems
	if topK <= 0 {
		topK = 20
	}

	candidates, err := r.Behaviors.Sample(ctx, rctx.UserID, maxCandidates)
	if err != nil {
		return nil, err
	}

	// 计算相似度并筛邻居
	type neighbor struct {
		behavior *core.UserBehavior
		sim      float64
	}
	neighbors := make([]neighbor, 0, len(candidates))
	for _, cand := range candidates {
		if cand == nil || cand.UserID == rctx.UserID {
			continue
		}
		sim := similarity.UserSimilarity(target, cand)
		if sim > threshold {
			neighbors = append(neighbors, neighbor{behavior: cand, sim: sim})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].sim != neighbors[j].sim {
			return neighbors[i].sim > neighbors[j].sim
		}
		return neighbors[i].behavior.UserID < neighbors[j].behavior.UserID
	})
	if len(neighbors) > topKNeighbors {
		neighbors = neighbors[:topKNeighbors]
	}

	// 邻居的购买按相似度加权累加，跳过目标用户已购
	itemScores := make(map[string]float64)
	for _, n := range neighbors {
		for itemID, ok := range n.behavior.PurchasedItems {
			if !ok || target.HasPurchased(itemID) {
				continue
			}
			itemScores[itemID] += n.sim
		}
	}

	out := rankScores(itemScores, topK)
	for _, it := range out {
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
	}
	return out, nil
}

// rankScores 将累计分转为排序后的 Item 列表：分数降序，同分按 ID 升序。
func rankScores(scores map[string]float64, topK int) []*core.Item {
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
	if topK > 0 && len(ids) > topK {
		ids = ids[:topK]
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.Score = scores[id]
		out = append(out, it)
	}
	return out
}
