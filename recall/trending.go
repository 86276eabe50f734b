package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Trending 是目录级热门召回源：在售物品按浏览量降序、评分降序。
// 既作为混合召回的一路输入，也作为零历史用户的兜底策略。
type Trending struct {
	Features core.FeatureStore

	// TopK 最终返回的物品数（默认 20）
	TopK int
}

// StandaloneConfidence 是热门兜底单独使用时的固定置信度。
const StandaloneConfidence = 0.7

func (r *Trending) Name() string {
	return "recall.trending"
}

func (r *Trending) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Features == nil {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	feats, err := r.Features.QueryActive(ctx, topK)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(feats))
	for _, f := range feats {
		if f == nil {
			continue
		}
		it := core.NewItem(f.ItemID)
		it.Score = float64(f.Popularity)
		it.ApplyFeatures(f)
		it.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
