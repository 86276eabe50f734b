package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// TopNNode 截取排序结果的前 N 个，通常作为配置化流水线的收尾节点。
type TopNNode struct {
	// N 保留的物品数（默认 10）
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 {
		limit = 10
	}
	if len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
