package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
)

// Group 并发执行多个召回源，按源保留各自的有序结果。
// 混合融合（rank.Hybrid）依赖每路列表内部的名次，所以这里不做合并去重。
//
// 错误隔离：单个召回源失败或超时只影响它自己，对应列表降级为空，
// 不中断其他召回源，也不向上冒泡。
type Group struct {
	Sources []Source
	Timeout time.Duration // 每个召回源的超时时间（0 表示不限制）
}

// Run 返回 source 名称 -> 有序候选列表。失败的源对应 nil。
func (g *Group) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
) map[string][]*core.Item {
	results := make(map[string][]*core.Item, len(g.Sources))
	if len(g.Sources) == 0 {
		return results
	}

	var (
		mu    sync.Mutex
		eg, _ = errgroup.WithContext(ctx)
	)

	for _, src := range g.Sources {
		s := src
		eg.Go(func() error {
			recallCtx := ctx
			if g.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, g.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 降级为空，不中断其他召回源
				items = nil
			}

			mu.Lock()
			results[s.Name()] = items
			mu.Unlock()
			return nil
		})
	}

	// 各分支从不返回 error
	_ = eg.Wait()
	return results
}
