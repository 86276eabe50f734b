// Package engine 是推荐引擎的公共入口：编排召回、融合、过滤、多样性
// 与解释计算，并承接交互上报。
package engine

import (
	"context"
	"time"

	"github.com/rushteam/shoprec/cache"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/rank"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// CollaborativeOptions 协同召回参数；零值使用各自默认。
type CollaborativeOptions struct {
	Threshold  float64
	Neighbors  int
	TopK       int
	Candidates int
}

// ContentOptions 内容召回参数。
type ContentOptions struct {
	Threshold float64
	PerSeed   int
	TopK      int
}

// TrendingOptions 热门召回参数。
type TrendingOptions struct {
	TopK int
}

// DiversityOptions 多样性重排参数。
type DiversityOptions struct {
	MaxCategories int
	MaxBrands     int
	Limit         int
}

// Options 是引擎的装配参数。Behaviors 与 Features 必填，其余可选。
type Options struct {
	Behaviors   core.BehaviorStore
	Features    core.FeatureStore
	Impressions core.ImpressionSink // 为空时不记曝光
	SignalStore core.KeyValueStore  // 为空时不维护信号表
	Cache       *cache.MemoryCache  // 为空时内部创建

	// Rules 是业务剔除规则（CEL，命中即剔除）
	Rules []string

	// Timeout 单次请求的超时预算（默认 2s）；超时降级为热门兜底
	Timeout time.Duration

	// DefaultCount 请求未指定数量时的返回条数（默认 10）
	DefaultCount int

	Collaborative CollaborativeOptions
	Content       ContentOptions
	Trending      TrendingOptions
	Diversity     DiversityOptions
}

// Engine 是推荐编排器。无请求级状态，可并发使用。
type Engine struct {
	behaviors   core.BehaviorStore
	features    core.FeatureStore
	impressions core.ImpressionSink
	signals     *SignalTable
	cache       *cache.MemoryCache

	group    *recall.Group
	trending *recall.Trending
	hybrid   *rank.Hybrid
	post     *pipeline.Pipeline

	timeout      time.Duration
	defaultCount int
	locks        *userLocks
}

// 兜底请求的独立预算：主预算耗尽后仍要尽快给出可用结果。
const fallbackBudget = 300 * time.Millisecond

// New 装配推荐引擎。
func New(opts Options) (*Engine, error) {
	if opts.Behaviors == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: behavior store is required")
	}
	if opts.Features == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: feature store is required")
	}

	memCache := opts.Cache
	if memCache == nil {
		memCache = cache.NewMemoryCache(0, 0)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = (&core.DefaultRecommendConfig{}).DefaultTimeout()
	}
	defaultCount := opts.DefaultCount
	if defaultCount <= 0 {
		defaultCount = 10
	}

	features := &cachedFeatures{inner: opts.Features, cache: memCache}

	trending := &recall.Trending{
		Features: features,
		TopK:     opts.Trending.TopK,
	}

	group := &recall.Group{
		Sources: []recall.Source{
			&recall.Collaborative{
				Behaviors:           opts.Behaviors,
				SimilarityThreshold: opts.Collaborative.Threshold,
				TopKNeighbors:       opts.Collaborative.Neighbors,
				TopKItems:           opts.Collaborative.TopK,
				MaxCandidates:       opts.Collaborative.Candidates,
			},
			&recall.Content{
				Features:            features,
				SimilarityThreshold: opts.Content.Threshold,
				PerSeedLimit:        opts.Content.PerSeed,
				TopK:                opts.Content.TopK,
			},
			trending,
		},
		Timeout: timeout,
	}

	filters := []filter.Filter{
		&filter.AvailabilityFilter{},
		&filter.PurchasedFilter{},
	}
	if len(opts.Rules) > 0 {
		filters = append(filters, filter.NewRuleFilter(opts.Rules))
	}
	post := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.FilterNode{Filters: filters},
			&rerank.Diversity{
				MaxCategories: opts.Diversity.MaxCategories,
				MaxBrands:     opts.Diversity.MaxBrands,
				Limit:         opts.Diversity.Limit,
			},
		},
	}

	var signals *SignalTable
	if opts.SignalStore != nil {
		signals = NewSignalTable(opts.SignalStore)
	}

	return &Engine{
		behaviors:    opts.Behaviors,
		features:     opts.Features,
		impressions:  opts.Impressions,
		signals:      signals,
		cache:        memCache,
		group:        group,
		trending:     trending,
		hybrid:       &rank.Hybrid{},
		post:         post,
		timeout:      timeout,
		defaultCount: defaultCount,
		locks:        newUserLocks(),
	}, nil
}

// GetRecommendations 是推荐的公共入口。
//
// 流程：加载行为（缓存优先）→ 三路召回并发执行 → 混合融合 → 特征补全
// → 业务过滤 + 多样性 → 置信度与解释 → 曝光（尽力而为）→ 截取 count。
//
// 降级口径：
//   - 任一召回源失败只影响它自己（对应列表为空）
//   - 三路全空或预算耗尽时退回热门兜底，置信度固定 0.7
//   - 唯一向上冒泡的错误是 INVALID_INPUT
func (e *Engine) GetRecommendations(ctx context.Context, userID string, count int) (*core.RecommendationResult, error) {
	if userID == "" {
		return nil, core.ErrInvalidUserID
	}
	if count <= 0 {
		count = e.defaultCount
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	behavior := e.loadBehavior(ctx, userID)
	rctx := &core.RecommendContext{
		UserID:   userID,
		Scene:    "recommendations",
		Behavior: behavior,
	}

	// 零历史用户没有个性化信号可用，直接走热门通道
	if behavior.Empty() {
		return e.trendingFallback(ctx, rctx, count)
	}

	results := e.group.Run(ctx, rctx)
	lists := []rank.SourceList{
		{Source: "recall.collaborative", Items: results["recall.collaborative"]},
		{Source: "recall.content", Items: results["recall.content"]},
		{Source: "recall.trending", Items: results["recall.trending"]},
	}

	total := 0
	for _, list := range lists {
		total += len(list.Items)
	}
	if total == 0 || ctx.Err() != nil {
		return e.trendingFallback(ctx, rctx, count)
	}

	combined := e.hybrid.Combine(lists, behavior)
	combined = e.enrich(ctx, combined)

	out, err := e.post.Run(ctx, rctx, combined)
	if err != nil || ctx.Err() != nil {
		return e.trendingFallback(ctx, rctx, count)
	}
	if len(out) > count {
		out = out[:count]
	}

	result := &core.RecommendationResult{
		Items:      out,
		Confidence: confidence(behavior, out),
		Reasoning:  reasoning(behavior, out),
		Strategy:   core.StrategyHybrid,
	}
	e.recordImpression(userID, rctx.Scene, result)
	return result, nil
}

// TrackInteraction 上报一次用户交互并更新行为聚合与信号表。
// 同一用户的调用彼此串行；不同用户并行无碍。
func (e *Engine) TrackInteraction(ctx context.Context, userID, itemID string, action core.Action) error {
	if userID == "" {
		return core.ErrInvalidUserID
	}
	if itemID == "" {
		return core.ErrInvalidItemID
	}
	if !core.ValidAction(action) {
		return core.ErrInvalidAction
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	behavior, err := e.behaviors.Get(ctx, userID)
	if core.IsNotFound(err) {
		// 首次交互惰性创建
		behavior = core.NewUserBehavior(userID)
	} else if err != nil {
		return err
	}

	behavior.Apply(action, itemID)
	if err := e.behaviors.Put(ctx, behavior); err != nil {
		return err
	}
	e.cache.InvalidateBehavior(userID)

	// 信号表是加速结构，写失败不影响主链路
	_ = e.signals.Add(ctx, userID, itemID, action)
	return nil
}

// InvalidateItem 处理目录更新信号：定点失效物品特征缓存。
func (e *Engine) InvalidateItem(itemID string) {
	e.cache.InvalidateFeatures(itemID)
}

// Signals 暴露信号表（调试/离线分析用途）；未配置时返回 nil。
func (e *Engine) Signals() *SignalTable {
	return e.signals
}

// Close 释放引擎持有的资源。
func (e *Engine) Close() {
	e.cache.Close()
}

// loadBehavior 缓存优先加载行为聚合；不存在或存储故障时退化为空聚合，
// 保证零历史用户与存储抖动都能得到可用（热门）结果。
func (e *Engine) loadBehavior(ctx context.Context, userID string) *core.UserBehavior {
	if behavior, ok := e.cache.GetBehavior(userID); ok {
		return behavior
	}
	behavior, err := e.behaviors.Get(ctx, userID)
	if err != nil || behavior == nil {
		return core.NewUserBehavior(userID)
	}
	e.cache.SetBehavior(userID, behavior)
	return behavior
}

// enrich 为缺少目录属性的候选补全特征（协同召回只有 ID）。
// 目录里查不到的物品直接剔除。
func (e *Engine) enrich(ctx context.Context, items []*core.Item) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.MetaString("category") != "" {
			out = append(out, it)
			continue
		}
		features, err := e.lookupFeatures(ctx, it.ID)
		if err != nil || features == nil {
			continue
		}
		it.ApplyFeatures(features)
		out = append(out, it)
	}
	return out
}

func (e *Engine) lookupFeatures(ctx context.Context, itemID string) (*core.ItemFeatures, error) {
	if features, ok := e.cache.GetFeatures(itemID); ok {
		return features, nil
	}
	features, err := e.features.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	e.cache.SetFeatures(itemID, features)
	return features, nil
}

// trendingFallback 是零候选/超时的兜底：独立短预算请求热门列表。
func (e *Engine) trendingFallback(ctx context.Context, rctx *core.RecommendContext, count int) (*core.RecommendationResult, error) {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fallbackBudget)
	defer cancel()

	items, err := e.trending.Recall(fctx, rctx)
	if err != nil {
		items = nil
	}
	// 兜底通道不经过 post 流水线，已购过滤在此兜住
	if rctx.Behavior != nil && !rctx.Behavior.Empty() {
		kept := items[:0]
		for _, it := range items {
			if !rctx.Behavior.HasPurchased(it.ID) {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	if len(items) > count {
		items = items[:count]
	}

	result := &core.RecommendationResult{
		Items:      items,
		Confidence: recall.StandaloneConfidence,
		Reasoning:  []string{"Popular products", "Highly rated items"},
		Strategy:   core.StrategyTrending,
	}
	e.recordImpression(rctx.UserID, rctx.Scene, result)
	return result, nil
}

// recordImpression 异步记曝光；失败不影响请求。
func (e *Engine) recordImpression(userID, scene string, result *core.RecommendationResult) {
	if e.impressions == nil || len(result.Items) == 0 {
		return
	}
	itemIDs := result.ItemIDs()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fallbackBudget)
		defer cancel()
		_ = e.impressions.Record(ctx, userID, itemIDs, scene)
	}()
}

// cachedFeatures 为 FeatureStore 的点查加缓存；范围查询直通。
type cachedFeatures struct {
	inner core.FeatureStore
	cache *cache.MemoryCache
}

var _ core.FeatureStore = (*cachedFeatures)(nil)

func (c *cachedFeatures) Get(ctx context.Context, itemID string) (*core.ItemFeatures, error) {
	if features, ok := c.cache.GetFeatures(itemID); ok {
		return features, nil
	}
	features, err := c.inner.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	c.cache.SetFeatures(itemID, features)
	return features, nil
}

func (c *cachedFeatures) QueryByCategory(ctx context.Context, category string, limit int) ([]*core.ItemFeatures, error) {
	return c.inner.QueryByCategory(ctx, category, limit)
}

func (c *cachedFeatures) QueryActive(ctx context.Context, limit int) ([]*core.ItemFeatures, error) {
	return c.inner.QueryActive(ctx, limit)
}
