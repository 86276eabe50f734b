package store

import (
	"context"
	"encoding/json"

	"github.com/rushteam/shoprec/core"
)

// 特征存储的 key 规划。
const (
	itemKeyPrefix     = "item:"
	categoryKeyPrefix = "items:category:" // zset：member=itemID，score=popularity
	activeIndexKey    = "items:active"    // zset：member=itemID，score=popularity+rating/10
)

// FeatureStore 是基于 KeyValueStore 的目录特征存储。
//
// 布局：
//   - item:{itemID}          -> JSON(ItemFeatures)
//   - items:category:{cat}   -> 类目内按热度排序的 itemID 索引
//   - items:active           -> 在售物品索引，score = popularity + rating/10，
//     整数浏览量主导排序、评分破平（rating/10 ≤ 0.5 < 1）
//
// 索引在 Put 时维护；下架/缺货物品不进入 active 索引。
type FeatureStore struct {
	kv core.KeyValueStore
}

func NewFeatureStore(kv core.KeyValueStore) *FeatureStore {
	return &FeatureStore{kv: kv}
}

var _ core.FeatureStore = (*FeatureStore)(nil)

func (s *FeatureStore) Get(ctx context.Context, itemID string) (*core.ItemFeatures, error) {
	data, err := s.kv.Get(ctx, itemKeyPrefix+itemID)
	if err != nil {
		return nil, err
	}
	var features core.ItemFeatures
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError, "store: corrupt item payload")
	}
	return &features, nil
}

// Put 写入物品特征并维护类目/在售索引（目录同步通道使用）。
func (s *FeatureStore) Put(ctx context.Context, features *core.ItemFeatures) error {
	if features == nil || features.ItemID == "" {
		return core.ErrInvalidItemID
	}
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, itemKeyPrefix+features.ItemID, data); err != nil {
		return err
	}

	popularity := float64(features.Popularity)
	if err := s.kv.ZAdd(ctx, categoryKeyPrefix+features.Category, popularity, features.ItemID); err != nil {
		return err
	}
	if features.Available() {
		return s.kv.ZAdd(ctx, activeIndexKey, popularity+features.Rating/10, features.ItemID)
	}
	// 不可售物品从 active 索引退出：写 0 分并不够，需要显式移除；
	// KeyValueStore 未提供 ZRem，通过读取路径的可售性校验兜底
	return nil
}

func (s *FeatureStore) QueryByCategory(ctx context.Context, category string, limit int) ([]*core.ItemFeatures, error) {
	if limit <= 0 {
		limit = 50
	}
	members, err := s.kv.ZRange(ctx, categoryKeyPrefix+category, 0, int64(limit-1))
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, members, limit, false)
}

func (s *FeatureStore) QueryActive(ctx context.Context, limit int) ([]*core.ItemFeatures, error) {
	if limit <= 0 {
		limit = 20
	}
	// 索引可能包含后来下架的物品，多取一倍再按可售性过滤
	members, err := s.kv.ZRange(ctx, activeIndexKey, 0, int64(limit*2-1))
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, members, limit, true)
}

func (s *FeatureStore) fetch(ctx context.Context, itemIDs []string, limit int, onlyAvailable bool) ([]*core.ItemFeatures, error) {
	out := make([]*core.ItemFeatures, 0, limit)
	for _, id := range itemIDs {
		if len(out) >= limit {
			break
		}
		features, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		if onlyAvailable && !features.Available() {
			continue
		}
		out = append(out, features)
	}
	return out, nil
}
