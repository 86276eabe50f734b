package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/shoprec/core"
)

// 行为存储的 key 规划。
const (
	behaviorKeyPrefix = "behavior:"
	behaviorIndexKey  = "behavior:index" // zset：member=userID，score=最近更新时间
)

// BehaviorStore 是基于 KeyValueStore 的用户行为聚合存储。
//
// 布局：
//   - behavior:{userID} -> JSON(UserBehavior)
//   - behavior:index    -> 按最近更新时间排序的 userID 索引，
//     为协同召回提供"最近活跃用户优先"的有界抽样
type BehaviorStore struct {
	kv core.KeyValueStore
}

func NewBehaviorStore(kv core.KeyValueStore) *BehaviorStore {
	return &BehaviorStore{kv: kv}
}

var _ core.BehaviorStore = (*BehaviorStore)(nil)

func (s *BehaviorStore) Get(ctx context.Context, userID string) (*core.UserBehavior, error) {
	data, err := s.kv.Get(ctx, behaviorKeyPrefix+userID)
	if err != nil {
		return nil, err
	}
	var behavior core.UserBehavior
	if err := json.Unmarshal(data, &behavior); err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInternalError, "store: corrupt behavior payload")
	}
	return &behavior, nil
}

func (s *BehaviorStore) Put(ctx context.Context, behavior *core.UserBehavior) error {
	if behavior == nil || behavior.UserID == "" {
		return core.ErrInvalidUserID
	}
	data, err := json.Marshal(behavior)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, behaviorKeyPrefix+behavior.UserID, data); err != nil {
		return err
	}
	// 索引失败不影响主写入：抽样覆盖面变小，但聚合本身是完整的
	_ = s.kv.ZAdd(ctx, behaviorIndexKey, float64(time.Now().Unix()), behavior.UserID)
	return nil
}

// Sample 返回最近活跃的一批其他用户聚合，上限 limit。
func (s *BehaviorStore) Sample(ctx context.Context, excludeUserID string, limit int) ([]*core.UserBehavior, error) {
	if limit <= 0 {
		limit = 100
	}
	// 多取一个名额，排除目标用户后仍能满额
	members, err := s.kv.ZRange(ctx, behaviorIndexKey, 0, int64(limit))
	if err != nil {
		return nil, err
	}

	out := make([]*core.UserBehavior, 0, limit)
	for _, userID := range members {
		if userID == excludeUserID {
			continue
		}
		if len(out) >= limit {
			break
		}
		behavior, err := s.Get(ctx, userID)
		if err != nil {
			// 索引残留：聚合已不可读时跳过该用户
			continue
		}
		out = append(out, behavior)
	}
	return out, nil
}
