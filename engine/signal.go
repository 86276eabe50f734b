package engine

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// 交互信号权重：为后续相似度加速预留的加权分。
var actionWeights = map[core.Action]float64{
	core.ActionView:     0.1,
	core.ActionClick:    0.2,
	core.ActionCart:     0.5,
	core.ActionWishlist: 0.6,
	core.ActionPurchase: 1.0,
}

const signalKeyPrefix = "signal:"

// SignalTable 是每用户的增量加权分表：signal:{userID} 是
// member=itemID 的 zset，分数随交互只增不减（衰减归离线任务，不在
// 本引擎职责内）。
type SignalTable struct {
	kv core.KeyValueStore
}

func NewSignalTable(kv core.KeyValueStore) *SignalTable {
	return &SignalTable{kv: kv}
}

// Add 按交互类型累加权重。
func (t *SignalTable) Add(ctx context.Context, userID, itemID string, action core.Action) error {
	if t == nil || t.kv == nil {
		return nil
	}
	weight, ok := actionWeights[action]
	if !ok {
		return core.ErrInvalidAction
	}
	return t.kv.ZIncrBy(ctx, signalKeyPrefix+userID, weight, itemID)
}

// Score 读取某用户对某物品的累计信号分；无记录时返回 0。
func (t *SignalTable) Score(ctx context.Context, userID, itemID string) (float64, error) {
	if t == nil || t.kv == nil {
		return 0, nil
	}
	score, err := t.kv.ZScore(ctx, signalKeyPrefix+userID, itemID)
	if core.IsStoreNotFound(err) {
		return 0, nil
	}
	return score, err
}

// TopItems 返回某用户信号分最高的物品（调试/离线分析用）。
func (t *SignalTable) TopItems(ctx context.Context, userID string, limit int) ([]string, error) {
	if t == nil || t.kv == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return t.kv.ZRange(ctx, signalKeyPrefix+userID, 0, int64(limit-1))
}
