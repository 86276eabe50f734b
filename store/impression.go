package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/shoprec/core"
)

const impressionKeyPrefix = "impressions:"

// ImpressionSink 是基于 KeyValueStore 的曝光流水：
// impressions:{userID} 是按时间排序的 zset，member 为一次曝光的 JSON 载荷。
//
// 语义是尽力而为：编排层把 Record 的失败当作非致命事件。
type ImpressionSink struct {
	kv core.KeyValueStore
}

func NewImpressionSink(kv core.KeyValueStore) *ImpressionSink {
	return &ImpressionSink{kv: kv}
}

var _ core.ImpressionSink = (*ImpressionSink)(nil)

type impressionRecord struct {
	ItemIDs   []string `json:"item_ids"`
	Scene     string   `json:"scene,omitempty"`
	Timestamp int64    `json:"ts"`
}

func (s *ImpressionSink) Record(ctx context.Context, userID string, itemIDs []string, scene string) error {
	if userID == "" || len(itemIDs) == 0 {
		return nil
	}
	now := time.Now()
	payload, err := json.Marshal(impressionRecord{
		ItemIDs:   itemIDs,
		Scene:     scene,
		Timestamp: now.Unix(),
	})
	if err != nil {
		return err
	}
	return s.kv.ZAdd(ctx, impressionKeyPrefix+userID, float64(now.UnixNano()), string(payload))
}
