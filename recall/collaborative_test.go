package recall

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func behaviorWithPurchases(userID string, itemIDs ...string) *core.UserBehavior {
	b := core.NewUserBehavior(userID)
	for _, id := range itemIDs {
		b.AddPurchase(id)
	}
	return b
}

func TestCollaborativeRecall(t *testing.T) {
	target := behaviorWithPurchases("alice", "car-1")
	neighbor := behaviorWithPurchases("bob", "car-1", "car-2")

	r := &Collaborative{
		Behaviors: &stubBehaviors{users: []*core.UserBehavior{target, neighbor}},
	}
	rctx := &core.RecommendContext{UserID: "alice", Behavior: target}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 1 || items[0].ID != "car-2" {
		t.Fatalf("items = %v, want [car-2]", itemIDs(items))
	}
	// score = 0.7 × Jaccard({car-1}, {car-1,car-2}) = 0.7 × 0.5
	if math.Abs(items[0].Score-0.35) > 1e-9 {
		t.Fatalf("score = %v, want 0.35", items[0].Score)
	}
	if lbl, ok := items[0].Labels["recall_source"]; !ok || lbl.Value != "collaborative" {
		t.Fatalf("label = %v, want recall_source=collaborative", items[0].Labels)
	}
}

func TestCollaborativeSkipsDissimilarNeighbors(t *testing.T) {
	target := behaviorWithPurchases("alice", "car-1", "car-2", "car-3")
	// 交集 1/4，相似度 0.7×0.25 = 0.175 低于默认阈值 0.3
	stranger := behaviorWithPurchases("eve", "car-1", "boat-1")

	r := &Collaborative{
		Behaviors: &stubBehaviors{users: []*core.UserBehavior{target, stranger}},
	}
	rctx := &core.RecommendContext{UserID: "alice", Behavior: target}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v, want empty", itemIDs(items))
	}
}

func TestCollaborativeNeverReturnsOwnPurchases(t *testing.T) {
	target := behaviorWithPurchases("alice", "car-1", "car-2")
	neighbor := behaviorWithPurchases("bob", "car-1", "car-2", "car-3")

	r := &Collaborative{
		Behaviors: &stubBehaviors{users: []*core.UserBehavior{target, neighbor}},
	}
	rctx := &core.RecommendContext{UserID: "alice", Behavior: target}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	for _, it := range items {
		if target.HasPurchased(it.ID) {
			t.Fatalf("returned already purchased item %s", it.ID)
		}
	}
	if len(items) != 1 || items[0].ID != "car-3" {
		t.Fatalf("items = %v, want [car-3]", itemIDs(items))
	}
}

func TestCollaborativeDeterministicTieOrder(t *testing.T) {
	target := behaviorWithPurchases("alice", "seed-1")
	// 同一邻居的多个物品分数相同，按 ID 升序返回
	neighbor := behaviorWithPurchases("bob", "seed-1", "item-b", "item-a", "item-c")

	r := &Collaborative{
		Behaviors: &stubBehaviors{users: []*core.UserBehavior{target, neighbor}},
		// 阈值压低让 1/4 交集也入围
		SimilarityThreshold: 0.1,
	}
	rctx := &core.RecommendContext{UserID: "alice", Behavior: target}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	want := []string{"item-a", "item-b", "item-c"}
	got := itemIDs(items)
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}

func TestCollaborativeEmptyBehavior(t *testing.T) {
	r := &Collaborative{Behaviors: &stubBehaviors{}}
	rctx := &core.RecommendContext{UserID: "alice", Behavior: core.NewUserBehavior("alice")}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v, want empty for empty behavior", itemIDs(items))
	}
}

func TestCollaborativeStoreError(t *testing.T) {
	storeErr := core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "stub: down")
	target := behaviorWithPurchases("alice", "car-1")
	r := &Collaborative{Behaviors: &stubBehaviors{err: storeErr}}
	rctx := &core.RecommendContext{UserID: "alice", Behavior: target}

	_, err := r.Recall(context.Background(), rctx)
	if !errors.Is(err, storeErr) && !core.IsUnavailable(err) {
		t.Fatalf("err = %v, want store error surfaced", err)
	}
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
