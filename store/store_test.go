package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
)

func newKV(t *testing.T) *MemoryStore {
	t.Helper()
	kv := NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestMemoryStoreGetSet(t *testing.T) {
	kv := newKV(t)
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("err = %v, want store not found", err)
	}

	if err := kv.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("Get = %q, want v", got)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("err after delete = %v, want store not found", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	kv := newKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "ephemeral", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := kv.Get(ctx, "ephemeral"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := kv.Get(ctx, "ephemeral"); !core.IsStoreNotFound(err) {
		t.Fatalf("err after expiry = %v, want store not found", err)
	}
}

func TestMemoryStoreZSetOrdering(t *testing.T) {
	kv := newKV(t)
	ctx := context.Background()

	kv.ZAdd(ctx, "board", 3, "mid")
	kv.ZAdd(ctx, "board", 9, "top")
	kv.ZAdd(ctx, "board", 1, "low")
	kv.ZAdd(ctx, "board", 3, "mid-b")

	members, err := kv.ZRange(ctx, "board", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	want := []string{"top", "mid", "mid-b", "low"}
	if len(members) != len(want) {
		t.Fatalf("members = %v, want %v", members, want)
	}
	for i := range want {
		if members[i] != want[i] {
			t.Fatalf("members = %v, want %v", members, want)
		}
	}

	// 范围截取
	head, err := kv.ZRange(ctx, "board", 0, 1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	if len(head) != 2 || head[0] != "top" || head[1] != "mid" {
		t.Fatalf("head = %v, want [top mid]", head)
	}
}

func TestMemoryStoreZIncrBy(t *testing.T) {
	kv := newKV(t)
	ctx := context.Background()

	kv.ZIncrBy(ctx, "signal:alice", 0.1, "phone-1")
	kv.ZIncrBy(ctx, "signal:alice", 1.0, "phone-1")

	score, err := kv.ZScore(ctx, "signal:alice", "phone-1")
	if err != nil {
		t.Fatalf("ZScore: %v", err)
	}
	if score < 1.099 || score > 1.101 {
		t.Fatalf("score = %v, want 1.1", score)
	}
}

func TestBehaviorStoreRoundTrip(t *testing.T) {
	behaviors := NewBehaviorStore(newKV(t))
	ctx := context.Background()

	behavior := core.NewUserBehavior("alice")
	behavior.AddPurchase("phone-1")
	behavior.AddView("phone-2", core.DefaultViewedWindow)
	behavior.AddClick("phone-2")
	if err := behaviors.Put(ctx, behavior); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := behaviors.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.PurchasedItems["phone-1"] {
		t.Fatalf("purchased = %v, want phone-1", got.PurchasedItems)
	}
	if len(got.ViewedItems) != 1 || got.ViewedItems[0] != "phone-2" {
		t.Fatalf("viewed = %v, want [phone-2]", got.ViewedItems)
	}
	if got.ClickThrough["phone-2"] != 1 {
		t.Fatalf("clicks = %v, want phone-2:1", got.ClickThrough)
	}

	if _, err := behaviors.Get(ctx, "nobody"); !core.IsNotFound(err) && !core.IsStoreNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestBehaviorStoreSample(t *testing.T) {
	behaviors := NewBehaviorStore(newKV(t))
	ctx := context.Background()

	for _, id := range []string{"alice", "bob", "carol"} {
		b := core.NewUserBehavior(id)
		b.AddPurchase("phone-1")
		if err := behaviors.Put(ctx, b); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	sampled, err := behaviors.Sample(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sampled) != 2 {
		t.Fatalf("len = %d, want 2 (excluding alice)", len(sampled))
	}
	for _, b := range sampled {
		if b.UserID == "alice" {
			t.Fatal("sample must exclude the target user")
		}
	}
}

func TestFeatureStoreRoundTrip(t *testing.T) {
	features := NewFeatureStore(newKV(t))
	ctx := context.Background()

	item := &core.ItemFeatures{
		ItemID:     "phone-1",
		Category:   "electronics",
		Brand:      "pixelix",
		Price:      3999,
		Popularity: 500,
		Rating:     4.6,
		Tags:       []string{"5g"},
		InStock:    true,
		Active:     true,
	}
	if err := features.Put(ctx, item); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := features.Get(ctx, "phone-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Category != "electronics" || got.Rating != 4.6 {
		t.Fatalf("got = %+v", got)
	}
	if got.PriceTier() != core.TierMid {
		t.Fatalf("tier = %v, want mid", got.PriceTier())
	}
}

func TestFeatureStoreQueryByCategory(t *testing.T) {
	features := NewFeatureStore(newKV(t))
	ctx := context.Background()

	seed := []*core.ItemFeatures{
		{ItemID: "phone-1", Category: "electronics", Popularity: 500, InStock: true, Active: true},
		{ItemID: "phone-2", Category: "electronics", Popularity: 900, InStock: true, Active: true},
		{ItemID: "book-1", Category: "books", Popularity: 700, InStock: true, Active: true},
	}
	for _, f := range seed {
		if err := features.Put(ctx, f); err != nil {
			t.Fatalf("Put %s: %v", f.ItemID, err)
		}
	}

	got, err := features.QueryByCategory(ctx, "electronics", 10)
	if err != nil {
		t.Fatalf("QueryByCategory: %v", err)
	}
	if len(got) != 2 || got[0].ItemID != "phone-2" || got[1].ItemID != "phone-1" {
		ids := make([]string, 0, len(got))
		for _, f := range got {
			ids = append(ids, f.ItemID)
		}
		t.Fatalf("got = %v, want [phone-2 phone-1] by popularity", ids)
	}
}

func TestFeatureStoreQueryActiveSkipsUnavailable(t *testing.T) {
	features := NewFeatureStore(newKV(t))
	ctx := context.Background()

	seed := []*core.ItemFeatures{
		{ItemID: "live", Category: "electronics", Popularity: 100, Rating: 4.0, InStock: true, Active: true},
		{ItemID: "sold-out", Category: "electronics", Popularity: 900, Rating: 4.8, InStock: false, Active: true},
		{ItemID: "retired", Category: "electronics", Popularity: 800, Rating: 4.5, InStock: true, Active: false},
	}
	for _, f := range seed {
		if err := features.Put(ctx, f); err != nil {
			t.Fatalf("Put %s: %v", f.ItemID, err)
		}
	}

	got, err := features.QueryActive(ctx, 10)
	if err != nil {
		t.Fatalf("QueryActive: %v", err)
	}
	if len(got) != 1 || got[0].ItemID != "live" {
		t.Fatalf("got %d items, want only live", len(got))
	}
}

func TestFeatureStoreDelistedItemLeavesActiveView(t *testing.T) {
	features := NewFeatureStore(newKV(t))
	ctx := context.Background()

	item := &core.ItemFeatures{ItemID: "phone-1", Category: "electronics", Popularity: 500, InStock: true, Active: true}
	if err := features.Put(ctx, item); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// 下架后更新：读取路径的可售性校验应把它挡在结果外
	item.InStock = false
	if err := features.Put(ctx, item); err != nil {
		t.Fatalf("Put update: %v", err)
	}

	got, err := features.QueryActive(ctx, 10)
	if err != nil {
		t.Fatalf("QueryActive: %v", err)
	}
	for _, f := range got {
		if f.ItemID == "phone-1" {
			t.Fatal("delisted item must leave the active index")
		}
	}
}

func TestImpressionSinkRecord(t *testing.T) {
	kv := newKV(t)
	sink := NewImpressionSink(kv)
	ctx := context.Background()

	if err := sink.Record(ctx, "alice", []string{"phone-1", "phone-2"}, "home"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	members, err := kv.ZRange(ctx, "impressions:alice", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("len = %d, want one impression entry", len(members))
	}
}
