package filter

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func catalogItem(id string, inStock, active bool) *core.Item {
	it := core.NewItem(id)
	it.Meta["in_stock"] = inStock
	it.Meta["active"] = active
	return it
}

func TestAvailabilityFilter(t *testing.T) {
	f := &AvailabilityFilter{}
	ctx := context.Background()

	cases := []struct {
		name string
		item *core.Item
		want bool
	}{
		{"available", catalogItem("a", true, true), false},
		{"out of stock", catalogItem("b", false, true), true},
		{"inactive", catalogItem("c", true, false), true},
		{"missing meta", core.NewItem("d"), true},
		{"nil item", nil, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := f.ShouldFilter(ctx, nil, c.item)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != c.want {
				t.Fatalf("ShouldFilter = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPurchasedFilter(t *testing.T) {
	behavior := core.NewUserBehavior("alice")
	behavior.AddPurchase("owned")
	rctx := &core.RecommendContext{UserID: "alice", Behavior: behavior}

	f := &PurchasedFilter{}
	ctx := context.Background()

	if got, _ := f.ShouldFilter(ctx, rctx, core.NewItem("owned")); !got {
		t.Fatal("purchased item must be filtered")
	}
	if got, _ := f.ShouldFilter(ctx, rctx, core.NewItem("fresh")); got {
		t.Fatal("unpurchased item must pass")
	}
	// 无行为上下文时直通
	if got, _ := f.ShouldFilter(ctx, &core.RecommendContext{UserID: "bob"}, core.NewItem("owned")); got {
		t.Fatal("missing behavior must not filter")
	}
}

func TestRuleFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "alice"}
	f := NewRuleFilter([]string{
		`item.category == "restricted"`,
		`item.rating < 2.0`,
	})
	ctx := context.Background()

	restricted := core.NewItem("r")
	restricted.Meta["category"] = "restricted"
	restricted.Meta["rating"] = 4.5
	if got, _ := f.ShouldFilter(ctx, rctx, restricted); !got {
		t.Fatal("restricted category must be filtered")
	}

	lowRated := core.NewItem("l")
	lowRated.Meta["category"] = "books"
	lowRated.Meta["rating"] = 1.5
	if got, _ := f.ShouldFilter(ctx, rctx, lowRated); !got {
		t.Fatal("low rating must be filtered")
	}

	fine := core.NewItem("f")
	fine.Meta["category"] = "books"
	fine.Meta["rating"] = 4.0
	if got, _ := f.ShouldFilter(ctx, rctx, fine); got {
		t.Fatal("clean item must pass")
	}
}

func TestRuleFilterBadExpressionIgnored(t *testing.T) {
	f := NewRuleFilter([]string{`this is not CEL (((`})
	it := core.NewItem("x")
	it.Meta["category"] = "books"

	got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{UserID: "alice"}, it)
	if err != nil {
		t.Fatalf("ShouldFilter: %v", err)
	}
	if got {
		t.Fatal("broken rule must not filter anything")
	}
}

func TestFilterNodeComposition(t *testing.T) {
	behavior := core.NewUserBehavior("alice")
	behavior.AddPurchase("owned")
	rctx := &core.RecommendContext{UserID: "alice", Behavior: behavior}

	node := &FilterNode{Filters: []Filter{
		&AvailabilityFilter{},
		&PurchasedFilter{},
	}}

	owned := catalogItem("owned", true, true)
	sold := catalogItem("sold-out", false, true)
	keep := catalogItem("keep", true, true)

	out, err := node.Process(context.Background(), rctx, []*core.Item{owned, sold, keep})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "keep" {
		t.Fatalf("out = %v, want only keep", out)
	}
	if lbl, ok := sold.Labels["filtered"]; !ok || lbl.Source != "filter.availability" {
		t.Fatalf("labels = %v, want filtered label with filter name", sold.Labels)
	}
	if lbl, ok := owned.Labels["filtered"]; !ok || lbl.Source != "filter.purchased" {
		t.Fatalf("labels = %v, want filtered label with filter name", owned.Labels)
	}
}
