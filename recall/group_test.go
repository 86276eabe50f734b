package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
)

type scriptedSource struct {
	name  string
	items []*core.Item
	err   error
	delay time.Duration
}

func (s *scriptedSource) Name() string { return s.name }

func (s *scriptedSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func TestGroupRunKeepsSourcesSeparate(t *testing.T) {
	g := &Group{Sources: []Source{
		&scriptedSource{name: "recall.a", items: []*core.Item{core.NewItem("a-1")}},
		&scriptedSource{name: "recall.b", items: []*core.Item{core.NewItem("b-1"), core.NewItem("b-2")}},
	}}

	results := g.Run(context.Background(), &core.RecommendContext{UserID: "alice"})
	if len(results["recall.a"]) != 1 || results["recall.a"][0].ID != "a-1" {
		t.Fatalf("recall.a = %v", itemIDs(results["recall.a"]))
	}
	if len(results["recall.b"]) != 2 {
		t.Fatalf("recall.b = %v", itemIDs(results["recall.b"]))
	}
}

func TestGroupRunIsolatesFailures(t *testing.T) {
	g := &Group{Sources: []Source{
		&scriptedSource{name: "recall.ok", items: []*core.Item{core.NewItem("x-1")}},
		&scriptedSource{name: "recall.broken", err: core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "stub: down")},
	}}

	results := g.Run(context.Background(), &core.RecommendContext{UserID: "alice"})
	if len(results["recall.ok"]) != 1 {
		t.Fatalf("recall.ok = %v, failure must not leak", itemIDs(results["recall.ok"]))
	}
	if items, ok := results["recall.broken"]; !ok || items != nil {
		t.Fatalf("recall.broken = %v, want recorded nil", items)
	}
}

func TestGroupRunTimeoutDegradesSlowSource(t *testing.T) {
	g := &Group{
		Sources: []Source{
			&scriptedSource{name: "recall.fast", items: []*core.Item{core.NewItem("f-1")}},
			&scriptedSource{name: "recall.slow", delay: 200 * time.Millisecond, items: []*core.Item{core.NewItem("s-1")}},
		},
		Timeout: 20 * time.Millisecond,
	}

	start := time.Now()
	results := g.Run(context.Background(), &core.RecommendContext{UserID: "alice"})
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Fatalf("Run took %v, slow source must be cut by timeout", elapsed)
	}
	if len(results["recall.fast"]) != 1 {
		t.Fatalf("recall.fast = %v", itemIDs(results["recall.fast"]))
	}
	if len(results["recall.slow"]) != 0 {
		t.Fatalf("recall.slow = %v, want degraded empty", itemIDs(results["recall.slow"]))
	}
}
