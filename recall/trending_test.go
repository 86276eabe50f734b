package recall

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func TestTrendingRecall(t *testing.T) {
	features := newStubFeatures(
		&core.ItemFeatures{ItemID: "book-1", Category: "books", Popularity: 900, Rating: 4.8, InStock: true, Active: true},
		&core.ItemFeatures{ItemID: "phone-1", Category: "electronics", Popularity: 500, Rating: 4.6, InStock: true, Active: true},
		&core.ItemFeatures{ItemID: "phone-2", Category: "electronics", Popularity: 300, Rating: 4.2, InStock: true, Active: true},
	)

	r := &Trending{Features: features, TopK: 2}
	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "anyone"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	got := itemIDs(items)
	if len(got) != 2 || got[0] != "book-1" || got[1] != "phone-1" {
		t.Fatalf("items = %v, want [book-1 phone-1]", got)
	}
	if items[0].Score != 900 {
		t.Fatalf("score = %v, want popularity 900", items[0].Score)
	}
	if items[0].MetaString("category") != "books" {
		t.Fatalf("meta = %v, want enriched category", items[0].Meta)
	}
	if lbl, ok := items[0].Labels["recall_source"]; !ok || lbl.Value != "trending" {
		t.Fatalf("label = %v, want recall_source=trending", items[0].Labels)
	}
}

func TestTrendingEmptyCatalog(t *testing.T) {
	r := &Trending{Features: newStubFeatures()}
	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "anyone"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v, want empty", itemIDs(items))
	}
}
