package feast

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
)

type stubClient struct {
	lastReq *GetOnlineFeaturesRequest
	resp    *GetOnlineFeaturesResponse
	err     error
}

func (s *stubClient) GetOnlineFeatures(_ context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func (s *stubClient) Close() error { return nil }

func TestFeatureStoreGet(t *testing.T) {
	client := &stubClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{{
				Values: map[string]interface{}{
					"product_features:category":   "electronics",
					"product_features:brand":      "pixelix",
					"product_features:price":      3999.0,
					"product_features:popularity": 500.0,
					"product_features:rating":     4.6,
					"product_features:tags":       "5g,camera",
					"product_features:in_stock":   1.0,
					"product_features:active":     1.0,
				},
			}},
		},
	}

	fs := NewFeatureStore(client, "shop", nil)
	got, err := fs.Get(context.Background(), "phone-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Category != "electronics" || got.Brand != "pixelix" {
		t.Fatalf("got = %+v", got)
	}
	if got.Popularity != 500 || got.Rating != 4.6 {
		t.Fatalf("got = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "5g" {
		t.Fatalf("tags = %v", got.Tags)
	}
	if !got.InStock || !got.Active {
		t.Fatalf("availability = %v/%v, want true/true", got.InStock, got.Active)
	}
	if got.PriceTier() != core.TierMid {
		t.Fatalf("tier = %v, want mid", got.PriceTier())
	}

	if client.lastReq.Project != "shop" {
		t.Fatalf("project = %q, want shop", client.lastReq.Project)
	}
	if client.lastReq.EntityRows[0]["product_id"] != "phone-1" {
		t.Fatalf("entity rows = %v", client.lastReq.EntityRows)
	}
}

func TestFeatureStoreGetMissing(t *testing.T) {
	client := &stubClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{{Values: map[string]interface{}{}}},
		},
	}

	fs := NewFeatureStore(client, "shop", nil)
	_, err := fs.Get(context.Background(), "ghost")
	if !core.IsNotFound(err) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestFeatureStoreRangeQueriesNeedIndex(t *testing.T) {
	fs := NewFeatureStore(&stubClient{}, "shop", nil)

	if _, err := fs.QueryByCategory(context.Background(), "electronics", 10); !core.IsNotSupported(err) {
		t.Fatalf("err = %v, want NOT_SUPPORTED", err)
	}
	if _, err := fs.QueryActive(context.Background(), 10); !core.IsNotSupported(err) {
		t.Fatalf("err = %v, want NOT_SUPPORTED", err)
	}
}
