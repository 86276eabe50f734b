package feast

import (
	"context"
	"strings"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/conv"
)

// 物品特征在 Feast 中的特征视图与字段约定。
const (
	featureView = "product_features"

	entityKey = "product_id"
)

// featureRefs 是点查时请求的全部特征引用。
var featureRefs = []string{
	featureView + ":category",
	featureView + ":brand",
	featureView + ":price",
	featureView + ":popularity",
	featureView + ":rating",
	featureView + ":tags",
	featureView + ":in_stock",
	featureView + ":active",
}

// FeatureStore 是基于 Feast 的 core.FeatureStore 实现。
//
// 点查（Get）走 Feast 在线特征；范围查询（QueryByCategory/QueryActive）
// 委托给伴随索引，Feast 在线存储不提供按类目/热度的扫描语义。
type FeatureStore struct {
	client  Client
	project string

	// index 提供类目/在售索引视图，通常是 KV 存储上的 FeatureStore
	index core.FeatureStore
}

// NewFeatureStore 创建 Feast 特征存储适配器。
// index 承接范围查询；为 nil 时范围查询返回 NOT_SUPPORTED。
func NewFeatureStore(client Client, project string, index core.FeatureStore) *FeatureStore {
	return &FeatureStore{client: client, project: project, index: index}
}

var _ core.FeatureStore = (*FeatureStore)(nil)

func (s *FeatureStore) Get(ctx context.Context, itemID string) (*core.ItemFeatures, error) {
	if itemID == "" {
		return nil, core.ErrInvalidItemID
	}

	resp, err := s.client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   featureRefs,
		EntityRows: []map[string]interface{}{{entityKey: itemID}},
		Project:    s.project,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "feast: "+err.Error())
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "feast: no feature vector for "+itemID)
	}

	values := resp.FeatureVectors[0].Values
	if len(values) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "feast: empty features for "+itemID)
	}

	features := &core.ItemFeatures{
		ItemID:   itemID,
		Category: stringValue(values, "category"),
		Brand:    stringValue(values, "brand"),
		Price:    floatValue(values, "price"),
		Rating:   floatValue(values, "rating"),
		InStock:  floatValue(values, "in_stock") > 0,
		Active:   floatValue(values, "active") > 0,
	}
	features.Popularity = int64(floatValue(values, "popularity"))
	if tags := stringValue(values, "tags"); tags != "" {
		features.Tags = strings.Split(tags, ",")
	}
	return features, nil
}

func (s *FeatureStore) QueryByCategory(ctx context.Context, category string, limit int) ([]*core.ItemFeatures, error) {
	if s.index == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotSupported, "feast: range query requires a companion index")
	}
	return s.index.QueryByCategory(ctx, category, limit)
}

func (s *FeatureStore) QueryActive(ctx context.Context, limit int) ([]*core.ItemFeatures, error) {
	if s.index == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotSupported, "feast: range query requires a companion index")
	}
	return s.index.QueryActive(ctx, limit)
}

// Close 关闭底层客户端。
func (s *FeatureStore) Close() error {
	return s.client.Close()
}

func stringValue(values map[string]interface{}, field string) string {
	v, ok := values[featureView+":"+field]
	if !ok {
		return ""
	}
	out, _ := conv.ToString(v)
	return out
}

func floatValue(values map[string]interface{}, field string) float64 {
	v, ok := values[featureView+":"+field]
	if !ok {
		return 0
	}
	out, _ := conv.ToFloat64(v)
	return out
}
