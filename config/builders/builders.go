// Package builders 通过 init 注册内置 Node 的配置构建器。
// 匿名 import 本包即可启用配置驱动的流水线装配。
package builders

import (
	"fmt"

	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildFilterNode 从配置构建组合过滤 Node。
//
// 配置示例：
//
//	type: filter
//	config:
//	  filters:
//	    - type: availability
//	    - type: purchased
//	    - type: rule
//	      rules:
//	        - item.category == "restricted"
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "availability":
			filters = append(filters, &filter.AvailabilityFilter{})
		case "purchased":
			filters = append(filters, &filter.PurchasedFilter{})
		case "rule":
			rules := conv.SliceAnyToString(filterMap["rules"])
			if rules == nil {
				rules = []string{}
			}
			filters = append(filters, filter.NewRuleFilter(rules))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

// BuildDiversityNode 从配置构建多样性重排 Node。
func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		MaxCategories: conv.ConfigGetInt(cfg, "max_categories", 0),
		MaxBrands:     conv.ConfigGetInt(cfg, "max_brands", 0),
		Limit:         conv.ConfigGetInt(cfg, "limit", 0),
	}, nil
}

// BuildTopNNode 从配置构建截断 Node。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}
