package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
)

// EngineConfig 是推荐引擎的可调参数（YAML）。
// 存储等运行时依赖由调用方装配，配置只承载数值与规则。
//
// 示例：
//
//	engine:
//	  timeout: 2          # 秒
//	  default_count: 10
//	  rules:
//	    - item.category == "restricted"
//	  collaborative:
//	    threshold: 0.3
//	    neighbors: 10
//	  diversity:
//	    max_categories: 3
//	    max_brands: 5
type EngineConfig struct {
	Engine struct {
		// Timeout 单次请求超时（秒）
		Timeout      int      `yaml:"timeout"`
		DefaultCount int      `yaml:"default_count"`
		Rules        []string `yaml:"rules"`

		Collaborative struct {
			Threshold  float64 `yaml:"threshold"`
			Neighbors  int     `yaml:"neighbors"`
			TopK       int     `yaml:"top_k"`
			Candidates int     `yaml:"candidates"`
		} `yaml:"collaborative"`

		Content struct {
			Threshold float64 `yaml:"threshold"`
			PerSeed   int     `yaml:"per_seed"`
			TopK      int     `yaml:"top_k"`
		} `yaml:"content"`

		Trending struct {
			TopK int `yaml:"top_k"`
		} `yaml:"trending"`

		Diversity struct {
			MaxCategories int `yaml:"max_categories"`
			MaxBrands     int `yaml:"max_brands"`
			Limit         int `yaml:"limit"`
		} `yaml:"diversity"`
	} `yaml:"engine"`
}

// LoadEngineConfig 从 YAML 文件加载引擎配置。
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// Options 把配置与运行时依赖合成 engine.Options。
// 未设置的数值保持零值，由引擎内各组件套用默认。
func (c *EngineConfig) Options(
	behaviors core.BehaviorStore,
	features core.FeatureStore,
	impressions core.ImpressionSink,
	signals core.KeyValueStore,
) engine.Options {
	e := c.Engine
	return engine.Options{
		Behaviors:    behaviors,
		Features:     features,
		Impressions:  impressions,
		SignalStore:  signals,
		Rules:        e.Rules,
		Timeout:      time.Duration(e.Timeout) * time.Second,
		DefaultCount: e.DefaultCount,
		Collaborative: engine.CollaborativeOptions{
			Threshold:  e.Collaborative.Threshold,
			Neighbors:  e.Collaborative.Neighbors,
			TopK:       e.Collaborative.TopK,
			Candidates: e.Collaborative.Candidates,
		},
		Content: engine.ContentOptions{
			Threshold: e.Content.Threshold,
			PerSeed:   e.Content.PerSeed,
			TopK:      e.Content.TopK,
		},
		Trending: engine.TrendingOptions{
			TopK: e.Trending.TopK,
		},
		Diversity: engine.DiversityOptions{
			MaxCategories: e.Diversity.MaxCategories,
			MaxBrands:     e.Diversity.MaxBrands,
			Limit:         e.Diversity.Limit,
		},
	}
}
