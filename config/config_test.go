package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/shoprec/config"
	_ "github.com/rushteam/shoprec/config/builders"
	"github.com/rushteam/shoprec/pipeline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadEngineConfig(t *testing.T) {
	path := writeFile(t, "engine.yaml", `
engine:
  timeout: 1
  default_count: 5
  rules:
    - item.category == "restricted"
  collaborative:
    threshold: 0.35
    neighbors: 8
  diversity:
    max_categories: 2
    max_brands: 4
`)
	cfg, err := config.LoadEngineConfig(path)
	if err != nil {
		t.Fatalf("LoadEngineConfig: %v", err)
	}
	if cfg.Engine.Timeout != 1 {
		t.Fatalf("timeout = %v, want 1", cfg.Engine.Timeout)
	}
	if cfg.Engine.DefaultCount != 5 {
		t.Fatalf("default_count = %d, want 5", cfg.Engine.DefaultCount)
	}
	if len(cfg.Engine.Rules) != 1 {
		t.Fatalf("rules = %v, want one rule", cfg.Engine.Rules)
	}
	if cfg.Engine.Collaborative.Threshold != 0.35 || cfg.Engine.Collaborative.Neighbors != 8 {
		t.Fatalf("collaborative = %+v", cfg.Engine.Collaborative)
	}
	if cfg.Engine.Diversity.MaxCategories != 2 || cfg.Engine.Diversity.MaxBrands != 4 {
		t.Fatalf("diversity = %+v", cfg.Engine.Diversity)
	}

	opts := cfg.Options(nil, nil, nil, nil)
	if opts.Timeout != time.Second || opts.Collaborative.Neighbors != 8 {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestBuildPipelineFromYAML(t *testing.T) {
	path := writeFile(t, "pipeline.yaml", `
pipeline:
  name: postprocess
  nodes:
    - type: filter
      config:
        filters:
          - type: availability
          - type: purchased
    - type: rerank.diversity
      config:
        max_categories: 2
    - type: rerank.topn
      config:
        n: 5
`)
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig: %v", err)
	}
	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(p.Nodes))
	}
	if p.Nodes[0].Kind() != pipeline.KindFilter || p.Nodes[1].Kind() != pipeline.KindReRank {
		t.Fatalf("kinds = %v %v", p.Nodes[0].Kind(), p.Nodes[1].Kind())
	}
}

func TestValidatePipelineConfigRejectsUnknownType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.quantum"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Fatal("want error for unregistered node type")
	}
}
