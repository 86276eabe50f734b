// Package shoprec 是一个电商商品推荐引擎（Shop Recommender）。
//
// 设计要点：
// - 多路召回: 协同过滤 / 内容 / 热门并发执行，互相隔离降级
// - 混合融合: 位置分 × 源权重 + 行为调权，全序稳定排序
// - Pipeline-first: 过滤与重排通过 Node 串联，可配置驱动
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
