package core

import "time"

// RecommendConfig 是推荐链路的默认参数接口。
type RecommendConfig interface {
	// DefaultCandidateUsers 协同召回的候选用户抽样上限
	DefaultCandidateUsers() int

	// DefaultTopKNeighbors 协同召回保留的相似邻居数
	DefaultTopKNeighbors() int

	// DefaultTopKItems 每个召回源返回的 TopK 物品数
	DefaultTopKItems() int

	// DefaultResultLimit 多样性重排后保留的最终物品上限
	DefaultResultLimit() int

	// DefaultTimeout 单次请求的默认超时时间
	DefaultTimeout() time.Duration
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultCandidateUsers() int {
	return 100
}

func (c *DefaultRecommendConfig) DefaultTopKNeighbors() int {
	return 10
}

func (c *DefaultRecommendConfig) DefaultTopKItems() int {
	return 20
}

func (c *DefaultRecommendConfig) DefaultResultLimit() int {
	return 20
}

func (c *DefaultRecommendConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}
