package core

import "context"

// BehaviorStore 是用户交互聚合的读写接口（外部协作方，接口在领域层定义）。
//
// 实现：
//   - store.BehaviorStore（基于 KeyValueStore，JSON 编码）
//   - 其他后端（文档库、宽表等）可自行实现
type BehaviorStore interface {
	// Get 读取用户聚合；不存在时返回 NOT_FOUND
	Get(ctx context.Context, userID string) (*UserBehavior, error)

	// Put 写入用户聚合
	Put(ctx context.Context, behavior *UserBehavior) error

	// Sample 返回一批其他用户的聚合（协同过滤候选，上限 limit）。
	// 全量扫描不是本引擎的职责：抽样/索引由实现方决定。
	Sample(ctx context.Context, excludeUserID string, limit int) ([]*UserBehavior, error)
}

// FeatureStore 是目录特征的只读接口。
//
// 实现：
//   - store.FeatureStore（基于 KeyValueStore + 类目/热门索引）
//   - feast.FeatureStore（Feast 在线特征 + 伴随索引）
type FeatureStore interface {
	// Get 读取单个物品特征；缺失时返回 NOT_FOUND
	Get(ctx context.Context, itemID string) (*ItemFeatures, error)

	// QueryByCategory 返回同类目物品（内容召回的候选来源）
	QueryByCategory(ctx context.Context, category string, limit int) ([]*ItemFeatures, error)

	// QueryActive 返回在售物品，按浏览量降序、评分降序（热门召回）
	QueryActive(ctx context.Context, limit int) ([]*ItemFeatures, error)
}

// ImpressionSink 是曝光流水的写入口，尽力而为、异步语义：
// 记录失败不允许影响推荐请求本身。
type ImpressionSink interface {
	Record(ctx context.Context, userID string, itemIDs []string, scene string) error
}
