package core

import (
	"context"
	"math/rand"
)

// Artifacts 是离线产物仓库的领域接口：排序模型之外的所有只读查表能力。
//
// 设计原则：
//   - 进程启动时一次性加载，之后只读，天然并发安全
//   - 加载失败是致命的（不允许半加载状态对外服务）
//   - 加载完成后访问器永不失败：缺失用空结果表达
//
// 实现：artifact.Repository。
type Artifacts interface {
	// UserIndex 反查用户的内部稠密下标；未知用户返回 (0, false)。
	UserIndex(userID string) (int, bool)

	// MFScores 返回该内部下标用户的 itemID -> 矩阵分解分数；缺失为空 map。
	MFScores(userIdx int) map[string]float64

	// SimilarItems 返回与该物品相似的 neighborID -> 相似度；缺失为空 map。
	SimilarItems(itemID string) map[string]float64

	// SampleColdStart 按配置的权重从三份榜单中抽取冷启动兜底列表。
	// 各榜单独立有放回抽样，结果允许重复；rng 由请求侧注入以便测试复现。
	SampleColdStart(rng *rand.Rand) []string
}

// PropertyProvider 提供物品属性包：字段全部可选，缺失/类型不符由
// 调用方按特征类型回退到哨兵默认值。
//
// 实现：
//   - artifact.Repository（本地属性表）
//   - feast.Client（远程 Feature Store）
type PropertyProvider interface {
	// ItemProperties 返回该物品的属性 map；未知物品返回空 map，永不失败。
	ItemProperties(ctx context.Context, itemID string) map[string]any
}
