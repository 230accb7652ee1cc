package recall

import (
	"context"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

// Source 表示一个可复用的候选源（矩阵分解/相似物品/...）。
// Generator 按声明顺序依次执行各 Source 并合并结果。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// SimilarityIndex 是物品相似度索引的查表接口。
// 返回 neighborID -> 相似度；未知物品返回空 map。
type SimilarityIndex interface {
	SimilarItems(itemID string) map[string]float64
}
