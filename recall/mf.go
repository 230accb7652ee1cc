package recall

import (
	"context"
	"sort"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/pkg/utils"
)

// MFSource 是基于矩阵分解（ALS 等）离线分数的个性化候选源。
//
// 分数在离线阶段已按 (user, item) 算好，在线只做查表 + TopN：
// 从 rctx.MFScores 中取分数最高的 TopN 个物品，按分数降序输出。
// 分数相同的按物品 ID 升序，保证结果确定可复现。
//
// 工程特征：
//   - 实时性：好（离线训练，在线查表）
//   - 冷启动：弱（依赖用户出现在训练集里）
type MFSource struct {
	// TopN 返回分数最高的 TopN 个物品，<= 0 时取默认值 20。
	TopN int
}

func (r *MFSource) Name() string { return "recall.mf" }

func (r *MFSource) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || len(rctx.MFScores) == 0 {
		return nil, nil
	}

	topN := r.TopN
	if topN <= 0 {
		topN = 20
	}

	type scored struct {
		id    string
		score float64
	}
	pairs := make([]scored, 0, len(rctx.MFScores))
	for id, score := range rctx.MFScores {
		pairs = append(pairs, scored{id: id, score: score})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].id < pairs[j].id
	})
	if len(pairs) > topN {
		pairs = pairs[:topN]
	}

	out := make([]*core.Item, 0, len(pairs))
	for _, p := range pairs {
		it := core.NewItem(p.id)
		it.Score = p.score
		it.PutLabel("recall_source", utils.Label{Value: "mf", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*MFSource)(nil)
