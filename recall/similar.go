package recall

import (
	"context"
	"sort"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/pkg/utils"
)

// SimilarSource 是基于用户短期会话的相似物品候选源。
//
// 只看最近 LastK 个物品，把 TopN 的相似度预算均摊到每个会话物品上：
// perItem = max(1, TopN / max(1, 考虑的物品数))，每个物品取相似度
// 最高的 perItem 个邻居。均摊避免单个热门物品的邻居淹没整个候选池。
type SimilarSource struct {
	Index SimilarityIndex

	// TopN 是相似候选的总预算，<= 0 时取默认值 10。
	TopN int

	// LastK 是参与取邻居的会话窗口长度，<= 0 时取默认值 5。
	LastK int
}

func (r *SimilarSource) Name() string { return "recall.similar" }

func (r *SimilarSource) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Index == nil || rctx == nil || len(rctx.RecentItems) == 0 {
		return nil, nil
	}

	topN := r.TopN
	if topN <= 0 {
		topN = 10
	}
	lastK := r.LastK
	if lastK <= 0 {
		lastK = 5
	}

	recent := rctx.RecentItems
	if len(recent) > lastK {
		recent = recent[:lastK]
	}

	perItem := topN / len(recent)
	if perItem < 1 {
		perItem = 1
	}

	type scored struct {
		id    string
		score float64
	}
	var out []*core.Item
	for _, anchor := range recent {
		neighbors := r.Index.SimilarItems(anchor)
		if len(neighbors) == 0 {
			continue
		}
		pairs := make([]scored, 0, len(neighbors))
		for id, score := range neighbors {
			pairs = append(pairs, scored{id: id, score: score})
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].score != pairs[j].score {
				return pairs[i].score > pairs[j].score
			}
			return pairs[i].id < pairs[j].id
		})
		if len(pairs) > perItem {
			pairs = pairs[:perItem]
		}
		for _, p := range pairs {
			it := core.NewItem(p.id)
			it.Score = p.score
			it.PutLabel("recall_source", utils.Label{Value: "similar", Source: "recall"})
			out = append(out, it)
		}
	}
	return out, nil
}

var _ Source = (*SimilarSource)(nil)
