package recall

import (
	"context"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/pipeline"
)

// Generator 是候选生成 Node：按声明顺序串行执行多个候选源，
// 合并结果并做首见去重。
//
// 串行而不是并发 fan-out：候选顺序是下游契约的一部分（矩阵分解候选
// 必须排在相似候选之前，两边都命中时以先出现的为准），且各源都是
// 纯内存查表，没有并发收益。整体是输入的纯函数。
type Generator struct {
	Sources []Source
}

func (n *Generator) Name() string        { return "recall.generator" }
func (n *Generator) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Generator) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var all []*core.Item
	for _, src := range n.Sources {
		items, err := src.Recall(ctx, rctx)
		if err != nil {
			// 单个源失败不中断其余源
			continue
		}
		all = append(all, items...)
	}

	// 首见去重：后出现的同 ID 物品只把 labels 合并进首个
	seen := make(map[string]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if first, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				first.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*Generator)(nil)
