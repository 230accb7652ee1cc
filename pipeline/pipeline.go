package pipeline

import (
	"context"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

// Pipeline 是服务的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 个性化路径固定为 召回 → 过滤 → 特征 → 排序 → 截断，但每一环都是可替换的 Node。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
