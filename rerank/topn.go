package rerank

import (
	"context"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/pipeline"
)

// TopNNode 是 Top-N 截断节点，在排序（或降级的未排序）结果上截取前 N 个。
// 放在 rank.ModelNode 之后，保证两条路径的返回长度都不超过 N。
type TopNNode struct {
	// N 要保留的物品数量。N <= 0 表示不截断。
	N int
}

func (n *TopNNode) Name() string        { return "rerank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
