package rank

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/feature"
	"github.com/Yoshigonnawin/mle-pr-final/model"
	"github.com/Yoshigonnawin/mle-pr-final/pipeline"
	"github.com/Yoshigonnawin/mle-pr-final/pkg/utils"
)

// ModelNode 是分组排序 Node：把候选集拼成特征表，裁剪到模型声明的
// 特征列，调用排序模型并按分数降序稳定排序。
//
// 排序是锦上添花，不是可用性的硬依赖：模型声明的特征一列都不存在，
// 或打分失败时，降级为按输入顺序原样返回（记日志，不向上传播错误）。
// 降级结果不带 rank_model 标签，调用方据此区分已排序/未排序。
type ModelNode struct {
	Model  model.Ranker
	Logger *zap.Logger
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}

	frame := feature.BuildFrame(items, rctx.GroupID())
	if frame.Empty() {
		return items, nil
	}

	used := make([]string, 0, len(n.Model.FeatureNames()))
	for _, f := range n.Model.FeatureNames() {
		if frame.HasColumn(f) {
			used = append(used, f)
		}
	}
	if len(used) == 0 {
		n.logger().Warn("no declared model feature present, returning unranked candidates",
			zap.String("model", n.Model.Name()),
			zap.Int("candidates", len(items)))
		return items, nil
	}

	scores, err := n.Model.Predict(frame.Restrict(used), frame.GroupIDs)
	if err != nil || len(scores) != len(items) {
		n.logger().Warn("ranking failed, returning unranked candidates",
			zap.String("model", n.Model.Name()),
			zap.Int("candidates", len(items)),
			zap.Error(err))
		return items, nil
	}

	for i, it := range items {
		it.Score = scores[i]
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}

func (n *ModelNode) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}

var _ pipeline.Node = (*ModelNode)(nil)
