package feature

import (
	"context"
	"strconv"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/pipeline"
	"github.com/Yoshigonnawin/mle-pr-final/pkg/conv"
	"github.com/Yoshigonnawin/mle-pr-final/recall"
)

// 离线属性表里的离散物品属性。训练侧把它们当字符串类别编码，
// 在线侧先折算成整数（缺失/不可解析为 -1），再渲染成字符串。
var CategoricalItemFeatures = []string{
	"available",
	"categoryid",
	"root_category",
	"level_0",
	"level_1",
	"level_2",
	"level_3",
	"level_4",
	"level_5",
}

// 离线属性表里的数值物品聚合，缺失/不可解析为 0.0。
var NumericItemFeatures = []string{
	"value_count",
	"value_mean",
	"value_std",
	"value_min",
	"value_max",
}

// Assembler 是特征拼装 Node：把候选集 join 物品属性表与会话统计，
// 为每个候选物品填充排序模型需要的特征。
//
// 行数恒等于候选数；会话统计每个请求算一次，对所有候选行相同。
// 候选为空时原样透传，空结果对下游是合法输入。
type Assembler struct {
	Props core.PropertyProvider
	Sim   recall.SimilarityIndex

	// LastK 是 sim_max 扫描的会话窗口长度，与相似候选源保持一致。
	LastK int
}

func (n *Assembler) Name() string        { return "feature.assemble" }
func (n *Assembler) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *Assembler) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || rctx == nil {
		return items, nil
	}

	lastK := n.LastK
	if lastK <= 0 {
		lastK = 5
	}
	recent := rctx.RecentItems
	if len(recent) > lastK {
		recent = recent[:lastK]
	}

	// 会话统计：本版本特征集不含行为类型与时间信息，
	// 加购/成交计数与时长固定为 0。
	sessView := float64(len(rctx.RecentItems))
	distinct := make(map[string]struct{}, len(rctx.RecentItems))
	for _, id := range rctx.RecentItems {
		distinct[id] = struct{}{}
	}
	sessItems := float64(len(distinct))

	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Features == nil {
			it.Features = make(map[string]float64)
		}
		if it.Categorical == nil {
			it.Categorical = make(map[string]string)
		}

		it.Features["als_score"] = rctx.MFScores[it.ID]
		it.Features["sim_max"] = n.simMax(it.ID, recent)
		it.Features["item_pop_w"] = 0.0
		it.Features["sess_n_events"] = sessView
		it.Features["sess_n_items"] = sessItems
		it.Features["sess_duration"] = 0.0
		it.Features["sess_cnt_view"] = sessView
		it.Features["sess_cnt_addtocart"] = 0.0
		it.Features["sess_cnt_transaction"] = 0.0

		props := n.itemProps(ctx, it.ID)
		for _, f := range CategoricalItemFeatures {
			it.Categorical[f] = strconv.Itoa(conv.IntOr(props, f, -1))
		}
		for _, f := range NumericItemFeatures {
			it.Features[f] = conv.FloatOr(props, f, 0.0)
		}
	}
	return items, nil
}

func (n *Assembler) itemProps(ctx context.Context, itemID string) map[string]any {
	if n.Props == nil {
		return nil
	}
	return n.Props.ItemProperties(ctx, itemID)
}

// simMax 返回候选与会话窗口内任一近期物品的最大相似度，无匹配为 0。
func (n *Assembler) simMax(itemID string, recent []string) float64 {
	if n.Sim == nil {
		return 0.0
	}
	best := 0.0
	for _, anchor := range recent {
		if score, ok := n.Sim.SimilarItems(anchor)[itemID]; ok && score > best {
			best = score
		}
	}
	return best
}

var _ pipeline.Node = (*Assembler)(nil)
