package core

import "github.com/Yoshigonnawin/mle-pr-final/pkg/utils"

// Item 是推荐链路中的统一承载结构：特征、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
//
// Features 存放数值特征（als_score、sim_max、会话统计等），
// Categorical 存放离散特征的字符串取值（排序模型按训练时的编码
// 以字符串类别消费这类特征，而不是原始整数）。
type Item struct {
	ID          string
	Score       float64
	Features    map[string]float64
	Categorical map[string]string
	Labels      map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:          id,
		Features:    make(map[string]float64),
		Categorical: make(map[string]string),
		Labels:      make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// HasLabel 判断是否带有指定 key 的 Label。
func (it *Item) HasLabel(key string) bool {
	_, ok := it.Labels[key]
	return ok
}
