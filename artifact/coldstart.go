package artifact

import "math/rand"

// Weights 是冷启动抽样的混合比例：从三份榜单各抽多少条。
// 默认 6/2/2 沿用线上策略；按配置调整，不要臆测其它比例。
type Weights struct {
	AddToCart   int
	Transaction int
	View        int
}

// DefaultWeights 返回默认的 6/2/2 混合比例。
func DefaultWeights() Weights {
	return Weights{AddToCart: 6, Transaction: 2, View: 2}
}

func (w Weights) total() int {
	return w.AddToCart + w.Transaction + w.View
}

// ColdStartPool 持有按行为类型排好序的三份榜单，为没有任何个性化
// 信号的请求提供兜底列表。榜单在产物加载期构建，请求路径只做抽样。
type ColdStartPool struct {
	AddToCart   []string
	Transaction []string
	View        []string
	Weights     Weights
}

// Sample 按权重从各榜单独立有放回抽样，产出固定长度的兜底列表。
// 各榜单独立抽样，结果允许重复；空榜单跳过。
// rng 由调用方注入，测试可用固定种子复现。
func (p *ColdStartPool) Sample(rng *rand.Rand) []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, p.Weights.total())
	out = append(out, draw(rng, p.AddToCart, p.Weights.AddToCart)...)
	out = append(out, draw(rng, p.Transaction, p.Weights.Transaction)...)
	out = append(out, draw(rng, p.View, p.Weights.View)...)
	return out
}

// draw 从 list 中有放回地抽 k 条。
func draw(rng *rand.Rand, list []string, k int) []string {
	if len(list) == 0 || k <= 0 {
		return nil
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = list[rng.Intn(len(list))]
	}
	return out
}
