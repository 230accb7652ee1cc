package model

// Sample 是排序模型的一行输入：数值特征 + 离散特征（字符串类别）。
type Sample struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Ranker 是排序阶段的最小抽象：输入一组带分组标识的样本，输出逐行分数。
// 具体实现可以是本地模型（LinearRanker）或远程 RPC（RPCRanker）。
//
// 模型是 listwise/pairwise 学习到的排序器，分数只在同一 groupID 内可比；
// 一个 group 对应一个用户一次请求的候选集。
type Ranker interface {
	Name() string

	// FeatureNames 返回模型声明的特征列，特征拼装与列裁剪据此进行。
	FeatureNames() []string

	// CategoricalFeatures 返回声明特征中按离散类别消费的子集。
	CategoricalFeatures() []string

	// Predict 对样本打分，返回与 samples 等长的分数切片。
	// groupIDs 与 samples 一一对应。
	Predict(samples []Sample, groupIDs []string) ([]float64, error)
}
