package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// LinearRanker 是本地线性排序模型：数值特征线性加权，离散特征按
// 取值查权重表（等价于训练侧的 one-hot 编码）。
//
// 打分原理：score = Bias + sum(Weights[f] * Numeric[f])
//                        + sum(CategoricalWeights[f][Categorical[f]])
//
// 输出是排序分，不做概率变换；大小只在同组内有意义。
type LinearRanker struct {
	ModelName   string                        `json:"name"`
	Features    []string                      `json:"feature_names"`
	CatFeatures []string                      `json:"categorical_features"`
	Bias        float64                       `json:"bias"`
	Weights     map[string]float64            `json:"weights"`
	CatWeights  map[string]map[string]float64 `json:"categorical_weights"`
}

// LoadLinearRanker 从 JSON 文件加载模型。文件缺失或格式错误时返回错误，
// 由调用方作为启动期致命错误处理。
func LoadLinearRanker(path string) (*LinearRanker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m LinearRanker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(m.Features) == 0 {
		return nil, fmt.Errorf("model %q declares no features", path)
	}
	return &m, nil
}

func (m *LinearRanker) Name() string {
	if m.ModelName == "" {
		return "linear"
	}
	return m.ModelName
}

func (m *LinearRanker) FeatureNames() []string { return m.Features }

func (m *LinearRanker) CategoricalFeatures() []string { return m.CatFeatures }

// Predict 逐行打分。线性模型行间独立，groupIDs 只为满足分组排序的调用约定。
func (m *LinearRanker) Predict(samples []Sample, groupIDs []string) ([]float64, error) {
	if len(groupIDs) != len(samples) {
		return nil, fmt.Errorf("group ids count mismatch: %d samples, %d groups", len(samples), len(groupIDs))
	}
	scores := make([]float64, len(samples))
	for i, s := range samples {
		score := m.Bias
		for f, v := range s.Numeric {
			if w, ok := m.Weights[f]; ok {
				score += w * v
			}
		}
		for f, val := range s.Categorical {
			if table, ok := m.CatWeights[f]; ok {
				score += table[val]
			}
		}
		scores[i] = score
	}
	return scores, nil
}

var _ Ranker = (*LinearRanker)(nil)
