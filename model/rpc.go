package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RPCRanker 是通过 HTTP 调用外部排序模型服务的 Ranker 实现。
// 用于把 CatBoost/XGBoost 等训练产物放在独立模型服务里打分的部署形态。
type RPCRanker struct {
	name        string
	Endpoint    string // 例如 "http://localhost:8080/predict"
	Timeout     time.Duration
	Client      *http.Client
	Features    []string
	CatFeatures []string
}

// NewRPCRanker 创建远程排序模型客户端。
// 特征列与离散特征列由模型服务侧声明，经配置传入。
func NewRPCRanker(name, endpoint string, timeout time.Duration, features, catFeatures []string) *RPCRanker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCRanker{
		name:        name,
		Endpoint:    endpoint,
		Timeout:     timeout,
		Client:      &http.Client{Timeout: timeout},
		Features:    features,
		CatFeatures: catFeatures,
	}
}

func (m *RPCRanker) Name() string {
	if m.name == "" {
		return "rpc"
	}
	return m.name
}

func (m *RPCRanker) FeatureNames() []string { return m.Features }

func (m *RPCRanker) CategoricalFeatures() []string { return m.CatFeatures }

type rpcRow struct {
	Numeric     map[string]float64 `json:"numeric"`
	Categorical map[string]string  `json:"categorical"`
}

// Predict 调用远程模型服务进行批量分组打分。
// 请求格式（JSON）：
//
//	{"rows": [{"numeric": {...}, "categorical": {...}}, ...],
//	 "group_ids": ["42_default_session", ...],
//	 "categorical_features": ["available", ...]}
//
// 响应格式（JSON）：
//
//	{"scores": [0.85, 0.72, ...]}
func (m *RPCRanker) Predict(samples []Sample, groupIDs []string) ([]float64, error) {
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}
	if len(samples) == 0 {
		return []float64{}, nil
	}
	if len(groupIDs) != len(samples) {
		return nil, fmt.Errorf("group ids count mismatch: %d samples, %d groups", len(samples), len(groupIDs))
	}

	rows := make([]rpcRow, len(samples))
	for i, s := range samples {
		rows[i] = rpcRow{Numeric: s.Numeric, Categorical: s.Categorical}
	}
	reqBody := map[string]any{
		"rows":                 rows,
		"group_ids":            groupIDs,
		"categorical_features": m.CatFeatures,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", m.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Scores) != len(samples) {
		return nil, fmt.Errorf("response scores count mismatch: expected %d, got %d", len(samples), len(result.Scores))
	}
	return result.Scores, nil
}

var _ Ranker = (*RPCRanker)(nil)
