// Package feast 提供基于 Feast Feature Store 的物品属性来源，
// 作为本地属性表（artifact.Repository）的可替换后端。
package feast

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"go.uber.org/zap"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

// 物品实体在 Feast 侧的实体键。
const itemEntityKey = "itemid"

// Client 是官方 Feast Go SDK 的 gRPC 客户端封装，实现 core.PropertyProvider。
//
// 属性访问遵循"永不失败"的契约：远程调用出错或超时只记日志并返回空
// 属性包，由特征拼装侧回退到哨兵默认值——属性缺失对排序是常态而不是故障。
type Client struct {
	client   *feastsdk.GrpcClient
	project  string
	features []string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewClient 创建 Feast gRPC 客户端。
//
// endpoint 形如 "localhost:6565"；features 是要拉取的物品特征全名列表，
// 例如 ["item_stats:available", "item_stats:categoryid"]。
func NewClient(endpoint, project string, features []string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sdkClient, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}
	return &Client{
		client:   sdkClient,
		project:  project,
		features: features,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// ItemProperties 拉取该物品的在线特征作为属性包。
// 任何错误都折算为空属性包，调用方按特征类型回退到哨兵默认值。
func (c *Client) ItemProperties(ctx context.Context, itemID string) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &feastsdk.OnlineFeaturesRequest{
		Features: c.features,
		Entities: []feastsdk.Row{{itemEntityKey: feastsdk.StrVal(itemID)}},
		Project:  c.project,
	}
	resp, err := c.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		c.logger.Warn("feast online features failed",
			zap.String("item_id", itemID), zap.Error(err))
		return map[string]any{}
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return map[string]any{}
	}
	row := rows[0]

	props := make(map[string]any, len(c.features))
	for _, full := range c.features {
		// 属性键去掉 feature view 前缀，与本地属性表的列名保持一致
		name := full
		if i := strings.LastIndex(full, ":"); i >= 0 {
			name = full[i+1:]
		}
		if val, ok := row[full]; ok {
			if converted := convertValue(val); converted != nil {
				props[name] = converted
			}
			continue
		}
		if val, ok := row[name]; ok {
			if converted := convertValue(val); converted != nil {
				props[name] = converted
			}
		}
	}
	return props
}

// Close 释放客户端。官方 SDK 的连接由 gRPC 库托管。
func (c *Client) Close() error {
	c.client = nil
	return nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")
	host, portStr, ok := strings.Cut(endpoint, ":")
	if !ok || host == "" {
		return "", 0, fmt.Errorf("feast endpoint %q: want host:port", endpoint)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("feast endpoint %q: bad port: %w", endpoint, err)
	}
	return host, port, nil
}

// convertValue 把 SDK 返回的特征值折算为属性包里的 any。
// SDK 的值类型是 protobuf 包装，统一走字符串化再尝试按数字解析。
func convertValue(val any) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case string:
		return v
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	case []byte:
		return string(v)
	default:
		strVal := fmt.Sprintf("%v", val)
		if f, err := strconv.ParseFloat(strVal, 64); err == nil {
			return f
		}
		return strVal
	}
}

var _ core.PropertyProvider = (*Client)(nil)
