package core

// DefaultSessionID 是未提供会话标识时使用的哨兵值。
// group_id 依赖它保证每个请求都能构成一个完整的排序分组。
const DefaultSessionID = "default_session"

// RecommendContext 承载一次推荐请求的用户/会话/实时信息，贯穿整个 Pipeline 透传。
//
// RecentItems 与 MFScores 由编排层在进入 Pipeline 之前填充：
//   - RecentItems 来自事件缓存（最新在前，长度已被上游截断）
//   - MFScores 来自离线矩阵分解产物（未知用户为空 map，属于正常情况）
type RecommendContext struct {
	UserID    string
	SessionID string
	Scene     string

	// RecentItems 是用户最近交互过的物品 ID，最新在前。
	RecentItems []string

	// MFScores 是 itemID -> 矩阵分解分数 的查表结果，可能为空。
	MFScores map[string]float64

	// Params 请求级上下文参数（设备、位置、实验分桶等）。
	Params map[string]any
}

// GroupID 返回本次请求的排序分组标识：userID + "_" + sessionID。
// 排序模型按分组打分，分数只在同组内可比。
func (rctx *RecommendContext) GroupID() string {
	sid := rctx.SessionID
	if sid == "" {
		sid = DefaultSessionID
	}
	return rctx.UserID + "_" + sid
}
