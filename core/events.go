package core

import "context"

// EventStore 是用户近期事件缓存的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 有界：每个用户最多保留 maxEventsPerUser 条，超出时淘汰最旧的
//   - 尽力而为：不是持久化存储，进程重启后丢失是可接受的
//
// 实现：
//   - store.MemoryEventStore（分片锁内存实现）
//   - store.RedisEventStore（LPUSH/LTRIM，多副本共享）
type EventStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Put 追加一条 (item, event) 记录到该用户的近期日志头部。
	// 未知用户按需创建；超出容量时丢弃最旧记录。
	Put(ctx context.Context, userID, itemID, event string) error

	// Get 返回该用户最近 k 条记录的物品 ID，最新在前。
	// 未知用户返回空切片，不是错误。
	Get(ctx context.Context, userID string, k int) ([]string, error)

	// Close 关闭连接/释放资源
	Close() error
}

// EventRecord 是一条用户行为记录：物品 + 行为类型。
// 行为类型对缓存是不透明字符串（view / addtocart / transaction / ...）。
type EventRecord struct {
	ItemID string `json:"item_id"`
	Event  string `json:"event"`
}
