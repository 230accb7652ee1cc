package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.EventStore 接口。
//
// 示例：
//   var events core.EventStore = NewMemoryEventStore(10)
//   events, err := NewRedisEventStore(addr, db, "events", 10)
