package store

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

// 分片数固定为 2 的幂，按用户 ID 哈希取模。
const shardCount = 64

// MemoryEventStore 是内存实现的事件缓存：每个用户一条有界近期日志，
// 最新在前，超出容量淘汰最旧记录。
//
// 并发模型：按用户 ID 分片加锁。不同用户的读写互不阻塞（大概率落在
// 不同分片），同一用户的读写由所在分片的锁串行化，避免丢更新或撕裂读。
type MemoryEventStore struct {
	maxPerUser int
	shards     [shardCount]*eventShard
}

type eventShard struct {
	mu   sync.RWMutex
	logs map[string][]core.EventRecord
}

// NewMemoryEventStore 创建内存事件缓存。maxPerUser <= 0 时取默认值 10。
func NewMemoryEventStore(maxPerUser int) *MemoryEventStore {
	if maxPerUser <= 0 {
		maxPerUser = 10
	}
	s := &MemoryEventStore{maxPerUser: maxPerUser}
	for i := range s.shards {
		s.shards[i] = &eventShard{logs: make(map[string][]core.EventRecord)}
	}
	return s
}

func (s *MemoryEventStore) Name() string { return "memory" }

func (s *MemoryEventStore) shard(userID string) *eventShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return s.shards[h.Sum32()&(shardCount-1)]
}

func (s *MemoryEventStore) Put(_ context.Context, userID, itemID, event string) error {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	log := sh.logs[userID]
	rec := core.EventRecord{ItemID: itemID, Event: event}
	if len(log) < s.maxPerUser {
		log = append(log, core.EventRecord{})
	}
	// 头插：整体后移一位，最旧的一条被挤出
	copy(log[1:], log)
	log[0] = rec
	sh.logs[userID] = log
	return nil
}

func (s *MemoryEventStore) Get(_ context.Context, userID string, k int) ([]string, error) {
	sh := s.shard(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	log := sh.logs[userID]
	if len(log) == 0 || k <= 0 {
		return nil, nil
	}
	if k > len(log) {
		k = len(log)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = log[i].ItemID
	}
	return out, nil
}

func (s *MemoryEventStore) Close() error { return nil }

var _ core.EventStore = (*MemoryEventStore)(nil)
