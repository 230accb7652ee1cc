package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

// RedisEventStore 是 Redis 实现的事件缓存，多副本部署时共享用户近期日志。
// 每个用户一个 list：LPUSH 头插 + LTRIM 截断到容量上限。
type RedisEventStore struct {
	client     *redis.Client
	keyPrefix  string
	maxPerUser int
}

// NewRedisEventStore 创建 Redis 事件缓存并探活。
func NewRedisEventStore(addr string, db int, keyPrefix string, maxPerUser int) (*RedisEventStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	if keyPrefix == "" {
		keyPrefix = "events"
	}
	if maxPerUser <= 0 {
		maxPerUser = 10
	}
	return &RedisEventStore{client: client, keyPrefix: keyPrefix, maxPerUser: maxPerUser}, nil
}

func (s *RedisEventStore) Name() string { return "redis" }

func (s *RedisEventStore) key(userID string) string {
	return s.keyPrefix + ":" + userID
}

func (s *RedisEventStore) Put(ctx context.Context, userID, itemID, event string) error {
	payload, err := json.Marshal(core.EventRecord{ItemID: itemID, Event: event})
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key(userID), payload)
	pipe.LTrim(ctx, s.key(userID), 0, int64(s.maxPerUser)-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisEventStore) Get(ctx context.Context, userID string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}
	vals, err := s.client.LRange(ctx, s.key(userID), 0, int64(k)-1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		var rec core.EventRecord
		if json.Unmarshal([]byte(v), &rec) != nil {
			continue
		}
		out = append(out, rec.ItemID)
	}
	return out, nil
}

func (s *RedisEventStore) Close() error {
	return s.client.Close()
}

var _ core.EventStore = (*RedisEventStore)(nil)
