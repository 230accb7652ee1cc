package service

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Yoshigonnawin/mle-pr-final/artifact"
	"github.com/Yoshigonnawin/mle-pr-final/config"
	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/feast"
	"github.com/Yoshigonnawin/mle-pr-final/feature"
	"github.com/Yoshigonnawin/mle-pr-final/filter"
	"github.com/Yoshigonnawin/mle-pr-final/model"
	"github.com/Yoshigonnawin/mle-pr-final/pipeline"
	"github.com/Yoshigonnawin/mle-pr-final/rank"
	"github.com/Yoshigonnawin/mle-pr-final/recall"
	"github.com/Yoshigonnawin/mle-pr-final/rerank"
	"github.com/Yoshigonnawin/mle-pr-final/store"
)

// Recommendation 是一条带分数的推荐结果。
type Recommendation struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// Recommender 是在线推荐服务的编排层：装配事件缓存、离线产物与
// Pipeline，并按请求在冷启动路径与个性化路径之间分派。
//
// 请求间无状态；事件缓存是唯一的可变共享结构。
type Recommender struct {
	cfg       *config.Config
	logger    *zap.Logger
	events    core.EventStore
	artifacts *artifact.Repository
	pipe      *pipeline.Pipeline
	ready     atomic.Bool

	// 冷启动抽样的随机源。rand.Rand 非并发安全，用互斥锁串行化；
	// 冷启动只在无任何信号时走到，锁上没有可观测的竞争。
	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option 自定义 Recommender 的装配。
type Option func(*Recommender)

// WithLogger 注入日志器，默认 zap.NewNop()。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Recommender) { s.logger = logger }
}

// WithEventStore 注入事件缓存实现，覆盖配置里的后端选择。
func WithEventStore(events core.EventStore) Option {
	return func(s *Recommender) { s.events = events }
}

// WithRand 注入冷启动抽样的随机源（测试用固定种子）。
func WithRand(rng *rand.Rand) Option {
	return func(s *Recommender) { s.rng = rng }
}

// New 装配推荐服务。产物加载失败返回错误，调用方应拒绝启动：
// 半加载状态不允许对外服务。
func New(cfg *config.Config, opts ...Option) (*Recommender, error) {
	s := &Recommender{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// 远程排序模型可选；为空时由产物仓库加载本地模型文件
	var ranker model.Ranker
	if cfg.Ranker.Endpoint != "" {
		timeout := time.Duration(cfg.Ranker.TimeoutMs) * time.Millisecond
		ranker = model.NewRPCRanker("rpc", cfg.Ranker.Endpoint, timeout,
			cfg.Ranker.FeatureNames, cfg.Ranker.CategoricalFeatures)
	}

	repo, err := artifact.Open(artifact.Options{
		ModelPath:          cfg.Artifacts.Model,
		ItemPropsPath:      cfg.Artifacts.ItemProps,
		UserIDMapPath:      cfg.Artifacts.UserIDMap,
		ItemIDMapPath:      cfg.Artifacts.ItemIDMap,
		MFScoresPath:       cfg.Artifacts.MFScores,
		SimilarityPath:     cfg.Artifacts.Similarity,
		TopAddToCartPath:   cfg.Artifacts.TopAddToCart,
		TopTransactionPath: cfg.Artifacts.TopTransaction,
		TopViewPath:        cfg.Artifacts.TopView,
		Ranker:             ranker,
		ColdStartWeights: artifact.Weights{
			AddToCart:   cfg.ColdStart.AddToCart,
			Transaction: cfg.ColdStart.Transaction,
			View:        cfg.ColdStart.View,
		},
	}, s.logger)
	if err != nil {
		return nil, err
	}
	s.artifacts = repo

	if s.events == nil {
		switch cfg.Events.Backend {
		case "redis":
			events, err := store.NewRedisEventStore(
				cfg.Events.Redis.Addr, cfg.Events.Redis.DB,
				cfg.Events.Redis.KeyPrefix, cfg.Events.MaxPerUser)
			if err != nil {
				return nil, err
			}
			s.events = events
		default:
			s.events = store.NewMemoryEventStore(cfg.Events.MaxPerUser)
		}
	}

	// 物品属性来源：本地属性表，或切到 Feast Feature Store
	var props core.PropertyProvider = repo
	if cfg.Feast.Endpoint != "" {
		timeout := time.Duration(cfg.Feast.TimeoutMs) * time.Millisecond
		feastClient, err := feast.NewClient(cfg.Feast.Endpoint, cfg.Feast.Project,
			cfg.Feast.Features, timeout, s.logger)
		if err != nil {
			return nil, err
		}
		props = feastClient
	}

	pipe, err := s.buildPipeline(props)
	if err != nil {
		return nil, err
	}
	s.pipe = pipe
	s.ready.Store(true)

	s.logger.Info("recommender ready",
		zap.String("events_backend", s.events.Name()),
		zap.String("model", repo.Ranker().Name()),
		zap.Int("topn", cfg.TopN))
	return s, nil
}

// buildPipeline 固定装配 召回 → 特征 → 过滤 → 排序 → 截断。
// 过滤规则可以引用物品属性（props.*），所以过滤节点放在特征拼装之后。
func (s *Recommender) buildPipeline(props core.PropertyProvider) (*pipeline.Pipeline, error) {
	nodes := []pipeline.Node{
		&recall.Generator{
			Sources: []recall.Source{
				&recall.MFSource{TopN: s.cfg.Generator.NMF},
				&recall.SimilarSource{
					Index: s.artifacts,
					TopN:  s.cfg.Generator.NSim,
					LastK: s.cfg.Generator.LastK,
				},
			},
		},
		&feature.Assembler{
			Props: props,
			Sim:   s.artifacts,
			LastK: s.cfg.Generator.LastK,
		},
	}

	if len(s.cfg.Filter.Rules) > 0 {
		filters := make([]filter.Filter, 0, len(s.cfg.Filter.Rules))
		for _, rule := range s.cfg.Filter.Rules {
			f, err := filter.NewRuleFilter(rule)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		}
		nodes = append(nodes, &filter.Node{Filters: filters})
	}

	nodes = append(nodes,
		&rank.ModelNode{Model: s.artifacts.Ranker(), Logger: s.logger},
		&rerank.TopNNode{N: s.cfg.TopN},
	)
	return &pipeline.Pipeline{Nodes: nodes}, nil
}

// Ready 在产物加载完成后返回 true，健康检查据此上报就绪。
func (s *Recommender) Ready() bool {
	return s.ready.Load()
}

// RecordEvent 记录一条用户行为事件到近期缓存。
// 缓存是尽力而为的：后端写入失败只记日志，不影响调用方。
func (s *Recommender) RecordEvent(ctx context.Context, userID, itemID, event string) {
	if err := s.events.Put(ctx, userID, itemID, event); err != nil {
		s.logger.Warn("record event failed",
			zap.String("user_id", userID), zap.String("item_id", itemID), zap.Error(err))
	}
}

// RecentEvents 返回该用户最近 k 条事件的物品 ID，最新在前。
func (s *Recommender) RecentEvents(ctx context.Context, userID string, k int) []string {
	items, err := s.events.Get(ctx, userID, k)
	if err != nil {
		s.logger.Warn("get recent events failed",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return items
}

// Recommend 返回该用户的推荐物品 ID 列表。
func (s *Recommender) Recommend(ctx context.Context, userID string, k int) ([]string, error) {
	items, err := s.recommend(ctx, userID, k)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out, nil
}

// RecommendWithScores 返回带预测分数的推荐列表。
// 冷启动与排序降级路径没有可比分数，对应项的 Score 为 0。
func (s *Recommender) RecommendWithScores(ctx context.Context, userID string, k int) ([]Recommendation, error) {
	items, err := s.recommend(ctx, userID, k)
	if err != nil {
		return nil, err
	}
	out := make([]Recommendation, len(items))
	for i, it := range items {
		rec := Recommendation{ItemID: it.ID}
		if it.HasLabel("rank_model") {
			rec.Score = it.Score
		}
		out[i] = rec
	}
	return out, nil
}

// recommend 是两条路径的分派点。返回条数不超过 min(k, 配置的 topn)。
//
// 冷启动：用户既解析不出内部下标、又没有任何近期事件——没有任何
// 个性化信号，返回榜单抽样兜底。注意"已知用户但无信号"不走这里：
// 那种请求进个性化路径，允许产出空结果。
func (s *Recommender) recommend(ctx context.Context, userID string, k int) ([]*core.Item, error) {
	recent := s.RecentEvents(ctx, userID, k)
	userIdx, known := s.artifacts.UserIndex(userID)

	if !known && len(recent) == 0 {
		return truncate(s.coldStart(), k), nil
	}

	mfScores := map[string]float64{}
	if known {
		mfScores = s.artifacts.MFScores(userIdx)
	}
	rctx := &core.RecommendContext{
		UserID:      userID,
		RecentItems: recent,
		MFScores:    mfScores,
	}
	items, err := s.pipe.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	return truncate(items, k), nil
}

func truncate(items []*core.Item, k int) []*core.Item {
	if k > 0 && len(items) > k {
		return items[:k]
	}
	return items
}

func (s *Recommender) coldStart() []*core.Item {
	s.rngMu.Lock()
	ids := s.artifacts.SampleColdStart(s.rng)
	s.rngMu.Unlock()

	items := make([]*core.Item, len(ids))
	for i, id := range ids {
		items[i] = core.NewItem(id)
	}
	return items
}

// Close 释放事件缓存后端等资源。
func (s *Recommender) Close() error {
	return s.events.Close()
}
