package artifact

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/model"
)

// Options 描述各离线产物文件的位置与冷启动混合比例。
// 文件格式由离线训练侧固定，对在线核心不透明。
type Options struct {
	ModelPath          string // 排序模型 JSON
	ItemPropsPath      string // 物品属性表 JSON：itemID -> 属性包
	UserIDMapPath      string // 用户映射 JSON：内部下标 -> 外部 ID
	ItemIDMapPath      string // 物品映射 JSON：内部下标 -> 外部 ID
	MFScoresPath       string // 矩阵分解分数 CSV：visitoridx,itemidx,rating
	SimilarityPath     string // 相似度索引 CSV：items_idx,sim_item_id_idx,score
	TopAddToCartPath   string // 加购榜单 CSV
	TopTransactionPath string // 成交榜单 CSV
	TopViewPath        string // 浏览榜单 CSV

	// Ranker 可选注入（例如远程模型）；为空时从 ModelPath 加载本地模型。
	Ranker model.Ranker

	// ColdStartWeights 为零值时取默认 6/2/2。
	ColdStartWeights Weights
}

// Repository 持有全部离线产物：启动期一次加载，之后只读。
// 任一产物加载失败都是致命错误，不允许半加载状态对外服务。
// 加载完成后所有访问器永不失败，缺失用空结果表达。
type Repository struct {
	logger *zap.Logger

	ranker    model.Ranker
	props     map[string]map[string]any
	userIndex map[string]int            // 外部用户 ID -> 内部下标
	itemByIdx map[int]string            // 内部下标 -> 外部物品 ID
	mfScores  map[int]map[string]float64
	simIndex  map[string]map[string]float64
	coldStart *ColdStartPool
}

// Open 加载全部产物。映射表先行（分数与相似度按它们做 join），
// 其余文件并发加载，首个错误立即中止启动。
func Open(opts Options, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repository{
		logger:    logger,
		props:     make(map[string]map[string]any),
		userIndex: make(map[string]int),
		itemByIdx: make(map[int]string),
		mfScores:  make(map[int]map[string]float64),
		simIndex:  make(map[string]map[string]float64),
	}

	g := new(errgroup.Group)
	g.Go(func() error { return r.loadUserMap(opts.UserIDMapPath) })
	g.Go(func() error { return r.loadItemMap(opts.ItemIDMapPath) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load id maps: %w", err)
	}

	weights := opts.ColdStartWeights
	if weights.total() == 0 {
		weights = DefaultWeights()
	}
	pool := &ColdStartPool{Weights: weights}

	g = new(errgroup.Group)
	if opts.Ranker != nil {
		r.ranker = opts.Ranker
	} else {
		g.Go(func() error {
			m, err := model.LoadLinearRanker(opts.ModelPath)
			if err != nil {
				return err
			}
			r.ranker = m
			return nil
		})
	}
	g.Go(func() error { return r.loadProps(opts.ItemPropsPath) })
	g.Go(func() error { return r.loadMFScores(opts.MFScoresPath) })
	g.Go(func() error { return r.loadSimilarity(opts.SimilarityPath) })
	g.Go(func() error {
		var err error
		pool.AddToCart, err = loadTopList(opts.TopAddToCartPath)
		return err
	})
	g.Go(func() error {
		var err error
		pool.Transaction, err = loadTopList(opts.TopTransactionPath)
		return err
	})
	g.Go(func() error {
		var err error
		pool.View, err = loadTopList(opts.TopViewPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, core.NewDomainError(core.ModuleArtifact, core.ErrorCodeLoadFailed, err.Error())
	}
	r.coldStart = pool

	logger.Info("artifacts loaded",
		zap.String("model", r.ranker.Name()),
		zap.Int("model_features", len(r.ranker.FeatureNames())),
		zap.Int("items_with_props", len(r.props)),
		zap.Int("users", len(r.userIndex)),
		zap.Int("users_with_mf_scores", len(r.mfScores)),
		zap.Int("items_with_neighbors", len(r.simIndex)))
	return r, nil
}

// Ranker 返回加载好的排序模型。
func (r *Repository) Ranker() model.Ranker { return r.ranker }

// UserIndex 反查用户的内部稠密下标；未知用户返回 (0, false)。
func (r *Repository) UserIndex(userID string) (int, bool) {
	idx, ok := r.userIndex[normalizeID(userID)]
	return idx, ok
}

// MFScores 返回该用户的 itemID -> 矩阵分解分数；缺失为空 map。
func (r *Repository) MFScores(userIdx int) map[string]float64 {
	if scores, ok := r.mfScores[userIdx]; ok {
		return scores
	}
	return map[string]float64{}
}

// ItemProperties 返回物品属性包；未知物品返回空 map。
// 调用方把所有字段视为可选。
func (r *Repository) ItemProperties(_ context.Context, itemID string) map[string]any {
	if props, ok := r.props[normalizeID(itemID)]; ok {
		return props
	}
	return map[string]any{}
}

// SimilarItems 返回 neighborID -> 相似度；缺失为空 map。
func (r *Repository) SimilarItems(itemID string) map[string]float64 {
	if neighbors, ok := r.simIndex[normalizeID(itemID)]; ok {
		return neighbors
	}
	return map[string]float64{}
}

// SampleColdStart 按配置权重抽取冷启动兜底列表。
func (r *Repository) SampleColdStart(rng *rand.Rand) []string {
	return r.coldStart.Sample(rng)
}

var (
	_ core.Artifacts        = (*Repository)(nil)
	_ core.PropertyProvider = (*Repository)(nil)
)

func (r *Repository) loadProps(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read item props: %w", err)
	}
	raw := make(map[string]map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse item props: %w", err)
	}
	for id, props := range raw {
		r.props[normalizeID(id)] = props
	}
	return nil
}

// loadUserMap 读取 内部下标 -> 外部用户 ID 的映射并反转，
// 得到请求路径需要的 外部 ID -> 下标 查表。
func (r *Repository) loadUserMap(path string) error {
	m, err := loadIDMap(path)
	if err != nil {
		return fmt.Errorf("user id map: %w", err)
	}
	for idx, external := range m {
		r.userIndex[external] = idx
	}
	return nil
}

func (r *Repository) loadItemMap(path string) error {
	m, err := loadIDMap(path)
	if err != nil {
		return fmt.Errorf("item id map: %w", err)
	}
	r.itemByIdx = m
	return nil
}

// loadMFScores 读取矩阵分解分数表并按物品映射 join 成外部 ID。
// 映射不到外部 ID 的行丢弃（训练集外的物品不参与在线服务）。
func (r *Repository) loadMFScores(path string) error {
	return readCSV(path, []string{"visitoridx", "itemidx", "rating"}, func(rec []string) error {
		userIdx, err := parseLooseInt(rec[0])
		if err != nil {
			return fmt.Errorf("bad visitoridx %q: %w", rec[0], err)
		}
		itemIdx, err := parseLooseInt(rec[1])
		if err != nil {
			return fmt.Errorf("bad itemidx %q: %w", rec[1], err)
		}
		score, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("bad rating %q: %w", rec[2], err)
		}
		itemID, ok := r.itemByIdx[itemIdx]
		if !ok {
			return nil
		}
		if r.mfScores[userIdx] == nil {
			r.mfScores[userIdx] = make(map[string]float64)
		}
		r.mfScores[userIdx][itemID] = score
		return nil
	})
}

// loadSimilarity 读取相似度表，join 成外部 ID 并剔除自相似对。
func (r *Repository) loadSimilarity(path string) error {
	return readCSV(path, []string{"items_idx", "sim_item_id_idx", "score"}, func(rec []string) error {
		itemIdx, err := parseLooseInt(rec[0])
		if err != nil {
			return fmt.Errorf("bad items_idx %q: %w", rec[0], err)
		}
		simIdx, err := parseLooseInt(rec[1])
		if err != nil {
			return fmt.Errorf("bad sim_item_id_idx %q: %w", rec[1], err)
		}
		score, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("bad score %q: %w", rec[2], err)
		}
		itemID, ok1 := r.itemByIdx[itemIdx]
		simID, ok2 := r.itemByIdx[simIdx]
		if !ok1 || !ok2 || itemID == simID {
			return nil
		}
		if r.simIndex[itemID] == nil {
			r.simIndex[itemID] = make(map[string]float64)
		}
		r.simIndex[itemID][simID] = score
		return nil
	})
}

// loadIDMap 读取 JSON 映射表。键值可能带浮点格式（"12.0"），宽松解析。
func loadIDMap(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		idx, err := parseLooseInt(k)
		if err != nil {
			return nil, fmt.Errorf("bad index %q: %w", k, err)
		}
		out[idx] = normalizeAnyID(v)
	}
	return out, nil
}

// loadTopList 读取单列榜单 CSV，保持榜单顺序；可带 itemid 表头。
func loadTopList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	var out []string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(rec) == 0 || rec[0] == "itemid" {
			continue
		}
		out = append(out, normalizeID(rec[0]))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty top list", path)
	}
	return out, nil
}

// readCSV 按表头定位各列后逐行回调。表头缺列视为 schema 不匹配。
func readCSV(path string, columns []string, fn func(rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%s: read header: %w", path, err)
	}
	pos := make([]int, len(columns))
	for i, want := range columns {
		pos[i] = -1
		for j, got := range header {
			if got == want {
				pos[i] = j
				break
			}
		}
		if pos[i] == -1 {
			return fmt.Errorf("%s: missing column %q", path, want)
		}
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		row := make([]string, len(columns))
		for i, j := range pos {
			row[i] = rec[j]
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
}

// parseLooseInt 解析可能带浮点格式的整数（"12" 或 "12.0"）。
func parseLooseInt(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// normalizeID 把可能浮点格式的外部 ID 归一成整数字符串；
// 非数字 ID 原样返回。
func normalizeID(s string) string {
	if n, err := parseLooseInt(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}

func normalizeAnyID(v any) string {
	switch val := v.(type) {
	case string:
		return normalizeID(val)
	case float64:
		return strconv.Itoa(int(val))
	default:
		return normalizeID(fmt.Sprintf("%v", val))
	}
}
