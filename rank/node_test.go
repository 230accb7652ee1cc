package rank

import (
	"context"
	"errors"
	"testing"

	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/model"
)

type stubRanker struct {
	features []string
	scores   []float64
	err      error
	gotGIDs  []string
}

func (s *stubRanker) Name() string                  { return "stub" }
func (s *stubRanker) FeatureNames() []string        { return s.features }
func (s *stubRanker) CategoricalFeatures() []string { return nil }

func (s *stubRanker) Predict(samples []model.Sample, groupIDs []string) ([]float64, error) {
	s.gotGIDs = groupIDs
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func newItems(ids ...string) []*core.Item {
	items := make([]*core.Item, len(ids))
	for i, id := range ids {
		it := core.NewItem(id)
		it.Features["als_score"] = float64(i)
		items[i] = it
	}
	return items
}

func TestModelNode_RanksDescending(t *testing.T) {
	ranker := &stubRanker{
		features: []string{"als_score"},
		scores:   []float64{0.1, 0.9, 0.5},
	}
	node := &ModelNode{Model: ranker}
	rctx := &core.RecommendContext{UserID: "u1"}

	got, err := node.Process(context.Background(), rctx, newItems("a", "b", "c"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	want := []string{"b", "c", "a"}
	for i, it := range got {
		if it.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, it.ID, want[i])
		}
		if !it.HasLabel("rank_model") {
			t.Errorf("item %s: missing rank_model label", it.ID)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}

	// 分组标识逐行透传
	for _, gid := range ranker.gotGIDs {
		if gid != "u1_default_session" {
			t.Errorf("group id: got %q", gid)
		}
	}
}

func TestModelNode_DegradeOnPredictError(t *testing.T) {
	ranker := &stubRanker{
		features: []string{"als_score"},
		err:      errors.New("model unavailable"),
	}
	node := &ModelNode{Model: ranker}

	got, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, newItems("a", "b", "c"))
	if err != nil {
		t.Fatalf("degrade must not surface error, got: %v", err)
	}

	// 降级：保持输入顺序，不带 rank_model 标签
	want := []string{"a", "b", "c"}
	for i, it := range got {
		if it.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, it.ID, want[i])
		}
		if it.HasLabel("rank_model") {
			t.Errorf("item %s: degraded result must not carry rank_model label", it.ID)
		}
	}
}

func TestModelNode_DegradeWhenNoDeclaredFeaturePresent(t *testing.T) {
	ranker := &stubRanker{
		features: []string{"ctr", "cvr"}, // 候选集里完全不存在的特征
		scores:   []float64{1, 2, 3},
	}
	node := &ModelNode{Model: ranker}

	got, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, newItems("a", "b", "c"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, it := range got {
		if it.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, it.ID, want[i])
		}
		if it.HasLabel("rank_model") {
			t.Errorf("item %s: unranked result must not carry rank_model label", it.ID)
		}
	}
}

func TestModelNode_DegradeOnScoreCountMismatch(t *testing.T) {
	ranker := &stubRanker{
		features: []string{"als_score"},
		scores:   []float64{0.5}, // 3 个候选只回了 1 个分数
	}
	node := &ModelNode{Model: ranker}

	got, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, newItems("a", "b", "c"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got[0].ID != "a" || got[0].HasLabel("rank_model") {
		t.Error("mismatched score count must degrade to unranked input order")
	}
}

func TestModelNode_EmptyInput(t *testing.T) {
	node := &ModelNode{Model: &stubRanker{features: []string{"als_score"}}}
	got, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d items, want 0", len(got))
	}
}
