package artifact

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

// writeArtifacts 在临时目录生成一套最小可用的产物文件。
func writeArtifacts(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	return Options{
		ModelPath: write("model.json", `{
			"name": "lr_test",
			"feature_names": ["als_score", "available"],
			"categorical_features": ["available"],
			"bias": 0.0,
			"weights": {"als_score": 1.0},
			"categorical_weights": {"available": {"1": 0.1}}
		}`),
		ItemPropsPath: write("props.json", `{
			"100": {"available": 1, "categoryid": 7, "value_mean": 2.5},
			"200.0": {"available": 0}
		}`),
		UserIDMapPath: write("users.json", `{"0": "1001", "1": "1002.0"}`),
		ItemIDMapPath: write("items.json", `{"0": "100", "1": "200", "2": "300"}`),
		MFScoresPath: write("mf.csv",
			"visitoridx,itemidx,rating\n"+
				"0,0,0.9\n"+
				"0,1,0.4\n"+
				"1,2,0.7\n"+
				"0,999,0.5\n"), // 映射不到外部 ID 的行丢弃
		SimilarityPath: write("sim.csv",
			"items_idx,sim_item_id_idx,score\n"+
				"0,1,0.8\n"+
				"0,0,1.0\n"+ // 自相似对剔除
				"1,2,0.3\n"),
		TopAddToCartPath:   write("top_addtocart.csv", "itemid\n100\n200\n"),
		TopTransactionPath: write("top_transaction.csv", "300\n"),
		TopViewPath:        write("top_view.csv", "100.0\n300\n"),
	}
}

func TestOpen_Accessors(t *testing.T) {
	repo, err := Open(writeArtifacts(t), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if repo.Ranker() == nil || repo.Ranker().Name() != "lr_test" {
		t.Errorf("ranker not loaded")
	}

	// 用户下标反查，含浮点格式的外部 ID 归一
	if idx, ok := repo.UserIndex("1001"); !ok || idx != 0 {
		t.Errorf("UserIndex(1001) = %d, %v", idx, ok)
	}
	if idx, ok := repo.UserIndex("1002"); !ok || idx != 1 {
		t.Errorf("UserIndex(1002) = %d, %v", idx, ok)
	}
	if _, ok := repo.UserIndex("9999"); ok {
		t.Error("unknown user must not resolve")
	}

	scores := repo.MFScores(0)
	if scores["100"] != 0.9 || scores["200"] != 0.4 {
		t.Errorf("MFScores(0) = %v", scores)
	}
	if len(scores) != 2 {
		t.Errorf("unmapped item rows must be dropped, got %v", scores)
	}
	if got := repo.MFScores(42); len(got) != 0 {
		t.Errorf("unknown user idx: got %v, want empty map", got)
	}

	neighbors := repo.SimilarItems("100")
	if neighbors["200"] != 0.8 {
		t.Errorf("SimilarItems(100) = %v", neighbors)
	}
	if _, ok := neighbors["100"]; ok {
		t.Error("self-similarity pair must be excluded")
	}
	if got := repo.SimilarItems("nope"); len(got) != 0 {
		t.Errorf("unknown item: got %v, want empty map", got)
	}
}

func TestOpen_ItemProperties(t *testing.T) {
	repo, err := Open(writeArtifacts(t), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	props := repo.ItemProperties(ctx, "100")
	if props["categoryid"] != float64(7) {
		t.Errorf("props(100) = %v", props)
	}
	// 属性表键的浮点格式归一："200.0" 可以按 "200" 查到
	props = repo.ItemProperties(ctx, "200")
	if props["available"] != float64(0) {
		t.Errorf("props(200) = %v", props)
	}
	if got := repo.ItemProperties(ctx, "nope"); len(got) != 0 {
		t.Errorf("unknown item: got %v, want empty map", got)
	}
}

func TestOpen_ColdStart(t *testing.T) {
	repo, err := Open(writeArtifacts(t), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	got := repo.SampleColdStart(rand.New(rand.NewSource(3)))
	if len(got) != 10 {
		t.Fatalf("got %d items, want 10", len(got))
	}
	// 浏览榜单的 "100.0" 已归一成 "100"
	for _, id := range got {
		switch id {
		case "100", "200", "300":
		default:
			t.Errorf("unexpected item %s in cold start sample", id)
		}
	}
}

func TestOpen_MissingArtifactFatal(t *testing.T) {
	opts := writeArtifacts(t)
	opts.MFScoresPath = filepath.Join(t.TempDir(), "missing.csv")

	_, err := Open(opts, nil)
	if err == nil {
		t.Fatal("want error on missing artifact file")
	}
	if !core.IsLoadFailed(err) {
		t.Errorf("want LOAD_FAILED domain error, got %v", err)
	}
}

func TestOpen_MissingIDMapFatal(t *testing.T) {
	opts := writeArtifacts(t)
	opts.UserIDMapPath = filepath.Join(t.TempDir(), "missing.json")

	if _, err := Open(opts, nil); err == nil {
		t.Fatal("want error on missing id map")
	}
}

func TestOpen_SchemaMismatchFatal(t *testing.T) {
	opts := writeArtifacts(t)
	bad := filepath.Join(t.TempDir(), "bad.csv")
	os.WriteFile(bad, []byte("foo,bar\n1,2\n"), 0o644)
	opts.SimilarityPath = bad

	if _, err := Open(opts, nil); err == nil {
		t.Fatal("want error on missing columns")
	}
}
