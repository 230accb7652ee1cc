package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
artifacts:
  model: /data/model.json
  item_props: /data/props.json
events:
  backend: redis
  max_per_user: 20
  redis:
    addr: localhost:6379
    key_prefix: rec
generator:
  last_k: 3
  n_sim: 6
cold_start:
  addtocart: 4
  transaction: 3
  view: 3
filter:
  rules:
    - 'props.available == "0"'
topn: 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Artifacts.Model != "/data/model.json" {
		t.Errorf("model path: got %q", cfg.Artifacts.Model)
	}
	if cfg.Events.Backend != "redis" || cfg.Events.MaxPerUser != 20 {
		t.Errorf("events: got %+v", cfg.Events)
	}
	if cfg.Events.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr: got %q", cfg.Events.Redis.Addr)
	}
	if cfg.Generator.LastK != 3 || cfg.Generator.NSim != 6 {
		t.Errorf("generator: got %+v", cfg.Generator)
	}
	// 未给出的字段回填默认值
	if cfg.Generator.NMF != 20 {
		t.Errorf("n_mf default: got %d, want 20", cfg.Generator.NMF)
	}
	if cfg.ColdStart != (ColdStartConfig{AddToCart: 4, Transaction: 3, View: 3}) {
		t.Errorf("cold start: got %+v", cfg.ColdStart)
	}
	if len(cfg.Filter.Rules) != 1 {
		t.Errorf("filter rules: got %v", cfg.Filter.Rules)
	}
	if cfg.TopN != 7 {
		t.Errorf("topn: got %d", cfg.TopN)
	}
}

func TestLoad_EmptyFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if cfg.Events != want.Events || cfg.Generator != want.Generator ||
		cfg.ColdStart != want.ColdStart || cfg.TopN != want.TopN {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("want error on missing config file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("topn: [not an int\n"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("want error on malformed yaml")
	}
}
