// Package config 定义服务的 YAML 配置与默认值。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是推荐服务的完整配置（支持 YAML）。
type Config struct {
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Events    EventsConfig    `yaml:"events"`
	Generator GeneratorConfig `yaml:"generator"`
	ColdStart ColdStartConfig `yaml:"cold_start"`
	Filter    FilterConfig    `yaml:"filter"`
	Ranker    RankerConfig    `yaml:"ranker"`
	Feast     FeastConfig     `yaml:"feast"`

	// TopN 是最终返回的推荐条数。
	TopN int `yaml:"topn"`
}

// ArtifactsConfig 指定各离线产物文件的路径。
type ArtifactsConfig struct {
	Model          string `yaml:"model"`
	ItemProps      string `yaml:"item_props"`
	UserIDMap      string `yaml:"user_id_map"`
	ItemIDMap      string `yaml:"item_id_map"`
	MFScores       string `yaml:"mf_scores"`
	Similarity     string `yaml:"similarity"`
	TopAddToCart   string `yaml:"top_addtocart"`
	TopTransaction string `yaml:"top_transaction"`
	TopView        string `yaml:"top_view"`
}

// EventsConfig 配置事件缓存后端。
type EventsConfig struct {
	// Backend 取 "memory"（默认）或 "redis"。
	Backend string `yaml:"backend"`

	// MaxPerUser 是每用户保留的近期事件上限。
	MaxPerUser int `yaml:"max_per_user"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig 是 redis 后端的连接参数。
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// GeneratorConfig 是候选生成参数。
type GeneratorConfig struct {
	// LastK 是相似候选与 sim_max 共用的会话窗口长度。
	LastK int `yaml:"last_k"`

	// NMF 是矩阵分解候选的条数上限。
	NMF int `yaml:"n_mf"`

	// NSim 是相似候选的总预算。
	NSim int `yaml:"n_sim"`
}

// ColdStartConfig 是冷启动抽样的混合比例。
type ColdStartConfig struct {
	AddToCart   int `yaml:"addtocart"`
	Transaction int `yaml:"transaction"`
	View        int `yaml:"view"`
}

// FilterConfig 是候选过滤规则（CEL 表达式，命中即剔除）。
type FilterConfig struct {
	Rules []string `yaml:"rules"`
}

// RankerConfig 可选地把排序切到远程模型服务。
// Endpoint 为空时使用本地模型文件。
type RankerConfig struct {
	Endpoint            string   `yaml:"endpoint"`
	TimeoutMs           int      `yaml:"timeout_ms"`
	FeatureNames        []string `yaml:"feature_names"`
	CategoricalFeatures []string `yaml:"categorical_features"`
}

// FeastConfig 可选地把物品属性来源切到 Feast Feature Store。
// Endpoint 为空时使用本地属性表。
type FeastConfig struct {
	Endpoint  string   `yaml:"endpoint"`
	Project   string   `yaml:"project"`
	Features  []string `yaml:"features"`
	TimeoutMs int      `yaml:"timeout_ms"`
}

// Default 返回带默认参数的配置（产物路径仍需显式给出）。
func Default() *Config {
	return &Config{
		Events:    EventsConfig{Backend: "memory", MaxPerUser: 10},
		Generator: GeneratorConfig{LastK: 5, NMF: 20, NSim: 10},
		ColdStart: ColdStartConfig{AddToCart: 6, Transaction: 2, View: 2},
		TopN:      10,
	}
}

// Load 从 YAML 文件加载配置，未给出的字段回填默认值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Events.Backend == "" {
		c.Events.Backend = "memory"
	}
	if c.Events.MaxPerUser <= 0 {
		c.Events.MaxPerUser = 10
	}
	if c.Generator.LastK <= 0 {
		c.Generator.LastK = 5
	}
	if c.Generator.NMF <= 0 {
		c.Generator.NMF = 20
	}
	if c.Generator.NSim <= 0 {
		c.Generator.NSim = 10
	}
	if c.ColdStart.AddToCart+c.ColdStart.Transaction+c.ColdStart.View <= 0 {
		c.ColdStart = ColdStartConfig{AddToCart: 6, Transaction: 2, View: 2}
	}
	if c.TopN <= 0 {
		c.TopN = 10
	}
}
