// Package recsys 是一个在线推荐服务核心：有界事件缓存、双源候选生成、
// 特征拼装、分组排序与冷启动兜底，组合成一条可配置的 serving pipeline。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Feature → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 产物一次加载: 模型/属性表/映射表/相似度索引启动期加载，请求路径只读查表
package recsys

import "github.com/Yoshigonnawin/mle-pr-final/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
