package feature

import (
	"github.com/Yoshigonnawin/mle-pr-final/core"
	"github.com/Yoshigonnawin/mle-pr-final/model"
)

// Frame 是一张按候选展开的特征表：一行一个候选，附带排序分组标识。
// 请求结束即丢弃，不做任何持久化。
type Frame struct {
	ItemIDs  []string
	GroupIDs []string
	Samples  []model.Sample
}

// BuildFrame 从已拼装特征的候选集构建特征表。
// 行数恒等于候选数；groupID 对一次请求内所有行相同。
func BuildFrame(items []*core.Item, groupID string) *Frame {
	f := &Frame{
		ItemIDs:  make([]string, 0, len(items)),
		GroupIDs: make([]string, 0, len(items)),
		Samples:  make([]model.Sample, 0, len(items)),
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		f.ItemIDs = append(f.ItemIDs, it.ID)
		f.GroupIDs = append(f.GroupIDs, groupID)
		f.Samples = append(f.Samples, model.Sample{
			Numeric:     it.Features,
			Categorical: it.Categorical,
		})
	}
	return f
}

// Empty 判断特征表是否没有任何行。
func (f *Frame) Empty() bool {
	return f == nil || len(f.Samples) == 0
}

// HasColumn 判断特征表中是否存在某列（任一行带有该特征即视为存在）。
func (f *Frame) HasColumn(name string) bool {
	if f == nil {
		return false
	}
	for _, s := range f.Samples {
		if _, ok := s.Numeric[name]; ok {
			return true
		}
		if _, ok := s.Categorical[name]; ok {
			return true
		}
	}
	return false
}

// Restrict 返回只保留指定列的拷贝行，供模型按声明特征消费。
// 不存在的列直接缺省（模型侧负责哨兵语义）。
func (f *Frame) Restrict(columns []string) []model.Sample {
	out := make([]model.Sample, len(f.Samples))
	colSet := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		colSet[c] = struct{}{}
	}
	for i, s := range f.Samples {
		row := model.Sample{
			Numeric:     make(map[string]float64),
			Categorical: make(map[string]string),
		}
		for name, v := range s.Numeric {
			if _, ok := colSet[name]; ok {
				row.Numeric[name] = v
			}
		}
		for name, v := range s.Categorical {
			if _, ok := colSet[name]; ok {
				row.Categorical[name] = v
			}
		}
		out[i] = row
	}
	return out
}
