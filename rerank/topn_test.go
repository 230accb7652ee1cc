package rerank

import (
	"context"
	"testing"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

func TestTopNNode_Process(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		items   int
		wantLen int
	}{
		{name: "truncate to n", n: 3, items: 10, wantLen: 3},
		{name: "fewer than n", n: 10, items: 4, wantLen: 4},
		{name: "exactly n", n: 5, items: 5, wantLen: 5},
		{name: "n zero means no truncation", n: 0, items: 7, wantLen: 7},
		{name: "empty input", n: 3, items: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]*core.Item, tt.items)
			for i := range items {
				items[i] = core.NewItem(string(rune('a' + i)))
			}
			node := &TopNNode{N: tt.n}
			got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
			if err != nil {
				t.Fatalf("process: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("got %d items, want %d", len(got), tt.wantLen)
			}
			// 截断保序
			for i, it := range got {
				if it.ID != items[i].ID {
					t.Errorf("position %d: got %s, want %s", i, it.ID, items[i].ID)
				}
			}
		})
	}
}
