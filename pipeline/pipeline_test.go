package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/Yoshigonnawin/mle-pr-final/core"
)

type appendNode struct {
	id  string
	err error
}

func (n *appendNode) Name() string { return "test." + n.id }
func (n *appendNode) Kind() Kind   { return KindPostProcess }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.id)), nil
}

func TestPipeline_RunInOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{id: "a"},
		&appendNode{id: "b"},
		&appendNode{id: "c"},
	}}

	items, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, it.ID, want[i])
		}
	}
}

func TestPipeline_NodeErrorStopsRun(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{id: "a"},
		&appendNode{id: "b", err: errors.New("boom")},
		&appendNode{id: "c"},
	}}

	items, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err == nil {
		t.Fatal("want error from failing node")
	}
	if items != nil {
		t.Errorf("got %v, want nil on error", items)
	}
}

func TestPipeline_Empty(t *testing.T) {
	p := &Pipeline{}
	items, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
