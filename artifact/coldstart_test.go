package artifact

import (
	"math/rand"
	"testing"
)

func TestColdStartPool_Sample(t *testing.T) {
	pool := &ColdStartPool{
		AddToCart:   []string{"a1", "a2", "a3"},
		Transaction: []string{"t1", "t2"},
		View:        []string{"v1", "v2", "v3", "v4"},
		Weights:     DefaultWeights(),
	}

	rng := rand.New(rand.NewSource(42))
	got := pool.Sample(rng)

	if len(got) != 10 {
		t.Fatalf("got %d items, want 10 (6+2+2)", len(got))
	}
	member := func(list []string, id string) bool {
		for _, x := range list {
			if x == id {
				return true
			}
		}
		return false
	}
	for i, id := range got[:6] {
		if !member(pool.AddToCart, id) {
			t.Errorf("position %d: %s not from addtocart list", i, id)
		}
	}
	for i, id := range got[6:8] {
		if !member(pool.Transaction, id) {
			t.Errorf("position %d: %s not from transaction list", 6+i, id)
		}
	}
	for i, id := range got[8:10] {
		if !member(pool.View, id) {
			t.Errorf("position %d: %s not from view list", 8+i, id)
		}
	}
}

func TestColdStartPool_SeededReproducible(t *testing.T) {
	pool := &ColdStartPool{
		AddToCart:   []string{"a1", "a2", "a3", "a4"},
		Transaction: []string{"t1", "t2", "t3"},
		View:        []string{"v1", "v2"},
		Weights:     DefaultWeights(),
	}

	first := pool.Sample(rand.New(rand.NewSource(7)))
	second := pool.Sample(rand.New(rand.NewSource(7)))
	if len(first) != len(second) {
		t.Fatalf("length differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestColdStartPool_CustomWeights(t *testing.T) {
	pool := &ColdStartPool{
		AddToCart:   []string{"a"},
		Transaction: []string{"t"},
		View:        []string{"v"},
		Weights:     Weights{AddToCart: 1, Transaction: 0, View: 3},
	}

	got := pool.Sample(rand.New(rand.NewSource(1)))
	if len(got) != 4 {
		t.Fatalf("got %d items, want 4 (1+0+3)", len(got))
	}
	if got[0] != "a" {
		t.Errorf("first draw: got %s, want a", got[0])
	}
	for i, id := range got[1:] {
		if id != "v" {
			t.Errorf("position %d: got %s, want v", 1+i, id)
		}
	}
}

func TestColdStartPool_EmptyListsSkipped(t *testing.T) {
	pool := &ColdStartPool{
		AddToCart: []string{"a1"},
		Weights:   DefaultWeights(),
	}

	got := pool.Sample(rand.New(rand.NewSource(1)))
	if len(got) != 6 {
		t.Fatalf("got %d items, want 6 (empty lists contribute nothing)", len(got))
	}
	for i, id := range got {
		if id != "a1" {
			t.Errorf("position %d: got %s", i, id)
		}
	}
}

func TestColdStartPool_Nil(t *testing.T) {
	var pool *ColdStartPool
	if got := pool.Sample(rand.New(rand.NewSource(1))); got != nil {
		t.Errorf("nil pool: got %v, want nil", got)
	}
}
