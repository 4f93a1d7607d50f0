package joins

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestLabelsBatchAndFallback(t *testing.T) {
	var calls int32
	sib := Sibling{
		Label: "商品",
		Labels: func() map[int64]string {
			atomic.AddInt32(&calls, 1)
			return map[int64]string{1: "Cola", 2: "Water"}
		},
	}
	r := NewResolver(map[string]Sibling{"products": sib})

	got := r.Labels(context.Background(), "products", []int64{1, 2, 7, 1})
	if got[1] != "Cola" || got[2] != "Water" {
		t.Fatalf("labels = %v", got)
	}
	if got[7] != "商品7" {
		t.Fatalf("fallback = %q", got[7])
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("sibling read %d times, want one batch", n)
	}
}

func TestUnknownSiblingFallsBack(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Label(context.Background(), "机器", 3); got != "机器3" {
		t.Fatalf("label = %q", got)
	}
}

func TestPick(t *testing.T) {
	if Pick("M001", "机器1") != "M001" || Pick("", "机器1") != "机器1" {
		t.Fatalf("Pick should prefer the server label")
	}
}
