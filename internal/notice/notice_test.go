package notice

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreCapacityAndOrder(t *testing.T) {
	s := NewMemoryStore(2, 0)
	ctx := context.Background()
	for _, msg := range []string{"a", "b", "c"} {
		s.Notify(ctx, New(LevelInfo, "machines", "load", msg))
	}

	got, _ := s.Recent(ctx, 0)
	if len(got) != 2 || got[0].Message != "c" || got[1].Message != "b" {
		t.Fatalf("recent = %+v", got)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("notice ids should be unique and set")
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	s := NewMemoryStore(10, 3*time.Second)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	old := New(LevelError, "products", "load", "获取商品列表失败")
	old.CreatedAt = now.Add(-4 * time.Second)
	s.Notify(ctx, old)
	s.Notify(ctx, New(LevelSuccess, "products", "create", "创建成功"))

	got, _ := s.Recent(ctx, 5)
	if len(got) != 1 || got[0].Message != "创建成功" {
		t.Fatalf("recent = %+v", got)
	}
}

func TestMultiSkipsNil(t *testing.T) {
	var seen []string
	rec := NotifierFunc(func(_ context.Context, n Notice) { seen = append(seen, n.Message) })
	m := Multi(nil, rec, Discard, rec)
	m.Notify(context.Background(), New(LevelInfo, "", "", "x"))
	if len(seen) != 2 {
		t.Fatalf("seen = %v", seen)
	}
}
