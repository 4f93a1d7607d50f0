package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"vending-console/internal/notice"
	"vending-console/pkg/logging"
)

func init() {
	logging.SetOutput(io.Discard)
}

func TestOperationLogStore(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer Close(db)
	store := NewOperationLogStore(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	for i, msg := range []string{"创建成功", "删除失败", "获取统计数据失败"} {
		resource := "machines"
		if i == 2 {
			resource = "stats"
		}
		n := notice.New(notice.LevelInfo, resource, "op", msg)
		n.CreatedAt = base.Add(time.Duration(i) * time.Second)
		store.Notify(ctx, n)
	}

	all, err := store.Recent(ctx, "", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(all) != 3 || all[0].Message != "获取统计数据失败" {
		t.Fatalf("recent = %+v", all)
	}

	machines, _ := store.Recent(ctx, "machines", 1)
	if len(machines) != 1 || machines[0].Message != "删除失败" {
		t.Fatalf("machines = %+v", machines)
	}
}
