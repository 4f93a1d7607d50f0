package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"vending-console/internal/apiclient"
	"vending-console/internal/notice"
	"vending-console/pkg/logging"
)

func init() {
	logging.SetOutput(io.Discard)
}

const summaryBody = `{"period":"week","start_date":"2024-05-04","end_date":"2024-05-10",
"summary":{"total_revenue":120.5,"total_cost":"60.25","total_profit":60.25,"total_orders":12,"total_alerts":1},
"daily_stats":[{"date":"2024-05-10","revenue":"20.00","cost":"10.00","profit":"10.00","orders":2}],
"machine_ranking":[{"machine__machine_code":"M001","revenue":"100.50","profit":"50.25","orders":10}]}`

type server struct {
	mu          sync.Mutex
	periods     []string
	generated   []map[string]any
	failSummary bool
	failGen     bool
}

func (s *server) start(t *testing.T) (*View, *notice.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch r.URL.Path {
		case "/api/stat-daily/summary/":
			s.periods = append(s.periods, r.URL.Query().Get("period"))
			if s.failSummary {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(summaryBody))
		case "/api/stat-daily/generate/":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			s.generated = append(s.generated, body)
			if s.failGen {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"message":"ok","machines_processed":3,"new_records":3}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL + "/api/")
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	store := notice.NewMemoryStore(10, 0)
	return New(client, store), store
}

func (s *server) seenPeriods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.periods...)
}

func lastMessage(store *notice.MemoryStore) string {
	recent, _ := store.Recent(context.Background(), 1)
	if len(recent) == 0 {
		return ""
	}
	return recent[0].Message
}

func TestFetchDecodesReport(t *testing.T) {
	s := &server{}
	v, _ := s.start(t)

	report, err := v.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if p := s.seenPeriods(); p[0] != PeriodMonth {
		t.Fatalf("default period = %q", p[0])
	}
	if report.Summary.TotalRevenue.StringFixed(2) != "120.50" || report.Summary.TotalCost.StringFixed(2) != "60.25" {
		t.Fatalf("summary = %+v", report.Summary)
	}
	if len(report.MachineRanking) != 1 || report.MachineRanking[0].MachineCode != "M001" {
		t.Fatalf("ranking = %+v", report.MachineRanking)
	}
	if snap := v.Snapshot(); snap.Report == nil || snap.Loading {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSetPeriod(t *testing.T) {
	s := &server{}
	v, _ := s.start(t)
	ctx := context.Background()

	if _, err := v.SetPeriod(ctx, "year"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if len(s.seenPeriods()) != 0 {
		t.Fatalf("invalid period should not fetch")
	}
	if _, err := v.SetPeriod(ctx, PeriodWeek); err != nil {
		t.Fatalf("SetPeriod: %v", err)
	}
	if p := s.seenPeriods(); p[0] != PeriodWeek || v.Snapshot().Period != PeriodWeek {
		t.Fatalf("periods = %v", p)
	}
}

func TestFetchFailureKeepsReport(t *testing.T) {
	s := &server{}
	v, store := s.start(t)
	ctx := context.Background()
	_, _ = v.Fetch(ctx)

	s.mu.Lock()
	s.failSummary = true
	s.mu.Unlock()
	if _, err := v.Fetch(ctx); !apiclient.IsFetchError(err) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if v.Snapshot().Report == nil {
		t.Fatalf("previous report dropped")
	}
	if msg := lastMessage(store); msg != "获取统计数据失败" {
		t.Fatalf("notice = %q", msg)
	}
}

func TestFetchAbandonedByCallerIsSilent(t *testing.T) {
	s := &server{}
	v, store := s.start(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := v.Fetch(ctx); err == nil {
		t.Fatalf("expected an error for a cancelled fetch")
	}
	if msg := lastMessage(store); msg != "" {
		t.Fatalf("cancelled fetch should not notify, got %q", msg)
	}
}

func TestGenerate(t *testing.T) {
	s := &server{}
	v, store := s.start(t)
	ctx := context.Background()

	if _, err := v.Generate(ctx, "2024/05/10"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	result, err := v.Generate(ctx, "2024-05-10")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.MachinesProcessed != 3 || result.NewRecords != 3 {
		t.Fatalf("result = %+v", result)
	}
	if _, err := v.Generate(ctx, ""); err != nil {
		t.Fatalf("Generate without date: %v", err)
	}

	s.mu.Lock()
	if len(s.generated) != 2 || s.generated[0]["date"] != "2024-05-10" || len(s.generated[1]) != 0 {
		t.Fatalf("generate bodies = %v", s.generated)
	}
	if len(s.periods) != 2 {
		t.Fatalf("generate should refresh the report, fetches = %d", len(s.periods))
	}
	s.failGen = true
	s.mu.Unlock()

	if _, err := v.Generate(ctx, ""); err == nil {
		t.Fatalf("expected failure")
	}
	if msg := lastMessage(store); msg != "生成日结统计失败" {
		t.Fatalf("notice = %q", msg)
	}
	if v.Snapshot().Generating {
		t.Fatalf("generating flag not cleared")
	}
}
