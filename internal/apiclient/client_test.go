package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"vending-console/pkg/logging"
)

func init() {
	logging.SetOutput(io.Discard)
}

type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

func newUpstream(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	if _, err := New("not a url"); err == nil {
		t.Fatalf("expected error for relative base url")
	}
	c, err := New("http://127.0.0.1:8000/api")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "http://127.0.0.1:8000/api/" {
		t.Fatalf("base url not normalized: %s", c.BaseURL())
	}
}

func TestListAndItemPaths(t *testing.T) {
	srv, calls := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/api/machines/" {
				_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
				return
			}
			_, _ = w.Write([]byte(`{"id":7}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":9}`))
		}
	})

	c, err := New(srv.URL+"/api/", WithHeader("X-Console", "test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	var list []map[string]any
	if err := c.List(ctx, Machines, &list); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list len = %d", len(list))
	}

	var one map[string]any
	if err := c.Get(ctx, Users, 7, &one); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := c.Update(ctx, Machines, 3, map[string]any{"location": "A"}, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Delete(ctx, Machines, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.ListQuery(ctx, StatSummary, url.Values{"period": {"week"}}, &one); err != nil {
		t.Fatalf("ListQuery: %v", err)
	}

	want := []struct{ method, path string }{
		{http.MethodGet, "/api/machines/"},
		{http.MethodGet, "/api/app-users/7/"},
		{http.MethodPut, "/api/machines/3/"},
		{http.MethodDelete, "/api/machines/3/"},
		{http.MethodGet, "/api/stat-daily/summary/"},
	}
	if len(*calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(*calls), len(want))
	}
	for i, w := range want {
		got := (*calls)[i]
		if got.Method != w.method || got.Path != w.path {
			t.Fatalf("call %d = %s %s, want %s %s", i, got.Method, got.Path, w.method, w.path)
		}
		if got.Header.Get("X-Console") != "test" || got.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("call %d missing default headers: %v", i, got.Header)
		}
	}
	if (*calls)[2].Body["location"] != "A" {
		t.Fatalf("update body = %v", (*calls)[2].Body)
	}
	if (*calls)[4].Query != "period=week" {
		t.Fatalf("query = %q", (*calls)[4].Query)
	}
}

func TestNon2xxBecomesFetchError(t *testing.T) {
	srv, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	})
	c, _ := New(srv.URL + "/api/")

	err := c.Delete(context.Background(), Products, 42)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T %v", err, err)
	}
	if fe.StatusCode != http.StatusNotFound || !fe.NotFound() || !IsNotFound(err) {
		t.Fatalf("unexpected fetch error %+v", fe)
	}
	if fe.Body == "" {
		t.Fatalf("expected body snippet")
	}
}

func TestTransportAndDecodeFailures(t *testing.T) {
	srv, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	c, _ := New(srv.URL + "/api/")

	var out []map[string]any
	if err := c.List(context.Background(), Machines, &out); !IsFetchError(err) {
		t.Fatalf("decode failure should be a FetchError, got %v", err)
	}

	dead, _ := New("http://127.0.0.1:1/api/", WithTimeout(200*time.Millisecond))
	err := dead.List(context.Background(), Machines, &out)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Err == nil || fe.StatusCode != 0 {
		t.Fatalf("expected transport FetchError, got %v", err)
	}
}

func TestHooksAndObserver(t *testing.T) {
	srv, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	var hookErrs int
	var samples []string
	c, _ := New(srv.URL+"/api/",
		WithResponseHook(func(req *http.Request, resp *http.Response, err error) {
			if err != nil {
				hookErrs++
			}
		}),
		WithObserver(func(method, endpoint string, status int, elapsed time.Duration, err error) {
			samples = append(samples, method+" "+endpoint)
		}),
	)

	var out []map[string]any
	_ = c.List(context.Background(), Inventories, &out)
	_ = c.Post(context.Background(), StatGenerate, map[string]string{}, nil)
	_ = c.Update(context.Background(), Inventories, 5, map[string]any{}, nil)

	if hookErrs != 2 {
		t.Fatalf("hook saw %d errors, want 2", hookErrs)
	}
	want := []string{"GET inventories/", "POST stat-daily/generate/", "PUT inventories/"}
	if len(samples) != len(want) {
		t.Fatalf("samples = %v", samples)
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("sample %d = %q, want %q", i, samples[i], want[i])
		}
	}
}
