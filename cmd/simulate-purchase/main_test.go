package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/machines/":
			_, _ = w.Write([]byte(`[{"id":1,"machine_code":"M001","location":"Lobby","status":"normal"}]`))
		case "/api/products/":
			_, _ = w.Write([]byte(`[{"id":10,"name":"Cola","sell_price":"3.50"}]`))
		case "/api/app-users/":
			_, _ = w.Write([]byte(`[{"id":5,"username":"alice","balance":"20.00"}]`))
		case "/api/app-users/5/":
			_, _ = w.Write([]byte(`{"id":5,"username":"alice","balance":"16.50"}`))
		case "/api/inventories/":
			_, _ = w.Write([]byte(`[{"id":100,"machine":1,"product":10,"current_stock":2,"max_capacity":10}]`))
		case "/api/transactions/":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBuyCommand(t *testing.T) {
	srv := upstream(t)
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)

	err := app.Run([]string{"simulate-purchase", "--api", srv.URL + "/api/", "buy", "--product", "10"})
	if err != nil {
		t.Fatalf("buy: %v (stderr %s)", err, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "status:  success") || !strings.Contains(out, "balance 16.50") {
		t.Fatalf("output = %s", out)
	}
	if !strings.Contains(stderr.String(), "购买成功！") {
		t.Fatalf("notice not printed: %s", stderr.String())
	}
}

func TestStockCommandUnknownMachine(t *testing.T) {
	srv := upstream(t)
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)

	err := app.Run([]string{"simulate-purchase", "--api", srv.URL + "/api/", "stock", "--machine", "9"})
	if err == nil || !strings.Contains(err.Error(), "unknown machine") {
		t.Fatalf("expected unknown machine error, got %v", err)
	}
}
