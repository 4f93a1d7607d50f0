package collection

import (
	"strings"
	"testing"
)

func TestFilter(t *testing.T) {
	fields := testSchema(CRUD).Search
	records := []item{
		{ID: 1, Name: "Cola", Code: "AB-1"},
		{ID: 2, Name: "Water", Code: "ab-2"},
		{ID: 3, Name: "cold tea", Code: "X"},
	}

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"empty", "", []int64{1, 2, 3}},
		{"whitespace", "   ", []int64{1, 2, 3}},
		{"case insensitive", "COL", []int64{1, 3}},
		{"case sensitive field", "AB", []int64{1}},
		{"lowercase on sensitive field", "ab", []int64{2}},
		{"no match", "juice", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.query, fields)
			if !equalIDs(ids(got), tt.want...) {
				t.Fatalf("Filter(%q) = %v, want %v", tt.query, ids(got), tt.want)
			}
			for _, rec := range got {
				if tt.query == "" || strings.TrimSpace(tt.query) == "" {
					continue
				}
				if !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(tt.query)) &&
					!strings.Contains(rec.Code, tt.query) {
					t.Fatalf("record %d does not contain %q", rec.ID, tt.query)
				}
			}
		})
	}
	if records[0].ID != 1 || records[2].ID != 3 || len(records) != 3 {
		t.Fatalf("input mutated: %v", records)
	}
}

func TestFilterBlankQueryReturnsCopy(t *testing.T) {
	records := []item{{ID: 1, Name: "Cola"}, {ID: 2, Name: "Water"}}
	got := Filter(records, " ", testSchema(CRUD).Search)
	got[0].Name = "changed"
	if records[0].Name != "Cola" {
		t.Fatalf("blank-query result aliases the input")
	}
}

func TestSearchUsesCache(t *testing.T) {
	vm, fc, _ := newTestVM(CRUD, item{ID: 1, Name: "Cola"}, item{ID: 2, Name: "Water"})
	_ = vm.Load(t.Context())

	if got := vm.Search("wat"); !equalIDs(ids(got), 2) {
		t.Fatalf("search = %v", ids(got))
	}
	if len(fc.methods()) != 1 {
		t.Fatalf("search should not fetch: %v", fc.methods())
	}
	if got := ids(vm.Snapshot()); !equalIDs(got, 1, 2) {
		t.Fatalf("cache changed by search: %v", got)
	}
}
