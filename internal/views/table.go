package views

import (
	"context"
	"io"

	"vending-console/internal/collection"
	"vending-console/internal/joins"

	"golang.org/x/sync/errgroup"
)

// Row is one projected table row
type Row struct {
	ID         int64             `json:"id"`
	Record     any               `json:"record"`
	Labels     map[string]string `json:"labels,omitempty"`
	Percent    *int              `json:"percent,omitempty"`
	Status     string            `json:"status,omitempty"`
	StatusText string            `json:"status_text,omitempty"`
	LowStock   bool              `json:"low_stock,omitempty"`
}

// Table is the non-generic face of one resource view
type Table interface {
	Descriptor() collection.Descriptor
	Load(ctx context.Context) error
	Rows(ctx context.Context, query string) []Row
	Submit(ctx context.Context, edit collection.PendingEdit) error
	Remove(ctx context.Context, id int64) error
	Export(ctx context.Context, query string, w io.Writer) error
	Loading() bool
	Loaded() bool
}

// FK is a foreign-key column of T
type FK[T any] struct {
	Column   string
	Resource string
	ID       func(T) int64
	// Server returns the denormalized label the upstream sent, if any
	Server func(T) string
}

// Column is one exported column
type Column[T any] struct {
	Title string
	Value func(rec T, row Row) any
}

type loader interface {
	Load(ctx context.Context) error
}

type table[T collection.Identified] struct {
	vm       *collection.ViewModel[T]
	siblings []loader
	joins    map[string]joins.Sibling
	fks      []FK[T]
	columns  []Column[T]
	decorate func(T, *Row)
}

func (t *table[T]) Descriptor() collection.Descriptor {
	return t.vm.Schema().Descriptor()
}

// Load reloads the table together with the collections its FK columns join against.
// The first failure cancels the rest.
func (t *table[T]) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.vm.Load(ctx) })
	for _, sib := range t.siblings {
		sib := sib
		g.Go(func() error { return sib.Load(ctx) })
	}
	return g.Wait()
}

func (t *table[T]) Rows(ctx context.Context, query string) []Row {
	rows, _ := t.project(ctx, query)
	return rows
}

func (t *table[T]) project(ctx context.Context, query string) ([]Row, []T) {
	records := t.vm.Search(query)
	resolver := joins.NewResolver(t.joins)

	// one batch per FK column
	resolved := make(map[string]map[int64]string, len(t.fks))
	for _, fk := range t.fks {
		var ids []int64
		for _, rec := range records {
			if fk.Server == nil || fk.Server(rec) == "" {
				ids = append(ids, fk.ID(rec))
			}
		}
		if len(ids) > 0 {
			resolved[fk.Column] = resolver.Labels(ctx, fk.Resource, ids)
		}
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		row := Row{ID: rec.RecordID(), Record: rec}
		if len(t.fks) > 0 {
			row.Labels = make(map[string]string, len(t.fks))
			for _, fk := range t.fks {
				server := ""
				if fk.Server != nil {
					server = fk.Server(rec)
				}
				row.Labels[fk.Column] = joins.Pick(server, resolved[fk.Column][fk.ID(rec)])
			}
		}
		if t.decorate != nil {
			t.decorate(rec, &row)
		}
		rows[i] = row
	}
	return rows, records
}

func (t *table[T]) Submit(ctx context.Context, edit collection.PendingEdit) error {
	return t.vm.Submit(ctx, edit)
}

func (t *table[T]) Remove(ctx context.Context, id int64) error {
	return t.vm.Remove(ctx, id)
}

func (t *table[T]) Loading() bool { return t.vm.Loading() }

func (t *table[T]) Loaded() bool { return t.vm.Loaded() }
