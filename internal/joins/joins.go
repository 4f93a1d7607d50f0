package joins

import (
	"context"
	"fmt"
	"time"

	"vending-console/internal/collection"

	"github.com/graph-gophers/dataloader/v7"
)

// Sibling is a collection that FK columns can be joined against
type Sibling struct {
	// Label prefixes the fallback label, e.g. 商品 for 商品7
	Label string
	// Labels returns the current id to label mapping
	Labels func() map[int64]string
}

// From builds a Sibling over a view-model snapshot
func From[T collection.Identified](label string, vm *collection.ViewModel[T], text func(T) string) Sibling {
	return Sibling{
		Label: label,
		Labels: func() map[int64]string {
			snapshot := vm.Snapshot()
			out := make(map[int64]string, len(snapshot))
			for _, rec := range snapshot {
				out[rec.RecordID()] = text(rec)
			}
			return out
		},
	}
}

// Fallback is the label shown when no sibling label is known
func Fallback(label string, id int64) string {
	return fmt.Sprintf("%s%d", label, id)
}

// Pick prefers the server-supplied label, then the resolved one
func Pick(server, resolved string) string {
	if server != "" {
		return server
	}
	return resolved
}

// Resolver batches label lookups per sibling. Build one per projection so labels
// reflect the snapshot at projection time.
type Resolver struct {
	siblings map[string]Sibling
	loaders  map[string]*dataloader.Loader[int64, string]
}

// NewResolver creates a resolver over the given siblings keyed by resource name
func NewResolver(siblings map[string]Sibling) *Resolver {
	r := &Resolver{
		siblings: siblings,
		loaders:  make(map[string]*dataloader.Loader[int64, string], len(siblings)),
	}
	for name, sib := range siblings {
		r.loaders[name] = dataloader.NewBatchedLoader(batch(sib), dataloader.WithWait[int64, string](time.Millisecond))
	}
	return r
}

func batch(sib Sibling) dataloader.BatchFunc[int64, string] {
	return func(ctx context.Context, ids []int64) []*dataloader.Result[string] {
		labels := sib.Labels()
		results := make([]*dataloader.Result[string], 0, len(ids))
		for _, id := range ids {
			label, ok := labels[id]
			if !ok || label == "" {
				label = Fallback(sib.Label, id)
			}
			results = append(results, &dataloader.Result[string]{Data: label})
		}
		return results
	}
}

// Labels resolves ids against the named sibling in one batch. Unknown siblings
// and missing ids get the fallback label.
func (r *Resolver) Labels(ctx context.Context, resource string, ids []int64) map[int64]string {
	out := make(map[int64]string, len(ids))
	loader, ok := r.loaders[resource]
	if !ok {
		for _, id := range ids {
			out[id] = Fallback(resource, id)
		}
		return out
	}

	labels, errs := loader.LoadMany(ctx, ids)()
	label := r.siblings[resource].Label
	for i, id := range ids {
		if i < len(labels) && (len(errs) <= i || errs[i] == nil) && labels[i] != "" {
			out[id] = labels[i]
			continue
		}
		out[id] = Fallback(label, id)
	}
	return out
}

// Label resolves a single id
func (r *Resolver) Label(ctx context.Context, resource string, id int64) string {
	return r.Labels(ctx, resource, []int64{id})[id]
}
