package collection

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"vending-console/internal/apiclient"
	"vending-console/internal/notice"
	"vending-console/pkg/logging"
)

// Identified is implemented by every cached record
type Identified interface {
	RecordID() int64
}

// Client is the part of the upstream client a view-model needs
type Client interface {
	List(ctx context.Context, endpoint string, out any) error
	Create(ctx context.Context, endpoint string, body any, out any) error
	Update(ctx context.Context, endpoint string, id int64, body any, out any) error
	Delete(ctx context.Context, endpoint string, id int64) error
}

// ViewModel is the local cache of one server collection plus its CRUD operations
type ViewModel[T Identified] struct {
	schema   Schema[T]
	client   Client
	notifier notice.Notifier

	mu         sync.RWMutex
	items      []T
	index      map[int64]int
	loaded     bool
	inflight   int
	generation uint64
	cancel     context.CancelFunc
	latest     *loadCall
}

// loadCall is the outcome of one Load, published when done is closed
type loadCall struct {
	done chan struct{}
	err  error
}

// New creates an empty view-model. A nil notifier discards notices.
func New[T Identified](schema Schema[T], client Client, notifier notice.Notifier) *ViewModel[T] {
	if notifier == nil {
		notifier = notice.Discard
	}
	return &ViewModel[T]{
		schema:   schema,
		client:   client,
		notifier: notifier,
		items:    []T{},
		index:    map[int64]int{},
	}
}

// Schema returns the resource schema
func (vm *ViewModel[T]) Schema() Schema[T] {
	return vm.schema
}

// Load fetches the whole collection and replaces the cache. A newer Load cancels an
// older one in flight; the older caller then waits for the newest load and returns
// its result, so a nil error always means the cache holds a completed fetch.
func (vm *ViewModel[T]) Load(ctx context.Context) error {
	vm.mu.Lock()
	vm.generation++
	gen := vm.generation
	if vm.cancel != nil {
		vm.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	vm.cancel = cancel
	call := &loadCall{done: make(chan struct{})}
	vm.latest = call
	vm.inflight++
	vm.mu.Unlock()
	defer cancel()

	var items []T
	err := vm.client.List(loadCtx, vm.schema.Endpoint, &items)
	var index map[int64]int
	if err == nil {
		index, err = vm.indexOf(items)
	}

	vm.mu.Lock()
	vm.inflight--
	var next *loadCall
	if vm.generation != gen {
		next = vm.latest
	} else {
		vm.cancel = nil
		if err == nil {
			if items == nil {
				items = []T{}
			}
			vm.items = items
			vm.index = index
			vm.loaded = true
		}
	}
	vm.mu.Unlock()

	switch {
	case next != nil:
		logging.Debugf("%s load superseded, waiting for the newer load", vm.schema.Name)
		err = awaitLoad(ctx, next)
	case err != nil && ctx.Err() == nil:
		// a load abandoned by its caller is not reported to the user
		vm.notify(ctx, notice.LevelError, OpLoad, vm.schema.Messages.LoadFailed, 0)
	}

	call.err = err
	close(call.done)
	return err
}

// awaitLoad blocks until c settles or ctx is done. A later load never waits on an
// earlier one, so the chain of waits always ends.
func awaitLoad(ctx context.Context, c *loadCall) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (vm *ViewModel[T]) indexOf(items []T) (map[int64]int, error) {
	index := make(map[int64]int, len(items))
	for i, item := range items {
		id := item.RecordID()
		if _, dup := index[id]; dup {
			return nil, &apiclient.FetchError{
				Method: http.MethodGet,
				URL:    vm.schema.Endpoint,
				Err:    fmt.Errorf("duplicate id %d in response", id),
			}
		}
		index[id] = i
	}
	return index, nil
}

// Create validates fields, posts them and reloads on success
func (vm *ViewModel[T]) Create(ctx context.Context, fields map[string]any) error {
	if !vm.schema.Ops.Has(CanCreate) {
		return fmt.Errorf("%s create: %w", vm.schema.Name, ErrUnsupported)
	}
	body, err := vm.schema.Body(fields)
	if err != nil {
		vm.notify(ctx, notice.LevelError, OpCreate, vm.schema.Messages.MutateFailed, 0)
		return err
	}
	if err := vm.client.Create(ctx, vm.schema.Endpoint, body, nil); err != nil {
		vm.notify(ctx, notice.LevelError, OpCreate, vm.schema.Messages.MutateFailed, 0)
		return err
	}
	vm.notify(ctx, notice.LevelSuccess, OpCreate, vm.schema.Messages.Created, 0)
	vm.reload(ctx)
	return nil
}

// Update validates fields and replaces the cached record id upstream. Fields left out
// of the form keep the cached record's values.
func (vm *ViewModel[T]) Update(ctx context.Context, id int64, fields map[string]any) error {
	if !vm.schema.Ops.Has(CanUpdate) {
		return fmt.Errorf("%s update: %w", vm.schema.Name, ErrUnsupported)
	}
	current, ok := vm.Find(id)
	if !ok {
		vm.notify(ctx, notice.LevelError, OpUpdate, vm.schema.Messages.MutateFailed, id)
		return fmt.Errorf("%s %d: %w", vm.schema.Name, id, ErrNotFound)
	}
	body, err := vm.schema.UpdateBody(fields, current)
	if err != nil {
		vm.notify(ctx, notice.LevelError, OpUpdate, vm.schema.Messages.MutateFailed, id)
		return err
	}
	if err := vm.client.Update(ctx, vm.schema.Endpoint, id, body, nil); err != nil {
		vm.notify(ctx, notice.LevelError, OpUpdate, vm.schema.Messages.MutateFailed, id)
		return err
	}
	vm.notify(ctx, notice.LevelSuccess, OpUpdate, vm.schema.Messages.Updated, id)
	vm.reload(ctx)
	return nil
}

// Remove deletes the cached record id upstream
func (vm *ViewModel[T]) Remove(ctx context.Context, id int64) error {
	if !vm.schema.Ops.Has(CanRemove) {
		return fmt.Errorf("%s remove: %w", vm.schema.Name, ErrUnsupported)
	}
	if _, ok := vm.Find(id); !ok {
		vm.notify(ctx, notice.LevelError, OpRemove, vm.schema.Messages.RemoveFailed, id)
		return fmt.Errorf("%s %d: %w", vm.schema.Name, id, ErrNotFound)
	}
	if err := vm.client.Delete(ctx, vm.schema.Endpoint, id); err != nil {
		vm.notify(ctx, notice.LevelError, OpRemove, vm.schema.Messages.RemoveFailed, id)
		return err
	}
	vm.notify(ctx, notice.LevelSuccess, OpRemove, vm.schema.Messages.Removed, id)
	vm.reload(ctx)
	return nil
}

// Submit creates or updates depending on the edit's id
func (vm *ViewModel[T]) Submit(ctx context.Context, edit PendingEdit) error {
	if edit.IsCreate() {
		return vm.Create(ctx, edit.Fields)
	}
	return vm.Update(ctx, edit.ID, edit.Fields)
}

// reload runs the post-mutation load. Its failure has already been noticed by Load.
func (vm *ViewModel[T]) reload(ctx context.Context) {
	if err := vm.Load(ctx); err != nil {
		logging.LogError("collection", "reload", vm.schema.Name, nil, err)
	}
}

// Search filters the cache by query
func (vm *ViewModel[T]) Search(query string) []T {
	return Filter(vm.Snapshot(), query, vm.schema.Search)
}

// Snapshot returns a copy of the cached records in server order
func (vm *ViewModel[T]) Snapshot() []T {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]T, len(vm.items))
	copy(out, vm.items)
	return out
}

// Find returns the cached record with id
func (vm *ViewModel[T]) Find(id int64) (T, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	i, ok := vm.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return vm.items[i], true
}

// Patch applies fn to the cached record id in place. Used only for optimistic
// updates that the next Load reconciles.
func (vm *ViewModel[T]) Patch(id int64, fn func(*T)) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	i, ok := vm.index[id]
	if !ok {
		return false
	}
	fn(&vm.items[i])
	return true
}

// Loading reports whether any load is in flight
func (vm *ViewModel[T]) Loading() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.inflight > 0
}

// Loaded reports whether at least one load succeeded
func (vm *ViewModel[T]) Loaded() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loaded
}

func (vm *ViewModel[T]) notify(ctx context.Context, level notice.Level, op Op, message string, id int64) {
	if message == "" {
		return
	}
	n := notice.New(level, vm.schema.Name, string(op), message)
	n.RecordID = id
	vm.notifier.Notify(ctx, n)
}
