package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vending-console/internal/apiclient"
	"vending-console/internal/models"
	"vending-console/internal/notice"
	"vending-console/internal/resources"
	"vending-console/pkg/logging"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Purchase errors
var (
	ErrBusy           = errors.New("a purchase is already in progress")
	ErrNoContext      = errors.New("no machine or user selected")
	ErrOutOfStock     = errors.New("product out of stock")
	ErrUnknownMachine = errors.New("unknown machine")
	ErrUnknownProduct = errors.New("unknown product")
	ErrUnknownUser    = errors.New("unknown user")
)

// Status of the purchase screen
type Status string

const (
	StatusIdle       Status = "idle"
	StatusPurchasing Status = "purchasing"
	StatusSuccess    Status = "success"
	StatusFailure    Status = "failure"
)

const (
	msgInitFailed   = "初始化数据失败"
	msgOutOfStock   = "该商品缺货"
	msgSucceeded    = "购买成功！"
	msgRejected     = "购买失败，可能是余额不足"
	noticeOperation = "purchase"
)

// Client is the part of the upstream client purchases need
type Client interface {
	Create(ctx context.Context, endpoint string, body any, out any) error
	Get(ctx context.Context, endpoint string, id int64, out any) error
}

// Item is one product as offered by the selected machine
type Item struct {
	InventoryID int64           `json:"inventory_id"`
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// State is an immutable view of the purchase screen
type State struct {
	Status    Status           `json:"status"`
	Machine   *models.Machine  `json:"machine,omitempty"`
	User      *models.AppUser  `json:"user,omitempty"`
	Machines  []models.Machine `json:"machines"`
	Items     []Item           `json:"items"`
	Dropped   *Item            `json:"dropped,omitempty"`
	LastError string           `json:"last_error,omitempty"`
}

// Scheduler runs f after d and returns a function that cancels it
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Simulator drives the mobile purchase flow over the shared view-models
type Simulator struct {
	reg      *resources.Registry
	client   Client
	notifier notice.Notifier
	display  time.Duration
	schedule Scheduler

	mu        sync.Mutex
	status    Status
	machineID int64
	user      *models.AppUser
	dropped   *Item
	lastErr   string
	epoch     uint64
	stopIdle  func() bool
}

// Option configures a Simulator
type Option func(*Simulator)

// WithScheduler replaces the timer used for the automatic return to idle
func WithScheduler(s Scheduler) Option {
	return func(sim *Simulator) { sim.schedule = s }
}

// New creates a simulator. Outcomes stay visible for display before returning to idle.
func New(reg *resources.Registry, client Client, notifier notice.Notifier, display time.Duration, opts ...Option) *Simulator {
	if notifier == nil {
		notifier = notice.Discard
	}
	s := &Simulator{
		reg:      reg,
		client:   client,
		notifier: notifier,
		display:  display,
		schedule: afterFunc,
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads machines, products and users, then selects the first machine and user
func (s *Simulator) Init(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.reg.Machines.Load(gctx) })
	g.Go(func() error { return s.reg.Products.Load(gctx) })
	g.Go(func() error { return s.reg.Users.Load(gctx) })
	if err := g.Wait(); err != nil {
		s.notify(ctx, notice.LevelError, msgInitFailed)
		return fmt.Errorf("init purchase: %w", err)
	}

	users := s.reg.Users.Snapshot()
	s.mu.Lock()
	s.user = nil
	if len(users) > 0 {
		u := users[0]
		s.user = &u
	}
	s.mu.Unlock()

	machines := s.reg.Machines.Snapshot()
	if len(machines) == 0 {
		s.mu.Lock()
		s.machineID = 0
		s.mu.Unlock()
		return nil
	}
	return s.SelectMachine(ctx, machines[0].ID)
}

// SelectMachine switches to machine id and reloads its inventory
func (s *Simulator) SelectMachine(ctx context.Context, id int64) error {
	if _, ok := s.reg.Machines.Find(id); !ok {
		return fmt.Errorf("machine %d: %w", id, ErrUnknownMachine)
	}
	s.mu.Lock()
	s.machineID = id
	s.mu.Unlock()

	return s.reg.Inventories.Load(ctx)
}

// SelectUser makes the cached user id the purchasing user
func (s *Simulator) SelectUser(id int64) error {
	u, ok := s.reg.Users.Find(id)
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrUnknownUser)
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Purchase buys one unit of productID at the selected machine
func (s *Simulator) Purchase(ctx context.Context, productID int64) error {
	s.mu.Lock()
	if s.status == StatusPurchasing {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.user == nil || s.machineID == 0 {
		s.mu.Unlock()
		return ErrNoContext
	}
	user := *s.user
	machineID := s.machineID

	product, ok := s.reg.Products.Find(productID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("product %d: %w", productID, ErrUnknownProduct)
	}
	inv, ok := s.slot(machineID, productID)
	if !ok || inv.CurrentStock <= 0 {
		s.finish(StatusFailure, nil, msgOutOfStock)
		s.mu.Unlock()
		s.notify(ctx, notice.LevelError, msgOutOfStock)
		return fmt.Errorf("product %d at machine %d: %w", productID, machineID, ErrOutOfStock)
	}
	s.cancelIdle()
	s.epoch++
	s.status = StatusPurchasing
	s.dropped = nil
	s.lastErr = ""
	s.mu.Unlock()

	body := map[string]any{
		"user":    user.ID,
		"machine": machineID,
		"product": productID,
		"amount":  product.SellPrice.String(),
	}
	if err := s.client.Create(ctx, apiclient.Transactions, body, nil); err != nil {
		s.mu.Lock()
		s.finish(StatusFailure, nil, msgRejected)
		s.mu.Unlock()
		s.notify(ctx, notice.LevelError, msgRejected)
		return err
	}

	s.reg.Inventories.Patch(inv.ID, func(i *models.Inventory) { i.CurrentStock-- })

	var fresh models.AppUser
	if err := s.client.Get(ctx, apiclient.Users, user.ID, &fresh); err != nil {
		logging.LogError("purchase", "Purchase", "refresh user balance", user.ID, err)
	} else {
		s.reg.Users.Patch(fresh.ID, func(u *models.AppUser) { *u = fresh })
	}

	dropped := Item{
		InventoryID: inv.ID,
		ProductID:   product.ID,
		Name:        product.Name,
		Price:       product.SellPrice,
		Stock:       inv.CurrentStock - 1,
	}
	s.mu.Lock()
	if fresh.ID != 0 {
		s.user = &fresh
	}
	s.finish(StatusSuccess, &dropped, "")
	s.mu.Unlock()
	s.notify(ctx, notice.LevelSuccess, msgSucceeded)
	return nil
}

// finish sets the outcome and schedules the return to idle. Callers hold mu.
func (s *Simulator) finish(status Status, dropped *Item, lastErr string) {
	s.cancelIdle()
	s.epoch++
	s.status = status
	s.dropped = dropped
	s.lastErr = lastErr

	epoch := s.epoch
	s.stopIdle = s.schedule(s.display, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return
		}
		s.status = StatusIdle
		s.dropped = nil
		s.lastErr = ""
		s.stopIdle = nil
	})
}

func (s *Simulator) cancelIdle() {
	if s.stopIdle != nil {
		s.stopIdle()
		s.stopIdle = nil
	}
}

func (s *Simulator) slot(machineID, productID int64) (models.Inventory, bool) {
	for _, inv := range s.reg.Inventories.Snapshot() {
		if inv.Machine == machineID && inv.Product == productID {
			return inv, true
		}
	}
	return models.Inventory{}, false
}

// State returns the current screen state
func (s *Simulator) State() State {
	s.mu.Lock()
	st := State{
		Status:    s.status,
		Dropped:   s.dropped,
		LastError: s.lastErr,
		Machines:  s.reg.Machines.Snapshot(),
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	machineID := s.machineID
	s.mu.Unlock()

	if m, ok := s.reg.Machines.Find(machineID); ok {
		st.Machine = &m
	}
	st.Items = s.items(machineID)
	return st
}

// items lists every product in server order with the selected machine's stock.
// A product the machine has no slot for shows stock 0 and no inventory id.
func (s *Simulator) items(machineID int64) []Item {
	items := []Item{}
	if machineID == 0 {
		return items
	}
	slots := map[int64]models.Inventory{}
	for _, inv := range s.reg.Inventories.Snapshot() {
		if inv.Machine == machineID {
			slots[inv.Product] = inv
		}
	}
	for _, p := range s.reg.Products.Snapshot() {
		item := Item{ProductID: p.ID, Name: p.Name, Price: p.SellPrice}
		if inv, ok := slots[p.ID]; ok {
			item.InventoryID = inv.ID
			item.Stock = inv.CurrentStock
		}
		items = append(items, item)
	}
	return items
}

func (s *Simulator) notify(ctx context.Context, level notice.Level, message string) {
	s.notifier.Notify(ctx, notice.New(level, resources.Transactions, noticeOperation, message))
}
