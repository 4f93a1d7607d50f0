package dashboard

import (
	"context"
	"time"

	"vending-console/internal/models"
	"vending-console/internal/resources"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Summary is the set of overview figures
type Summary struct {
	TotalMachines  int             `json:"total_machines"`
	ActiveMachines int             `json:"active_machines"`
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	LowStockCount  int             `json:"low_stock_count"`
	ProductCount   int             `json:"product_count"`
	UserCount      int             `json:"user_count"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Dashboard computes the overview from the shared view-models
type Dashboard struct {
	reg      *resources.Registry
	lowStock int
	loc      *time.Location
	now      func() time.Time
}

// New creates a dashboard. Revenue days are counted in loc.
func New(reg *resources.Registry, lowStock int, loc *time.Location) *Dashboard {
	if loc == nil {
		loc = time.Local
	}
	return &Dashboard{reg: reg, lowStock: lowStock, loc: loc, now: time.Now}
}

// Load fetches the five collections concurrently. Any failure fails the whole summary.
func (d *Dashboard) Load(ctx context.Context) (Summary, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.reg.Machines.Load(gctx) })
	g.Go(func() error { return d.reg.Products.Load(gctx) })
	g.Go(func() error { return d.reg.Users.Load(gctx) })
	g.Go(func() error { return d.reg.Inventories.Load(gctx) })
	g.Go(func() error { return d.reg.Transactions.Load(gctx) })
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return Compute(Input{
		Machines:     d.reg.Machines.Snapshot(),
		Products:     d.reg.Products.Snapshot(),
		Users:        d.reg.Users.Snapshot(),
		Inventories:  d.reg.Inventories.Snapshot(),
		Transactions: d.reg.Transactions.Snapshot(),
	}, d.now().In(d.loc), d.lowStock), nil
}

// Input holds the collections a summary is derived from
type Input struct {
	Machines     []models.Machine
	Products     []models.Product
	Users        []models.AppUser
	Inventories  []models.Inventory
	Transactions []models.Transaction
}

// Compute derives the summary. now carries the time zone that defines today.
func Compute(in Input, now time.Time, lowStock int) Summary {
	s := Summary{
		TotalMachines: len(in.Machines),
		ProductCount:  len(in.Products),
		UserCount:     len(in.Users),
		TodayRevenue:  decimal.Zero,
		GeneratedAt:   now,
	}
	for _, m := range in.Machines {
		if m.Status == models.MachineNormal {
			s.ActiveMachines++
		}
	}
	for _, inv := range in.Inventories {
		if inv.CurrentStock < lowStock {
			s.LowStockCount++
		}
	}

	y, m, day := now.Date()
	for _, tx := range in.Transactions {
		ty, tm, td := tx.CreatedAt.In(now.Location()).Date()
		if ty == y && tm == m && td == day {
			s.TodayRevenue = s.TodayRevenue.Add(tx.Amount)
		}
	}
	return s
}
