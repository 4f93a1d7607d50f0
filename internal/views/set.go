package views

import (
	"math"
	"time"

	"vending-console/internal/joins"
	"vending-console/internal/models"
	"vending-console/internal/resources"
)

// Inventory row status values
const (
	StatusActive    = "active"
	StatusException = "exception"
)

const timeLayout = "2006-01-02 15:04:05"

// Set holds a Table per resource
type Set struct {
	tables map[string]Table
}

// Get returns the table of a resource
func (s *Set) Get(name string) (Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// NewSet builds the tables over reg. Inventory rows below lowStock are flagged.
func NewSet(reg *resources.Registry, lowStock int) *Set {
	sibs := map[string]joins.Sibling{
		resources.Machines:  joins.From(resources.Labels[resources.Machines], reg.Machines, func(m models.Machine) string { return m.MachineCode }),
		resources.Products:  joins.From(resources.Labels[resources.Products], reg.Products, func(p models.Product) string { return p.Name }),
		resources.Users:     joins.From(resources.Labels[resources.Users], reg.Users, func(u models.AppUser) string { return u.Username }),
		resources.Suppliers: joins.From(resources.Labels[resources.Suppliers], reg.Suppliers, func(s models.Supplier) string { return s.Name }),
		resources.Staffs:    joins.From(resources.Labels[resources.Staffs], reg.Staffs, func(s models.Staff) string { return s.Name }),
	}
	pick := func(names ...string) map[string]joins.Sibling {
		out := make(map[string]joins.Sibling, len(names))
		for _, n := range names {
			out[n] = sibs[n]
		}
		return out
	}

	tables := map[string]Table{
		resources.Machines: &table[models.Machine]{
			vm: reg.Machines,
			columns: []Column[models.Machine]{
				{"ID", func(m models.Machine, _ Row) any { return m.ID }},
				{"机器编号", func(m models.Machine, _ Row) any { return m.MachineCode }},
				{"位置", func(m models.Machine, _ Row) any { return m.Location }},
				{"状态", func(_ models.Machine, r Row) any { return r.StatusText }},
				{"区域代码", func(m models.Machine, _ Row) any { return m.RegionCode }},
			},
			decorate: func(m models.Machine, r *Row) {
				r.Status = m.Status
				r.StatusText = MachineStatusText(m.Status)
			},
		},
		resources.Products: &table[models.Product]{
			vm:       reg.Products,
			siblings: []loader{reg.Suppliers},
			joins:    pick(resources.Suppliers),
			fks: []FK[models.Product]{
				{Column: "supplier", Resource: resources.Suppliers,
					ID: func(p models.Product) int64 { return p.Supplier }, Server: func(p models.Product) string { return p.SupplierName }},
			},
			columns: []Column[models.Product]{
				{"ID", func(p models.Product, _ Row) any { return p.ID }},
				{"商品名称", func(p models.Product, _ Row) any { return p.Name }},
				{"进价", func(p models.Product, _ Row) any { return p.CostPrice.StringFixed(2) }},
				{"售价", func(p models.Product, _ Row) any { return p.SellPrice.StringFixed(2) }},
				{"供应商", func(_ models.Product, r Row) any { return r.Labels["supplier"] }},
			},
		},
		resources.Inventories: &table[models.Inventory]{
			vm:       reg.Inventories,
			siblings: []loader{reg.Machines, reg.Products},
			joins:    pick(resources.Machines, resources.Products),
			fks: []FK[models.Inventory]{
				{Column: "machine", Resource: resources.Machines,
					ID: func(i models.Inventory) int64 { return i.Machine }, Server: func(i models.Inventory) string { return i.MachineCode }},
				{Column: "product", Resource: resources.Products,
					ID: func(i models.Inventory) int64 { return i.Product }, Server: func(i models.Inventory) string { return i.ProductName }},
			},
			columns: []Column[models.Inventory]{
				{"ID", func(i models.Inventory, _ Row) any { return i.ID }},
				{"机器", func(_ models.Inventory, r Row) any { return r.Labels["machine"] }},
				{"商品", func(_ models.Inventory, r Row) any { return r.Labels["product"] }},
				{"当前库存", func(i models.Inventory, _ Row) any { return i.CurrentStock }},
				{"最大容量", func(i models.Inventory, _ Row) any { return i.MaxCapacity }},
				{"库存比例", func(_ models.Inventory, r Row) any { return *r.Percent }},
			},
			decorate: func(i models.Inventory, r *Row) {
				percent := StockPercent(i.CurrentStock, i.MaxCapacity)
				r.Percent = &percent
				r.LowStock = i.CurrentStock < lowStock
				r.Status = StatusActive
				if r.LowStock {
					r.Status = StatusException
				}
			},
		},
		resources.Users: &table[models.AppUser]{
			vm: reg.Users,
			columns: []Column[models.AppUser]{
				{"ID", func(u models.AppUser, _ Row) any { return u.ID }},
				{"用户名", func(u models.AppUser, _ Row) any { return u.Username }},
				{"余额", func(u models.AppUser, _ Row) any { return u.Balance.StringFixed(2) }},
				{"创建时间", func(u models.AppUser, _ Row) any { return formatTime(u.CreatedAt) }},
			},
		},
		resources.Suppliers: &table[models.Supplier]{
			vm: reg.Suppliers,
			columns: []Column[models.Supplier]{
				{"ID", func(s models.Supplier, _ Row) any { return s.ID }},
				{"名称", func(s models.Supplier, _ Row) any { return s.Name }},
				{"联系方式", func(s models.Supplier, _ Row) any { return s.Contact }},
				{"创建时间", func(s models.Supplier, _ Row) any { return formatTime(s.CreatedAt) }},
			},
		},
		resources.Staffs: &table[models.Staff]{
			vm: reg.Staffs,
			columns: []Column[models.Staff]{
				{"ID", func(s models.Staff, _ Row) any { return s.ID }},
				{"工号", func(s models.Staff, _ Row) any { return s.StaffID }},
				{"姓名", func(s models.Staff, _ Row) any { return s.Name }},
				{"电话", func(s models.Staff, _ Row) any { return s.Phone }},
				{"负责区域", func(s models.Staff, _ Row) any { return s.RegionCode }},
			},
		},
		resources.Transactions: &table[models.Transaction]{
			vm:       reg.Transactions,
			siblings: []loader{reg.Users, reg.Machines, reg.Products},
			joins:    pick(resources.Users, resources.Machines, resources.Products),
			fks: []FK[models.Transaction]{
				{Column: "user", Resource: resources.Users,
					ID: func(t models.Transaction) int64 { return t.User }, Server: func(t models.Transaction) string { return t.UserName }},
				{Column: "machine", Resource: resources.Machines,
					ID: func(t models.Transaction) int64 { return t.Machine }, Server: func(t models.Transaction) string { return t.MachineCode }},
				{Column: "product", Resource: resources.Products,
					ID: func(t models.Transaction) int64 { return t.Product }, Server: func(t models.Transaction) string { return t.ProductName }},
			},
			columns: []Column[models.Transaction]{
				{"ID", func(t models.Transaction, _ Row) any { return t.ID }},
				{"用户", func(_ models.Transaction, r Row) any { return r.Labels["user"] }},
				{"机器", func(_ models.Transaction, r Row) any { return r.Labels["machine"] }},
				{"商品", func(_ models.Transaction, r Row) any { return r.Labels["product"] }},
				{"金额", func(t models.Transaction, _ Row) any { return t.Amount.StringFixed(2) }},
				{"交易时间", func(t models.Transaction, _ Row) any { return formatTime(t.CreatedAt) }},
			},
		},
		resources.Restocks: &table[models.Restock]{
			vm:       reg.Restocks,
			siblings: []loader{reg.Staffs, reg.Machines, reg.Products},
			joins:    pick(resources.Staffs, resources.Machines, resources.Products),
			fks: []FK[models.Restock]{
				{Column: "staff", Resource: resources.Staffs,
					ID: func(r models.Restock) int64 { return r.Staff }, Server: func(r models.Restock) string { return r.StaffName }},
				{Column: "machine", Resource: resources.Machines,
					ID: func(r models.Restock) int64 { return r.Machine }, Server: func(r models.Restock) string { return r.MachineCode }},
				{Column: "product", Resource: resources.Products,
					ID: func(r models.Restock) int64 { return r.Product }, Server: func(r models.Restock) string { return r.ProductName }},
			},
			columns: []Column[models.Restock]{
				{"ID", func(r models.Restock, _ Row) any { return r.ID }},
				{"运维人员", func(_ models.Restock, r Row) any { return r.Labels["staff"] }},
				{"机器", func(_ models.Restock, r Row) any { return r.Labels["machine"] }},
				{"商品", func(_ models.Restock, r Row) any { return r.Labels["product"] }},
				{"数量", func(r models.Restock, _ Row) any { return r.Quantity }},
				{"补货时间", func(r models.Restock, _ Row) any { return formatTime(r.CreatedAt) }},
			},
		},
		resources.Alerts: &table[models.Alert]{
			vm:       reg.Alerts,
			siblings: []loader{reg.Machines},
			joins:    pick(resources.Machines),
			fks: []FK[models.Alert]{
				{Column: "machine", Resource: resources.Machines, ID: func(a models.Alert) int64 { return a.Machine }},
			},
			columns: []Column[models.Alert]{
				{"ID", func(a models.Alert, _ Row) any { return a.ID }},
				{"机器", func(_ models.Alert, r Row) any { return r.Labels["machine"] }},
				{"类型", func(a models.Alert, _ Row) any { return a.AlertType }},
				{"内容", func(a models.Alert, _ Row) any { return a.Message }},
				{"时间", func(a models.Alert, _ Row) any { return formatTime(a.CreatedAt) }},
			},
		},
	}
	return &Set{tables: tables}
}

// StockPercent is current/capacity as a rounded percentage, 0 when capacity is not positive
func StockPercent(current, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(capacity) * 100))
}

// MachineStatusText localizes a machine status
func MachineStatusText(status string) string {
	if status == models.MachineNormal {
		return "正常"
	}
	return "故障"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
