package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Machine status values
const (
	MachineNormal = "normal"
	MachineFault  = "fault"
)

// Alert types raised by the upstream triggers
const (
	AlertLowStock = "low_stock"
	AlertFault    = "fault"
)

// Machine represents a vending machine (machines/)
type Machine struct {
	ID          int64     `json:"id"`
	MachineCode string    `json:"machine_code"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	RegionCode  string    `json:"region_code"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m Machine) RecordID() int64 { return m.ID }

// Product represents a sellable product (products/)
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	Supplier     int64           `json:"supplier"`
	SupplierName string          `json:"supplier_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (p Product) RecordID() int64 { return p.ID }

// Inventory is the stock of one product in one machine (inventories/)
type Inventory struct {
	ID           int64  `json:"id"`
	Machine      int64  `json:"machine"`
	MachineCode  string `json:"machine_code,omitempty"`
	Product      int64  `json:"product"`
	ProductName  string `json:"product_name,omitempty"`
	CurrentStock int    `json:"current_stock"`
	MaxCapacity  int    `json:"max_capacity"`
}

func (i Inventory) RecordID() int64 { return i.ID }

// AppUser is a purchasing end user (app-users/)
type AppUser struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

func (u AppUser) RecordID() int64 { return u.ID }

// Supplier provides products (suppliers/)
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Supplier) RecordID() int64 { return s.ID }

// Staff is a field operator responsible for a region (sys-staffs/)
type Staff struct {
	ID         int64     `json:"id"`
	StaffID    string    `json:"staff_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	RegionCode string    `json:"region_code"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s Staff) RecordID() int64 { return s.ID }

// Transaction is one purchase (transactions/)
type Transaction struct {
	ID          int64           `json:"id"`
	User        int64           `json:"user"`
	UserName    string          `json:"user_name,omitempty"`
	Machine     int64           `json:"machine"`
	MachineCode string          `json:"machine_code,omitempty"`
	Product     int64           `json:"product"`
	ProductName string          `json:"product_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (t Transaction) RecordID() int64 { return t.ID }

// Restock is one refill event performed by a staff member (restocks/)
type Restock struct {
	ID          int64           `json:"id"`
	Staff       int64           `json:"staff"`
	StaffName   string          `json:"staff_name,omitempty"`
	Machine     int64           `json:"machine"`
	MachineCode string          `json:"machine_code,omitempty"`
	Product     int64           `json:"product"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (r Restock) RecordID() int64 { return r.ID }

// Alert is a machine alert written by the upstream (alerts/)
type Alert struct {
	ID        int64     `json:"id"`
	Machine   int64     `json:"machine"`
	AlertType string    `json:"alert_type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Alert) RecordID() int64 { return a.ID }
