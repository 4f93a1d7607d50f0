package resources

import (
	"vending-console/internal/collection"
	"vending-console/internal/models"
	"vending-console/internal/notice"
)

// Registry owns one view-model per resource, all sharing a client and notifier
type Registry struct {
	Machines     *collection.ViewModel[models.Machine]
	Products     *collection.ViewModel[models.Product]
	Inventories  *collection.ViewModel[models.Inventory]
	Users        *collection.ViewModel[models.AppUser]
	Suppliers    *collection.ViewModel[models.Supplier]
	Staffs       *collection.ViewModel[models.Staff]
	Transactions *collection.ViewModel[models.Transaction]
	Restocks     *collection.ViewModel[models.Restock]
	Alerts       *collection.ViewModel[models.Alert]
}

// NewRegistry builds every view-model
func NewRegistry(client collection.Client, notifier notice.Notifier) *Registry {
	return &Registry{
		Machines:     collection.New(MachineSchema(), client, notifier),
		Products:     collection.New(ProductSchema(), client, notifier),
		Inventories:  collection.New(InventorySchema(), client, notifier),
		Users:        collection.New(UserSchema(), client, notifier),
		Suppliers:    collection.New(SupplierSchema(), client, notifier),
		Staffs:       collection.New(StaffSchema(), client, notifier),
		Transactions: collection.New(TransactionSchema(), client, notifier),
		Restocks:     collection.New(RestockSchema(), client, notifier),
		Alerts:       collection.New(AlertSchema(), client, notifier),
	}
}

// Descriptors describes every resource in menu order
func (r *Registry) Descriptors() []collection.Descriptor {
	return []collection.Descriptor{
		r.Machines.Schema().Descriptor(),
		r.Products.Schema().Descriptor(),
		r.Inventories.Schema().Descriptor(),
		r.Users.Schema().Descriptor(),
		r.Suppliers.Schema().Descriptor(),
		r.Staffs.Schema().Descriptor(),
		r.Transactions.Schema().Descriptor(),
		r.Restocks.Schema().Descriptor(),
		r.Alerts.Schema().Descriptor(),
	}
}
