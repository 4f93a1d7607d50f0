package resources

import (
	"vending-console/internal/apiclient"
	"vending-console/internal/collection"
	"vending-console/internal/models"
)

// Resource names
const (
	Machines     = "machines"
	Products     = "products"
	Inventories  = "inventories"
	Users        = "users"
	Suppliers    = "suppliers"
	Staffs       = "staffs"
	Transactions = "transactions"
	Restocks     = "restocks"
	Alerts       = "alerts"
)

// Names lists every resource in menu order
var Names = []string{Machines, Products, Inventories, Users, Suppliers, Staffs, Transactions, Restocks, Alerts}

// Labels are the display names used in fallback FK labels
var Labels = map[string]string{
	Machines:     "机器",
	Products:     "商品",
	Inventories:  "库存",
	Users:        "用户",
	Suppliers:    "供应商",
	Staffs:       "运维人员",
	Transactions: "交易",
	Restocks:     "补货",
	Alerts:       "告警",
}

func MachineSchema() collection.Schema[models.Machine] {
	return collection.Schema[models.Machine]{
		Name:     Machines,
		Label:    Labels[Machines],
		Endpoint: apiclient.Machines,
		Fields: []collection.Field{
			{Name: "machine_code", Label: "机器编号", Kind: collection.KindString, Rule: "required"},
			{Name: "location", Label: "位置", Kind: collection.KindString, Rule: "required"},
			{Name: "status", Label: "状态", Kind: collection.KindEnum, Rule: "oneof=normal fault", Default: models.MachineNormal,
				Options: []string{models.MachineNormal, models.MachineFault}},
			{Name: "region_code", Label: "区域代码", Kind: collection.KindString, Rule: "required"},
		},
		Search: []collection.SearchField[models.Machine]{
			{Name: "machine_code", Value: func(m models.Machine) string { return m.MachineCode }},
			{Name: "location", Value: func(m models.Machine) string { return m.Location }},
			{Name: "region_code", Value: func(m models.Machine) string { return m.RegionCode }},
		},
		Ops:      collection.CRUD,
		Messages: collection.DefaultMessages("获取机器列表失败"),
	}
}

func ProductSchema() collection.Schema[models.Product] {
	return collection.Schema[models.Product]{
		Name:     Products,
		Label:    Labels[Products],
		Endpoint: apiclient.Products,
		Fields: []collection.Field{
			{Name: "name", Label: "商品名称", Kind: collection.KindString, Rule: "required"},
			{Name: "cost_price", Label: "进价", Kind: collection.KindDecimal, Rule: "min=0"},
			{Name: "sell_price", Label: "售价", Kind: collection.KindDecimal, Rule: "min=0"},
			{Name: "supplier", Label: "供应商", Kind: collection.KindRef, Rule: "min=1", Ref: Suppliers},
		},
		Search: []collection.SearchField[models.Product]{
			{Name: "name", Value: func(p models.Product) string { return p.Name }},
			{Name: "supplier_name", Value: func(p models.Product) string { return p.SupplierName }},
		},
		Ops:      collection.CRUD,
		Messages: collection.DefaultMessages("获取数据失败"),
	}
}

func InventorySchema() collection.Schema[models.Inventory] {
	messages := collection.DefaultMessages("获取数据失败")
	messages.MutateFailed = "操作失败，可能该机器已存在该商品库存"
	return collection.Schema[models.Inventory]{
		Name:     Inventories,
		Label:    Labels[Inventories],
		Endpoint: apiclient.Inventories,
		Fields: []collection.Field{
			{Name: "machine", Label: "机器", Kind: collection.KindRef, Rule: "min=1", Ref: Machines},
			{Name: "product", Label: "商品", Kind: collection.KindRef, Rule: "min=1", Ref: Products},
			{Name: "current_stock", Label: "当前库存", Kind: collection.KindInt, Rule: "min=0"},
			{Name: "max_capacity", Label: "最大容量", Kind: collection.KindInt, Rule: "min=1"},
		},
		Search: []collection.SearchField[models.Inventory]{
			{Name: "machine_code", Value: func(i models.Inventory) string { return i.MachineCode }},
			{Name: "product_name", Value: func(i models.Inventory) string { return i.ProductName }},
		},
		Ops:      collection.CRUD,
		Messages: messages,
	}
}

func UserSchema() collection.Schema[models.AppUser] {
	return collection.Schema[models.AppUser]{
		Name:     Users,
		Label:    Labels[Users],
		Endpoint: apiclient.Users,
		Fields: []collection.Field{
			{Name: "username", Label: "用户名", Kind: collection.KindString, Rule: "required"},
			{Name: "balance", Label: "余额", Kind: collection.KindDecimal, Rule: "min=0"},
		},
		Search: []collection.SearchField[models.AppUser]{
			{Name: "username", Value: func(u models.AppUser) string { return u.Username }},
		},
		Ops:      collection.CRUD,
		Messages: collection.DefaultMessages("获取用户列表失败"),
	}
}

func SupplierSchema() collection.Schema[models.Supplier] {
	return collection.Schema[models.Supplier]{
		Name:     Suppliers,
		Label:    Labels[Suppliers],
		Endpoint: apiclient.Suppliers,
		Fields: []collection.Field{
			{Name: "name", Label: "名称", Kind: collection.KindString, Rule: "required"},
			{Name: "contact", Label: "联系方式", Kind: collection.KindString, Rule: "required"},
		},
		Search: []collection.SearchField[models.Supplier]{
			{Name: "name", Value: func(s models.Supplier) string { return s.Name }},
			{Name: "contact", Value: func(s models.Supplier) string { return s.Contact }},
		},
		Ops:      collection.CRUD,
		Messages: collection.DefaultMessages("获取供应商列表失败"),
	}
}

func StaffSchema() collection.Schema[models.Staff] {
	return collection.Schema[models.Staff]{
		Name:     Staffs,
		Label:    Labels[Staffs],
		Endpoint: apiclient.Staffs,
		Fields: []collection.Field{
			{Name: "staff_id", Label: "工号", Kind: collection.KindString, Rule: "required"},
			{Name: "name", Label: "姓名", Kind: collection.KindString, Rule: "required"},
			{Name: "phone", Label: "电话", Kind: collection.KindString, Rule: "required"},
			{Name: "region_code", Label: "负责区域", Kind: collection.KindString, Rule: "required"},
		},
		Search: []collection.SearchField[models.Staff]{
			{Name: "staff_id", Value: func(s models.Staff) string { return s.StaffID }},
			{Name: "name", Value: func(s models.Staff) string { return s.Name }},
			// phone numbers are matched as typed
			{Name: "phone", CaseSensitive: true, Value: func(s models.Staff) string { return s.Phone }},
			{Name: "region_code", Value: func(s models.Staff) string { return s.RegionCode }},
		},
		Ops:      collection.CRUD,
		Messages: collection.DefaultMessages("获取运维人员列表失败"),
	}
}

func TransactionSchema() collection.Schema[models.Transaction] {
	return collection.Schema[models.Transaction]{
		Name:     Transactions,
		Label:    Labels[Transactions],
		Endpoint: apiclient.Transactions,
		Fields: []collection.Field{
			{Name: "user", Label: "用户", Kind: collection.KindRef, Rule: "min=1", Ref: Users},
			{Name: "machine", Label: "机器", Kind: collection.KindRef, Rule: "min=1", Ref: Machines},
			{Name: "product", Label: "商品", Kind: collection.KindRef, Rule: "min=1", Ref: Products},
			{Name: "amount", Label: "金额", Kind: collection.KindDecimal, Rule: "min=0"},
		},
		Search: []collection.SearchField[models.Transaction]{
			{Name: "user_name", Value: func(t models.Transaction) string { return t.UserName }},
			{Name: "machine_code", Value: func(t models.Transaction) string { return t.MachineCode }},
			{Name: "product_name", Value: func(t models.Transaction) string { return t.ProductName }},
		},
		Ops:      collection.ListCreate,
		Messages: collection.DefaultMessages("获取交易记录失败"),
	}
}

func RestockSchema() collection.Schema[models.Restock] {
	messages := collection.DefaultMessages("获取数据失败")
	messages.Created = "补货记录创建成功"
	messages.MutateFailed = "创建失败"
	return collection.Schema[models.Restock]{
		Name:     Restocks,
		Label:    Labels[Restocks],
		Endpoint: apiclient.Restocks,
		Fields: []collection.Field{
			{Name: "staff", Label: "运维人员", Kind: collection.KindRef, Rule: "min=1", Ref: Staffs},
			{Name: "machine", Label: "机器", Kind: collection.KindRef, Rule: "min=1", Ref: Machines},
			{Name: "product", Label: "商品", Kind: collection.KindRef, Rule: "min=1", Ref: Products},
			{Name: "quantity", Label: "数量", Kind: collection.KindInt, Rule: "min=1"},
		},
		Search: []collection.SearchField[models.Restock]{
			{Name: "staff_name", Value: func(r models.Restock) string { return r.StaffName }},
			{Name: "machine_code", Value: func(r models.Restock) string { return r.MachineCode }},
			{Name: "product_name", Value: func(r models.Restock) string { return r.ProductName }},
		},
		Ops:      collection.ListCreate,
		Messages: messages,
	}
}

func AlertSchema() collection.Schema[models.Alert] {
	return collection.Schema[models.Alert]{
		Name:     Alerts,
		Label:    Labels[Alerts],
		Endpoint: apiclient.Alerts,
		Search: []collection.SearchField[models.Alert]{
			{Name: "message", Value: func(a models.Alert) string { return a.Message }},
			{Name: "alert_type", Value: func(a models.Alert) string { return a.AlertType }},
		},
		Ops:      collection.ReadOnly,
		Messages: collection.Messages{LoadFailed: "获取告警列表失败"},
	}
}
