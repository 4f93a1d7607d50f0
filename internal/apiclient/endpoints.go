package apiclient

import "fmt"

// Upstream resource endpoints, relative to the base URL
const (
	Machines     = "machines/"
	Products     = "products/"
	Inventories  = "inventories/"
	Transactions = "transactions/"
	Restocks     = "restocks/"
	Suppliers    = "suppliers/"
	Users        = "app-users/"
	Staffs       = "sys-staffs/"
	Alerts       = "alerts/"
	StatDaily    = "stat-daily/"

	StatSummary  = StatDaily + "summary/"
	StatGenerate = StatDaily + "generate/"
)

// ItemPath returns the id-suffixed path of a single record
func ItemPath(endpoint string, id int64) string {
	return fmt.Sprintf("%s%d/", endpoint, id)
}
