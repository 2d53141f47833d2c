package models

// Category groups the query terms a run searches for.
type Category string

const (
	CategoryFinance    Category = "finance"
	CategoryBAIS       Category = "bais"
	CategoryAccounting Category = "accounting"
)

// Categories lists every category in run order. Aggregation concatenates
// category tables in this order.
var Categories = []Category{CategoryFinance, CategoryBAIS, CategoryAccounting}

// Label returns the human readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryFinance:
		return "Finance"
	case CategoryBAIS:
		return "Business Analytics & Information Systems"
	case CategoryAccounting:
		return "Accounting"
	default:
		return string(c)
	}
}
