// Package catalog holds the read-only view of stores and priced inventory
// that order creation snapshots from.
package catalog

import "github.com/shopspring/decimal"

type Store struct {
	ID      int64
	Name    string
	Address string
}

// InventorySnapshot is a product as carried by one store at one moment.
type InventorySnapshot struct {
	ProductID   int64
	StoreID     int64
	ProductName string
	ProductCode string
	UnitPrice   decimal.Decimal
	Currency    string
}
