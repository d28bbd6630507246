// Package catalogrepo reads stores and the per-store product inventory. The
// catalog is maintained outside this service; it is only ever read here.
package catalogrepo

import "github.com/shopspring/decimal"

type StoreDTO struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"size:255;not null"`
	Address string `gorm:"type:text"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

type ProductDTO struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:255;not null"`
	Code string `gorm:"size:64;index"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// InventoryDTO is a product as carried by one store, at that store's price.
type InventoryDTO struct {
	ProductID int64           `gorm:"primaryKey;autoIncrement:false"`
	StoreID   int64           `gorm:"primaryKey;autoIncrement:false"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency  string          `gorm:"size:8;not null;default:SUM"`
}

func (InventoryDTO) TableName() string {
	return "product_inventories"
}
