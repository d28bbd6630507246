package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/userrepo"
)

// Models lists every table owned by the service, in creation order.
func Models() []any {
	return []any{
		&userrepo.UserDTO{},
		&catalogrepo.StoreDTO{},
		&catalogrepo.ProductDTO{},
		&catalogrepo.InventoryDTO{},
		&orderrepo.OrderDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
