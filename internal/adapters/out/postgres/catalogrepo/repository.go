package catalogrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/pkg/errs"
)

// GormCatalogRepository implements ports.CatalogRepository.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

type snapshotRow struct {
	ProductID   int64
	StoreID     int64
	ProductName string
	ProductCode string
	Price       decimal.Decimal
	Currency    string
}

func (r *GormCatalogRepository) InventorySnapshot(
	ctx context.Context,
	productID, storeID int64,
) (catalog.InventorySnapshot, error) {
	var row snapshotRow
	result := r.db.WithContext(ctx).Raw(`
		SELECT
			i.product_id,
			i.store_id,
			p.name AS product_name,
			p.code AS product_code,
			i.price,
			i.currency
		FROM product_inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.product_id = ? AND i.store_id = ?
	`, productID, storeID).Scan(&row)
	if result.Error != nil {
		return catalog.InventorySnapshot{}, result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.InventorySnapshot{}, errs.NewObjectNotFoundError("inventory",
			fmt.Sprintf("product %d in store %d", productID, storeID))
	}

	return catalog.InventorySnapshot{
		ProductID:   row.ProductID,
		StoreID:     row.StoreID,
		ProductName: row.ProductName,
		ProductCode: row.ProductCode,
		UnitPrice:   row.Price,
		Currency:    row.Currency,
	}, nil
}

func (r *GormCatalogRepository) Store(ctx context.Context, id int64) (catalog.Store, error) {
	var dto StoreDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Store{}, errs.NewObjectNotFoundError("store", id)
		}
		return catalog.Store{}, err
	}
	return catalog.Store{ID: dto.ID, Name: dto.Name, Address: dto.Address}, nil
}
