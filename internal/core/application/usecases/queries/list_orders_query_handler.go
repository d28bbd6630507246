package queries

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/order"
)

// orderRow is shared by the list and detail queries.
type orderRow struct {
	ID            int64
	UserID        int64
	ClientName    *string
	ClientPhone   *string
	StoreID       int64
	StoreName     *string
	Status        string
	TotalPrice    decimal.Decimal
	Currency      string
	Address       string
	LocationLat   *float64
	LocationLon   *float64
	ReceiverID    *int64
	PickerID      *int64
	CourierID     *int64
	Items         string
	StatusHistory string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const orderColumns = `
	o.id,
	o.user_id,
	u.name AS client_name,
	u.phone AS client_phone,
	o.store_id,
	s.name AS store_name,
	o.status,
	o.total_price,
	o.currency,
	o.address,
	o.location_lat,
	o.location_lon,
	o.receiver_id,
	o.picker_id,
	o.courier_id,
	o.items,
	o.status_history,
	o.created_at,
	o.updated_at`

func orderBase(db *gorm.DB) *gorm.DB {
	return db.Table("orders AS o").
		Select(orderColumns).
		Joins("LEFT JOIN users u ON u.id = o.user_id").
		Joins("LEFT JOIN stores s ON s.id = o.store_id")
}

func (r orderRow) summary() (OrderSummary, error) {
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return OrderSummary{}, err
	}

	s := OrderSummary{
		ID:         r.ID,
		UserID:     r.UserID,
		StoreID:    r.StoreID,
		Status:     status,
		TotalPrice: r.TotalPrice,
		Currency:   r.Currency,
		Address:    r.Address,
		ReceiverID: r.ReceiverID,
		PickerID:   r.PickerID,
		CourierID:  r.CourierID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.ClientName != nil {
		s.ClientName = *r.ClientName
	}
	if r.ClientPhone != nil {
		s.ClientPhone = *r.ClientPhone
	}
	if r.StoreName != nil {
		s.StoreName = *r.StoreName
	}
	if r.LocationLat != nil && r.LocationLon != nil {
		s.Location = strconv.FormatFloat(*r.LocationLat, 'f', -1, 64) + "," +
			strconv.FormatFloat(*r.LocationLon, 'f', -1, 64)
	}
	return s, nil
}

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	f := query.Filter()
	tx := orderBase(h.db.WithContext(ctx))
	if len(f.Statuses) > 0 {
		names := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			names = append(names, s.String())
		}
		tx = tx.Where("o.status IN ?", names)
	}
	if f.StoreID > 0 {
		tx = tx.Where("o.store_id = ?", f.StoreID)
	}
	if f.UserID > 0 {
		tx = tx.Where("o.user_id = ?", f.UserID)
	}
	if f.CourierID > 0 {
		tx = tx.Where("o.courier_id = ?", f.CourierID)
	}

	var rows []orderRow
	if err := tx.Order("o.created_at DESC, o.id DESC").Limit(query.Limit()).Scan(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		s, err := row.summary()
		if err != nil {
			return nil, err
		}
		orders = append(orders, s)
	}
	return orders, nil
}
