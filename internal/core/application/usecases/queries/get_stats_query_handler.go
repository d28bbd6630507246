package queries

import (
	"context"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

type GetStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetStatsQueryHandler(db *gorm.DB) GetStatsQueryHandler {
	return GetStatsQueryHandler{db: db}
}

func (h GetStatsQueryHandler) Handle(ctx context.Context, query GetStatsQuery) (Stats, error) {
	if err := query.Validate(); err != nil {
		return Stats{}, err
	}

	db := h.db.WithContext(ctx)
	var stats Stats

	where, args := "1 = 1", []any{}
	if query.UserID() > 0 {
		where, args = "user_id = ?", []any{query.UserID()}
	}

	err := db.Raw(`
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders,
			COALESCE(SUM(CASE WHEN status NOT IN (?, ?) THEN 1 ELSE 0 END), 0) AS active_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_orders
		FROM orders
		WHERE `+where,
		append([]any{
			order.Pending.String(),
			order.Completed.String(), order.Cancelled.String(),
			order.Completed.String(),
			order.Cancelled.String(),
		}, args...)...,
	).Scan(&stats).Error
	if err != nil {
		return Stats{}, err
	}

	if query.UserID() > 0 {
		return stats, nil
	}

	counts := []struct {
		dst   *int64
		table string
		where string
		args  []any
	}{
		{&stats.Clients, "users", "role = ?", []any{kernel.RoleClient.String()}},
		{&stats.Products, "products", "1 = 1", nil},
		{&stats.Stores, "stores", "1 = 1", nil},
	}
	for _, c := range counts {
		if err := db.Table(c.table).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return Stats{}, err
		}
	}
	return stats, nil
}
