package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// storedItem and storedHistory mirror the JSON written by the order repository.
type storedItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type storedHistory struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	ActingUserID int64     `json:"acting_user_id"`
	Note         string    `json:"note"`
}

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return OrderDetails{}, err
	}

	var rows []orderRow
	err := orderBase(h.db.WithContext(ctx)).
		Where("o.id = ?", query.OrderID()).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return OrderDetails{}, err
	}
	if len(rows) == 0 {
		return OrderDetails{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	row := rows[0]

	summary, err := row.summary()
	if err != nil {
		return OrderDetails{}, err
	}

	var items []storedItem
	if err := json.Unmarshal([]byte(row.Items), &items); err != nil {
		return OrderDetails{}, fmt.Errorf("decode items of order %d: %w", row.ID, err)
	}
	var history []storedHistory
	if err := json.Unmarshal([]byte(row.StatusHistory), &history); err != nil {
		return OrderDetails{}, fmt.Errorf("decode history of order %d: %w", row.ID, err)
	}

	details := OrderDetails{
		OrderSummary: summary,
		Items:        make([]OrderItem, 0, len(items)),
		History:      make([]HistoryEntry, 0, len(history)),
	}
	for _, i := range items {
		details.Items = append(details.Items, OrderItem(i))
	}
	for _, h := range history {
		status, err := order.ParseStatus(h.Status)
		if err != nil {
			return OrderDetails{}, err
		}
		details.History = append(details.History, HistoryEntry{
			Status:       status,
			Timestamp:    h.Timestamp,
			ActingUserID: h.ActingUserID,
			Note:         h.Note,
		})
	}
	return details, nil
}
