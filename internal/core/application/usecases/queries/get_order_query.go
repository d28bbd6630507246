package queries

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

type GetOrderQuery struct {
	orderID int64
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID int64) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() int64 { return q.orderID }

// OrderDetails is an order with its frozen items and full status history.
type OrderDetails struct {
	OrderSummary
	Items   []OrderItem    `json:"items"`
	History []HistoryEntry `json:"statusHistory"`
}

type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ProductCode string          `json:"productCode,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Currency    string          `json:"currency"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type HistoryEntry struct {
	Status       order.Status `json:"status"`
	Timestamp    time.Time    `json:"timestamp"`
	ActingUserID int64        `json:"actingUserId"`
	Note         string       `json:"note,omitempty"`
}
