// Package queries contains the read side: list and detail views built with
// SQL directly on the database, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter narrows an order listing. Zero fields do not filter.
type OrderFilter struct {
	Statuses  []order.Status
	StoreID   int64
	UserID    int64
	CourierID int64
}

// ListOrdersQuery returns the newest orders first.
//
//	query, err := NewListOrdersQuery(OrderFilter{UserID: 7, Statuses: activeStatuses}, 10)
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	filter OrderFilter
	limit  int
	guard  guard.ConstructorGuard
}

// NewListOrdersQuery validates the filter. A zero limit means DefaultListLimit.
func NewListOrdersQuery(filter OrderFilter, limit int) (ListOrdersQuery, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}
	for _, s := range filter.Statuses {
		if err := s.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	if filter.StoreID < 0 || filter.UserID < 0 || filter.CourierID < 0 {
		return ListOrdersQuery{}, errs.NewValueIsInvalidError("filter")
	}

	return ListOrdersQuery{filter: filter, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() OrderFilter { return q.filter }

func (q ListOrdersQuery) Limit() int { return q.limit }

// OrderSummary is one row of an order listing.
type OrderSummary struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	ClientName  string          `json:"clientName"`
	ClientPhone string          `json:"clientPhone"`
	StoreID     int64           `json:"storeId"`
	StoreName   string          `json:"storeName"`
	Status      order.Status    `json:"status"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Currency    string          `json:"currency"`
	Address     string          `json:"address,omitempty"`
	Location    string          `json:"location,omitempty"`
	ReceiverID  *int64          `json:"receiverId,omitempty"`
	PickerID    *int64          `json:"pickerId,omitempty"`
	CourierID   *int64          `json:"courierId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
