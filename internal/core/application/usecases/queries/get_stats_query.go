package queries

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetStatsQueryIsNotConstructed = errors.New(
	"GetStatsQuery must be created via NewGetStatsQuery constructor",
)

// GetStatsQuery counts orders, either system-wide or for one client.
type GetStatsQuery struct {
	userID int64
	guard  guard.ConstructorGuard
}

// NewGetStatsQuery builds the system-wide query used by the admin channel.
func NewGetStatsQuery() GetStatsQuery {
	return GetStatsQuery{guard: guard.NewConstructorGuard()}
}

// NewGetClientStatsQuery restricts the counts to one client's orders.
func NewGetClientStatsQuery(userID int64) (GetStatsQuery, error) {
	if userID <= 0 {
		return GetStatsQuery{}, errs.NewValueIsRequiredError("userId")
	}
	return GetStatsQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatsQueryIsNotConstructed)
}

func (q GetStatsQuery) UserID() int64 { return q.userID }

// Stats holds order counters. Clients, Products and Stores are only filled
// for the system-wide query.
type Stats struct {
	TotalOrders     int64 `json:"totalOrders"`
	PendingOrders   int64 `json:"pendingOrders"`
	ActiveOrders    int64 `json:"activeOrders"`
	CompletedOrders int64 `json:"completedOrders"`
	CancelledOrders int64 `json:"cancelledOrders"`
	Clients         int64 `json:"clients,omitempty"`
	Products        int64 `json:"products,omitempty"`
	Stores          int64 `json:"stores,omitempty"`
}
