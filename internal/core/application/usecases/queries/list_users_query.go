package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrListUsersQueryIsNotConstructed = errors.New(
	"ListUsersQuery must be created via NewListUsersQuery constructor",
)

// ListUsersQuery lists accounts, optionally only those holding role.
type ListUsersQuery struct {
	role  kernel.Role
	guard guard.ConstructorGuard
}

// NewListUsersQuery with RoleUnset lists every account.
func NewListUsersQuery(role kernel.Role) ListUsersQuery {
	return ListUsersQuery{role: role, guard: guard.NewConstructorGuard()}
}

func (q ListUsersQuery) Validate() error {
	return q.guard.Validate(ErrListUsersQueryIsNotConstructed)
}

func (q ListUsersQuery) Role() kernel.Role { return q.role }

type UserSummary struct {
	ID         int64       `json:"id"`
	TelegramID int64       `json:"telegramId"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone,omitempty"`
	Role       kernel.Role `json:"role"`
	CreatedAt  time.Time   `json:"createdAt"`
}
