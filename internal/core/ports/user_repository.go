package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/user"
)

type UserRepository interface {
	Add(ctx context.Context, aggregate *user.User) error
	Update(ctx context.Context, aggregate *user.User) error
	Get(ctx context.Context, id int64) (*user.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error)
}

// RecipientDirectory answers "who holds these roles" for broadcasts.
type RecipientDirectory interface {
	ListTelegramIDsByRoles(ctx context.Context, roles ...kernel.Role) ([]int64, error)
}
