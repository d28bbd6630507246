package queries

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
)

type ListUsersQueryHandler struct {
	db *gorm.DB
}

func NewListUsersQueryHandler(db *gorm.DB) ListUsersQueryHandler {
	return ListUsersQueryHandler{db: db}
}

func (h ListUsersQueryHandler) Handle(ctx context.Context, query ListUsersQuery) ([]UserSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("users").
		Select("id, telegram_id, name, phone, role, created_at")
	if query.Role().IsSet() {
		tx = tx.Where("role = ?", query.Role().String())
	}

	var rows []struct {
		ID         int64
		TelegramID int64
		Name       string
		Phone      string
		Role       string
		CreatedAt  time.Time
	}
	if err := tx.Order("id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]UserSummary, 0, len(rows))
	for _, row := range rows {
		var role kernel.Role
		if err := role.UnmarshalText([]byte(row.Role)); err != nil {
			return nil, err
		}
		users = append(users, UserSummary{
			ID:         row.ID,
			TelegramID: row.TelegramID,
			Name:       row.Name,
			Phone:      row.Phone,
			Role:       role,
			CreatedAt:  row.CreatedAt,
		})
	}
	return users, nil
}
