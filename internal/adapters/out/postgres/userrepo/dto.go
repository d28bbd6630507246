// Package userrepo persists accounts of every role, clients and staff alike.
package userrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/user"
)

// UserDTO is the users table. Role is stored by name; an empty role means the
// account has not been granted one yet.
type UserDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	TelegramID int64     `gorm:"not null;uniqueIndex"`
	Name       string    `gorm:"size:255;not null"`
	Phone      string    `gorm:"size:32"`
	Role       string    `gorm:"size:32;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	role := ""
	if u.Role().IsSet() {
		role = u.Role().String()
	}

	return UserDTO{
		ID:         u.ID(),
		TelegramID: u.TelegramID(),
		Name:       u.Name(),
		Phone:      u.Phone(),
		Role:       role,
		CreatedAt:  u.CreatedAt(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	var role kernel.Role
	if err := role.UnmarshalText([]byte(dto.Role)); err != nil {
		return nil, err
	}
	return user.RestoreUser(dto.ID, dto.TelegramID, dto.Name, dto.Phone, role, dto.CreatedAt), nil
}
