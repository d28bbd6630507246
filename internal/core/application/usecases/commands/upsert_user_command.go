package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpsertUserCommandIsNotConstructed = errors.New(
	"UpsertUserCommand must be created via NewUpsertUserCommand constructor",
)

// UpsertUserCommand binds a messaging identity to an account: it creates the
// account on first contact and refreshes name and phone afterwards. The role
// is only used for new accounts.
type UpsertUserCommand struct { //nolint:recvcheck //using for validation
	telegramID  int64
	name        string
	phone       string
	defaultRole kernel.Role

	guard guard.ConstructorGuard
}

func NewUpsertUserCommand(telegramID int64, name, phone string, defaultRole kernel.Role) (UpsertUserCommand, error) {
	if telegramID == 0 {
		return UpsertUserCommand{}, errs.NewValueIsRequiredError("telegramId")
	}

	return UpsertUserCommand{
		telegramID:  telegramID,
		name:        name,
		phone:       phone,
		defaultRole: defaultRole,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c UpsertUserCommand) Validate() error {
	return c.guard.Validate(ErrUpsertUserCommandIsNotConstructed)
}

func (c UpsertUserCommand) TelegramID() int64 { return c.telegramID }

func (c UpsertUserCommand) Name() string { return c.name }

func (c UpsertUserCommand) Phone() string { return c.phone }

func (c UpsertUserCommand) DefaultRole() kernel.Role { return c.defaultRole }
