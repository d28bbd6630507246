package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/user"
	"fulfillment/internal/pkg/errs"
)

type UpsertUserCommandHandler struct {
	uowFactory UserUoWFactory
}

func NewUpsertUserCommandHandler(uowFactory UserUoWFactory) UpsertUserCommandHandler {
	return UpsertUserCommandHandler{uowFactory: uowFactory}
}

// Handle returns the stored account and whether it was created by this call.
func (h UpsertUserCommandHandler) Handle(ctx context.Context, cmd UpsertUserCommand) (*user.User, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	created := false

	u, err := repo.GetByTelegramID(ctx, cmd.TelegramID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		u, err = user.NewUser(cmd.TelegramID(), cmd.Name(), cmd.Phone(), cmd.DefaultRole(), time.Now())
		if err != nil {
			return nil, false, err
		}
		if err = repo.Add(ctx, u); err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, err
	default:
		u.UpdateContact(cmd.Name(), cmd.Phone())
		if err = repo.Update(ctx, u); err != nil {
			return nil, false, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return u, created, nil
}
