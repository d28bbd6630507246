package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

func (r *Router) handleStart(ctx context.Context, m *tgbotapi.Message) error {
	u, err := r.identify(ctx, m.From.ID)
	if err != nil {
		return err
	}

	name := displayName(m.From)
	switch {
	case r.admits(u):
		if name == "" {
			name = u.Name()
		}
		r.welcome(ctx, m.Chat.ID, name)
	case r.channel == services.ChannelClient:
		if name == "" {
			name = "Foydalanuvchi"
		}
		r.reply(ctx, m.Chat.ID, greetingText(name), contactKeyboard())
	case u == nil:
		r.reply(ctx, m.Chat.ID, textStaffSharePhone, contactKeyboard())
	default:
		r.reply(ctx, m.Chat.ID, r.refusal(u), nil)
	}
	return nil
}

// handleContact binds a shared phone number to the sender's account. Only the
// sender's own contact is accepted.
func (r *Router) handleContact(ctx context.Context, m *tgbotapi.Message) error {
	contact := m.Contact
	if contact.UserID != m.From.ID {
		r.reply(ctx, m.Chat.ID, textOwnContactOnly, contactKeyboard())
		return nil
	}

	defaultRole := kernel.RoleUnset
	if r.channel == services.ChannelClient {
		defaultRole = kernel.RoleClient
	}

	name := displayName(m.From)
	if name == "" {
		name = strings.TrimSpace(contact.FirstName + " " + contact.LastName)
	}

	cmd, err := commands.NewUpsertUserCommand(m.From.ID, name, contact.PhoneNumber, defaultRole)
	if err != nil {
		return err
	}
	u, created, err := r.deps.Accounts.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "contact shared",
		"user_id", u.ID(),
		"created", created,
		"role", u.Role().String())

	switch {
	case r.channel == services.ChannelClient:
		r.reply(ctx, m.Chat.ID, registeredText(u.Name(), u.Phone(), created), *menuKeyboard(r.channel))
	case r.admits(u):
		r.welcome(ctx, m.Chat.ID, u.Name())
	default:
		r.reply(ctx, m.Chat.ID, textAwaitingRole, tgbotapi.NewRemoveKeyboard(true))
	}
	return nil
}

func (r *Router) welcome(ctx context.Context, chatID int64, name string) {
	if kb := menuKeyboard(r.channel); kb != nil {
		r.reply(ctx, chatID, welcomeText(r.channel, name), *kb)
		return
	}
	r.reply(ctx, chatID, welcomeText(r.channel, name), nil)
}

func displayName(from *tgbotapi.User) string {
	return strings.TrimSpace(from.FirstName + " " + from.LastName)
}
