// Package telegram delivers notifications through Telegram bots. Each
// channel has its own bot, and therefore its own Gateway.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// BotAPI is the part of *tgbotapi.BotAPI used to talk to users.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Gateway implements ports.NotificationGateway for one bot.
type Gateway struct {
	bot BotAPI
}

func NewGateway(bot BotAPI) *Gateway {
	return &Gateway{bot: bot}
}

// Send posts the text with its buttons. A location, when present, follows as
// a separate map pin.
func (g *Gateway) Send(ctx context.Context, recipient int64, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := tgbotapi.NewMessage(recipient, msg.Text)
	if markup := InlineKeyboard(msg.Actions, msg.Links); markup != nil {
		out.ReplyMarkup = *markup
	}
	if _, err := g.bot.Send(out); err != nil {
		return err
	}

	if msg.Location == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := g.bot.Send(tgbotapi.NewLocation(recipient, msg.Location.Lat(), msg.Location.Lon()))
	return err
}

// InlineKeyboard renders one row per action, then one row holding every link.
// It returns nil when there is nothing to show.
func InlineKeyboard(actions []order.Action, links []ports.Link) *tgbotapi.InlineKeyboardMarkup {
	if len(actions) == 0 && len(links) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions)+1)
	for _, a := range actions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(services.ActionButtonLabel(a.Kind), a.String()),
		))
	}

	if len(links) > 0 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(links))
		for _, l := range links {
			row = append(row, tgbotapi.NewInlineKeyboardButtonURL(l.Text, l.URL))
		}
		rows = append(rows, row)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
