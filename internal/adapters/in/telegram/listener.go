// Package telegram receives updates from the five channel bots and routes
// them to account, order action and menu handlers.
package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fulfillment/internal/core/domain/services"
)

const pollTimeout = 60

// Bot is the part of *tgbotapi.BotAPI a channel needs to talk and to listen.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UpdateHandler interface {
	Handle(ctx context.Context, update tgbotapi.Update)
}

// Listener long-polls one bot and hands every update to its own goroutine.
// Updates are not ordered with respect to each other.
type Listener struct {
	channel services.Channel
	bot     Bot
	handler UpdateHandler
	logger  *slog.Logger

	wg sync.WaitGroup
}

func NewListener(channel services.Channel, bot Bot, handler UpdateHandler, logger *slog.Logger) *Listener {
	return &Listener{
		channel: channel,
		bot:     bot,
		handler: handler,
		logger:  logger.With("component", "telegram-listener", "channel", channel.String()),
	}
}

// Run blocks until ctx is done or the update stream closes. Handlers already
// running are allowed to finish before Run returns.
func (l *Listener) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := l.bot.GetUpdatesChan(cfg)

	l.logger.InfoContext(ctx, "listening for updates")
	defer l.wg.Wait()

	handlerCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			l.bot.StopReceivingUpdates()
			l.logger.InfoContext(ctx, "stopped listening")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			l.wg.Add(1)
			go l.dispatch(handlerCtx, update)
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer l.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			l.logger.ErrorContext(ctx, "update handler panicked", "update_id", update.UpdateID, "panic", p)
		}
	}()
	l.handler.Handle(ctx, update)
}
