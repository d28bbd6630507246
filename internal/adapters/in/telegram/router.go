package telegram

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	tgout "fulfillment/internal/adapters/out/telegram"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/user"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

type (
	Users interface {
		GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error)
	}

	Transitions interface {
		Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (*order.Order, error)
	}

	Accounts interface {
		Handle(ctx context.Context, cmd commands.UpsertUserCommand) (*user.User, bool, error)
	}

	OrderLister interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error)
	}

	StatsReader interface {
		Handle(ctx context.Context, query queries.GetStatsQuery) (queries.Stats, error)
	}

	// FollowUps hands the next-step button to whoever just took an order.
	FollowUps interface {
		FollowUp(ctx context.Context, o *order.Order, recipient int64) error
	}
)

// Deps are shared by the routers of every channel.
type Deps struct {
	Users       Users
	Transitions Transitions
	Accounts    Accounts
	Orders      OrderLister
	Stats       StatsReader
	FollowUps   FollowUps
	Metrics     *metrics.Metrics
	WebAppURL   string
}

// channelActions lists the buttons each channel may carry.
var channelActions = map[services.Channel][]order.ActionKind{
	services.ChannelReceiver: {order.ActionAccept, order.ActionCancel},
	services.ChannelPicker:   {order.ActionStartPicking, order.ActionFinishPicking},
	services.ChannelCourier:  {order.ActionStartDelivery, order.ActionCompleteDelivery},
}

type menuHandler func(ctx context.Context, chatID int64, u *user.User) error

// Router handles the updates of one channel. Every update is resolved to an
// account first; order actions are then checked against the role the target
// status requires before the transition is attempted.
type Router struct {
	channel services.Channel
	bot     Bot
	out     *tgout.Gateway
	deps    Deps
	menu    map[string]menuHandler
	logger  *slog.Logger
}

func NewRouter(channel services.Channel, bot Bot, deps Deps, logger *slog.Logger) *Router {
	r := &Router{
		channel: channel,
		bot:     bot,
		out:     tgout.NewGateway(bot),
		deps:    deps,
		logger:  logger.With("component", "telegram-router", "channel", channel.String()),
	}
	r.menu = r.menuFor(channel)
	return r
}

// Handle processes one update. Failures never escape: they are logged and
// answered with a generic notice.
func (r *Router) Handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.ErrorContext(ctx, "update handler panicked", "update_id", update.UpdateID, "panic", p)
			r.replyFailure(update)
		}
	}()

	var err error
	switch {
	case update.CallbackQuery != nil:
		err = r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		err = r.handleMessage(ctx, update.Message)
	default:
		return
	}

	if err != nil {
		r.logger.ErrorContext(ctx, "update not handled", "update_id", update.UpdateID, "error", err)
		r.replyFailure(update)
	}
}

func (r *Router) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	action, err := order.ParseAction(cq.Data)
	if err != nil || !r.carries(action.Kind) {
		r.logger.WarnContext(ctx, "unexpected callback", "data", cq.Data, "error", err)
		r.deps.Metrics.ActionHandled(r.channel.String(), "unknown", metrics.ResultRejected)
		r.answer(ctx, cq, services.TextCallbackError)
		return nil
	}

	kind := action.Kind.String()
	actor, err := r.identify(ctx, cq.From.ID)
	if err != nil {
		r.deps.Metrics.ActionHandled(r.channel.String(), kind, metrics.ResultFailed)
		return err
	}
	if actor == nil || !mayEnter(actor, action.Kind.Target()) {
		r.deps.Metrics.ActionHandled(r.channel.String(), kind, metrics.ResultRejected)
		r.answer(ctx, cq, services.TextDenied)
		return nil
	}

	cmd, err := commands.NewApplyTransitionCommand(action.OrderID, action.Kind.Target(), actor.ID(), "")
	if err != nil {
		r.deps.Metrics.ActionHandled(r.channel.String(), kind, metrics.ResultFailed)
		return err
	}

	o, err := r.deps.Transitions.Handle(ctx, cmd)
	if notice, rejected := rejection(err); rejected {
		r.logger.InfoContext(ctx, "order action rejected",
			"order_id", action.OrderID,
			"action", kind,
			"user_id", actor.ID(),
			"error", err)
		r.deps.Metrics.ActionHandled(r.channel.String(), kind, metrics.ResultRejected)
		r.answer(ctx, cq, notice)
		if errors.Is(err, errs.ErrInvalidTransition) {
			r.stripButtons(ctx, cq.Message)
		}
		return nil
	}
	if err != nil {
		r.deps.Metrics.ActionHandled(r.channel.String(), kind, metrics.ResultFailed)
		return err
	}

	r.deps.Metrics.ActionHandled(r.channel.String(), kind, metrics.ResultOK)
	r.logger.InfoContext(ctx, "order action applied",
		"order_id", o.ID(),
		"action", kind,
		"status", o.Status().String(),
		"user_id", actor.ID())

	r.answer(ctx, cq, services.ActionAnswer(action.Kind))
	r.stripButtons(ctx, cq.Message)
	r.reply(ctx, chatOf(cq), services.ActionConfirmation(action.Kind, o.ID()), nil)

	if r.deps.FollowUps != nil {
		_ = r.deps.FollowUps.FollowUp(ctx, o, actor.TelegramID())
	}
	return nil
}

func (r *Router) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	if m.From == nil {
		return nil
	}

	switch {
	case m.Contact != nil:
		return r.handleContact(ctx, m)
	case m.IsCommand() && m.Command() == "start":
		return r.handleStart(ctx, m)
	}

	key := m.Text
	if m.IsCommand() {
		key = "/" + m.Command()
	}
	handle, ok := r.menu[key]
	if !ok {
		return nil
	}

	u, err := r.identify(ctx, m.From.ID)
	if err != nil {
		return err
	}
	if !r.admits(u) {
		r.reply(ctx, m.Chat.ID, r.refusal(u), nil)
		return nil
	}
	return handle(ctx, m.Chat.ID, u)
}

// identify returns nil without an error for identities that have no account.
func (r *Router) identify(ctx context.Context, telegramID int64) (*user.User, error) {
	u, err := r.deps.Users.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return u, err
}

// admits reports whether u may use the channel. The client channel only needs
// a phone number on file; staff channels need the matching role.
func (r *Router) admits(u *user.User) bool {
	if u == nil {
		return false
	}
	if r.channel == services.ChannelClient {
		return u.HasPhone()
	}
	return u.Role().Satisfies(r.channel.StaffRoles()...)
}

func (r *Router) refusal(u *user.User) string {
	switch {
	case r.channel == services.ChannelClient:
		return textSharePhoneFirst
	case u == nil:
		return services.TextNotRegistered
	default:
		return roleDenials[r.channel]
	}
}

func (r *Router) carries(kind order.ActionKind) bool {
	for _, k := range channelActions[r.channel] {
		if k == kind {
			return true
		}
	}
	return false
}

// mayEnter reports whether u holds a role allowed to move an order into target
// from any status.
func mayEnter(u *user.User, target order.Status) bool {
	for _, t := range order.TransitionsInto(target) {
		if t.Permits(u.Role()) {
			return true
		}
	}
	return false
}

// rejection maps expected lifecycle refusals to the notice shown on the button.
func rejection(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, errs.ErrUnauthorized):
		return services.TextDenied, true
	case errors.Is(err, errs.ErrInvalidTransition):
		return services.TextStaleAction, true
	case errors.Is(err, errs.ErrObjectNotFound):
		return services.TextNotFound, true
	default:
		return "", false
	}
}

func (r *Router) answer(ctx context.Context, cq *tgbotapi.CallbackQuery, text string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		r.logger.WarnContext(ctx, "callback not answered", "callback_id", cq.ID, "error", err)
	}
}

// stripButtons removes the inline keyboard from the pressed message so the
// same action cannot be offered twice.
func (r *Router) stripButtons(ctx context.Context, m *tgbotapi.Message) {
	if m == nil {
		return
	}
	empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	if _, err := r.bot.Request(tgbotapi.NewEditMessageReplyMarkup(m.Chat.ID, m.MessageID, empty)); err != nil {
		r.logger.WarnContext(ctx, "buttons not removed", "message_id", m.MessageID, "error", err)
	}
}

// reply sends text to chatID; markup may be any reply markup accepted by Telegram.
func (r *Router) reply(ctx context.Context, chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := r.bot.Send(msg); err != nil {
		r.logger.WarnContext(ctx, "reply not delivered", "recipient", chatID, "error", err)
	}
}

func (r *Router) replyFailure(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		_, _ = r.bot.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, services.TextCallbackError))
	case update.Message != nil:
		_, _ = r.bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, services.TextGenericError))
	}
}

func chatOf(cq *tgbotapi.CallbackQuery) int64 {
	if cq.Message != nil && cq.Message.Chat != nil {
		return cq.Message.Chat.ID
	}
	return cq.From.ID
}
