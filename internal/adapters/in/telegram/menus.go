package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/user"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

const (
	clientActiveLimit  = 10
	clientHistoryLimit = 20
	courierDoneLimit   = 20
	courierActiveLimit = 50
)

func (r *Router) menuFor(channel services.Channel) map[string]menuHandler {
	switch channel {
	case services.ChannelClient:
		return map[string]menuHandler{
			ButtonPlaceOrder:   r.placeOrder,
			ButtonMyOrders:     r.clientActiveOrders,
			ButtonOrderHistory: r.clientOrderHistory,
		}
	case services.ChannelCourier:
		return map[string]menuHandler{
			ButtonActiveDelivery: r.courierActiveOrders,
			CommandCourierOrders: r.courierActiveOrders,
			ButtonDoneDelivery:   r.courierCompletedOrders,
		}
	case services.ChannelAdmin:
		return map[string]menuHandler{
			CommandStats: r.systemStats,
			ButtonStats:  r.systemStats,
		}
	default:
		return nil
	}
}

func (r *Router) placeOrder(ctx context.Context, chatID int64, _ *user.User) error {
	if r.deps.WebAppURL == "" {
		return errors.New("web app url is not configured")
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL(ButtonOpenShop, r.deps.WebAppURL),
	))
	r.reply(ctx, chatID, textOpenShop, markup)
	return nil
}

func (r *Router) clientActiveOrders(ctx context.Context, chatID int64, u *user.User) error {
	list, err := r.listOrders(ctx, queries.OrderFilter{UserID: u.ID(), Statuses: activeStatuses()}, clientActiveLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		r.reply(ctx, chatID, textNoActiveOrders, nil)
		return nil
	}

	r.reply(ctx, chatID, fmt.Sprintf("📦 Mening buyurtmalarim\n\nFaol buyurtmalar: %d ta\n\n⬇️ Quyida buyurtmalar ro'yxati:", len(list)), nil)
	for _, s := range list {
		r.reply(ctx, chatID, orderCard(s, false), nil)
	}
	return nil
}

func (r *Router) clientOrderHistory(ctx context.Context, chatID int64, u *user.User) error {
	list, err := r.listOrders(ctx, queries.OrderFilter{UserID: u.ID()}, clientHistoryLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		r.reply(ctx, chatID, textNoOrderHistory, nil)
		return nil
	}

	query, err := queries.NewGetClientStatsQuery(u.ID())
	if err != nil {
		return err
	}
	stats, err := r.deps.Stats.Handle(ctx, query)
	if err != nil {
		return err
	}

	r.reply(ctx, chatID, fmt.Sprintf(
		"📊 Buyurtmalar tarixi\n\n📦 Jami buyurtmalar: %d\n✅ Tugallangan: %d\n⏳ Faol: %d\n❌ Bekor qilingan: %d\n\n⬇️ Oxirgi %d ta buyurtma:",
		stats.TotalOrders, stats.CompletedOrders, stats.ActiveOrders, stats.CancelledOrders, len(list),
	), nil)
	for _, s := range list {
		r.reply(ctx, chatID, orderCard(s, false), nil)
	}
	return nil
}

// courierActiveOrders lists the courier's own deliveries followed by the
// orders still waiting for any courier.
func (r *Router) courierActiveOrders(ctx context.Context, chatID int64, u *user.User) error {
	mine, err := r.listOrders(ctx, queries.OrderFilter{
		Statuses:  []order.Status{order.Shipping},
		CourierID: u.ID(),
	}, courierActiveLimit)
	if err != nil {
		return err
	}
	waiting, err := r.listOrders(ctx, queries.OrderFilter{Statuses: []order.Status{order.ReadyForDelivery}}, courierActiveLimit)
	if err != nil {
		return err
	}

	list := append(mine, waiting...)
	if len(list) == 0 {
		r.reply(ctx, chatID, textNoCourierOrders, nil)
		return nil
	}

	r.reply(ctx, chatID, fmt.Sprintf("🚚 Faol buyurtmalar: %d ta", len(list)), nil)
	for _, s := range list {
		msg := ports.Message{Text: orderCard(s, true)}
		for _, kind := range order.NextActions(s.Status) {
			msg.Actions = append(msg.Actions, order.NewAction(kind, s.ID))
		}
		if loc, err := kernel.ParseLocation(s.Location); err == nil {
			msg.Links = ports.MapLinks(loc)
			if s.Status == order.Shipping {
				msg.Location = &loc
			}
		}
		if err := r.out.Send(ctx, chatID, msg); err != nil {
			r.logger.WarnContext(ctx, "order card not delivered", "order_id", s.ID, "recipient", chatID, "error", err)
		}
	}
	return nil
}

func (r *Router) courierCompletedOrders(ctx context.Context, chatID int64, u *user.User) error {
	list, err := r.listOrders(ctx, queries.OrderFilter{
		Statuses:  []order.Status{order.Completed},
		CourierID: u.ID(),
	}, courierDoneLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		r.reply(ctx, chatID, textNoCompletedOrders, nil)
		return nil
	}

	r.reply(ctx, chatID, fmt.Sprintf("✅ Tugallangan buyurtmalar: %d ta", len(list)), nil)
	for _, s := range list {
		r.reply(ctx, chatID, orderCard(s, true), nil)
	}
	return nil
}

func (r *Router) systemStats(ctx context.Context, chatID int64, _ *user.User) error {
	stats, err := r.deps.Stats.Handle(ctx, queries.NewGetStatsQuery())
	if err != nil {
		return err
	}
	r.reply(ctx, chatID, StatsText(stats), nil)
	return nil
}

func (r *Router) listOrders(ctx context.Context, filter queries.OrderFilter, limit int) ([]queries.OrderSummary, error) {
	query, err := queries.NewListOrdersQuery(filter, limit)
	if err != nil {
		return nil, err
	}
	return r.deps.Orders.Handle(ctx, query)
}

// StatsText renders system-wide counters. The daily admin digest uses it too.
func StatsText(s queries.Stats) string {
	return fmt.Sprintf("📊 Tizim statistikasi\n\n"+
		"📦 Buyurtmalar:\n"+
		"  • Jami: %d\n"+
		"  • Kutilmoqda: %d\n"+
		"  • Faol: %d\n"+
		"  • Yakunlangan: %d\n"+
		"  • Bekor qilingan: %d\n\n"+
		"👥 Foydalanuvchilar: %d\n"+
		"📦 Mahsulotlar: %d\n"+
		"🏪 Do'konlar: %d",
		s.TotalOrders, s.PendingOrders, s.ActiveOrders, s.CompletedOrders, s.CancelledOrders,
		s.Clients, s.Products, s.Stores)
}

func orderCard(s queries.OrderSummary, withClient bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 Buyurtma #%d\n", s.ID)
	fmt.Fprintf(&b, "📊 Holat: %s\n\n", services.StatusLabel(s.Status))
	if withClient {
		fmt.Fprintf(&b, "👤 Mijoz: %s\n", orMissing(s.ClientName))
		fmt.Fprintf(&b, "📞 Telefon: %s\n", orMissing(s.ClientPhone))
	}
	fmt.Fprintf(&b, "🏪 Do'kon: %s\n", orMissing(s.StoreName))
	fmt.Fprintf(&b, "💰 Jami: %s\n", services.FormatMoney(s.TotalPrice, s.Currency))
	if s.Address != "" {
		fmt.Fprintf(&b, "📍 Manzil: %s\n", s.Address)
	}
	fmt.Fprintf(&b, "\n📅 Sana: %s", services.FormatDate(s.CreatedAt))
	return b.String()
}

func orMissing(s string) string {
	if s == "" {
		return services.ValueMissing
	}
	return s
}

func activeStatuses() []order.Status {
	active := make([]order.Status, 0, len(order.AllStatuses))
	for _, s := range order.AllStatuses {
		if s.IsActive() {
			active = append(active, s)
		}
	}
	return active
}
