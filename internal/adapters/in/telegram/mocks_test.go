package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/user"
	"fulfillment/internal/core/domain/services"
)

var (
	discardLogger = slog.New(slog.DiscardHandler)
	now           = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

// fakeBot records everything the router sends and serves updates from a channel.
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbotapi.Update, 8)}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

func (b *fakeBot) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (b *fakeBot) texts() []string {
	var out []string
	for _, m := range b.messages() {
		out = append(out, m.Text)
	}
	return out
}

func (b *fakeBot) answers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb.Text)
		}
	}
	return out
}

func (b *fakeBot) edits() []tgbotapi.EditMessageReplyMarkupConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.EditMessageReplyMarkupConfig
	for _, c := range b.requests {
		if e, ok := c.(tgbotapi.EditMessageReplyMarkupConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

type MockUsers struct{ mock.Mock }

func (m *MockUsers) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockTransitions struct{ mock.Mock }

func (m *MockTransitions) Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockAccounts struct{ mock.Mock }

func (m *MockAccounts) Handle(ctx context.Context, cmd commands.UpsertUserCommand) (*user.User, bool, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*user.User), args.Bool(1), args.Error(2)
}

type MockOrders struct{ mock.Mock }

func (m *MockOrders) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.OrderSummary), args.Error(1)
}

type MockStats struct{ mock.Mock }

func (m *MockStats) Handle(ctx context.Context, query queries.GetStatsQuery) (queries.Stats, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.Stats), args.Error(1)
}

type MockFollowUps struct{ mock.Mock }

func (m *MockFollowUps) FollowUp(ctx context.Context, o *order.Order, recipient int64) error {
	args := m.Called(ctx, o, recipient)
	return args.Error(0)
}

type routerFixture struct {
	bot         *fakeBot
	users       *MockUsers
	transitions *MockTransitions
	accounts    *MockAccounts
	orders      *MockOrders
	stats       *MockStats
	followUps   *MockFollowUps
	router      *Router
}

func newRouterFixture(channel services.Channel) *routerFixture {
	f := &routerFixture{
		bot:         newFakeBot(),
		users:       new(MockUsers),
		transitions: new(MockTransitions),
		accounts:    new(MockAccounts),
		orders:      new(MockOrders),
		stats:       new(MockStats),
		followUps:   new(MockFollowUps),
	}
	f.router = NewRouter(channel, f.bot, Deps{
		Users:       f.users,
		Transitions: f.transitions,
		Accounts:    f.accounts,
		Orders:      f.orders,
		Stats:       f.stats,
		FollowUps:   f.followUps,
		WebAppURL:   "https://shop.example.uz",
	}, discardLogger)
	return f
}

func staff(id, telegramID int64, role kernel.Role) *user.User {
	return user.RestoreUser(id, telegramID, "Xodim", "+998901234567", role, now)
}

func orderIn(status order.Status) *order.Order {
	item, err := order.NewItem(1, "Olma", "", 2, decimal.NewFromInt(1000), "SUM")
	if err != nil {
		panic(err)
	}
	o, err := order.RestoreOrder(order.RestoreParams{
		ID:         42,
		UserID:     7,
		StoreID:    5,
		Items:      []order.Item{item},
		TotalPrice: item.LineTotal(),
		Currency:   "SUM",
		Status:     status,
		History:    []order.HistoryEntry{{Status: status, At: now, ActingUserID: 100}},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		panic(err)
	}
	return o
}

func callback(fromID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: fromID},
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: 77,
				Chat:      &tgbotapi.Chat{ID: fromID},
			},
		},
	}
}

func text(fromID int64, body string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		Message: &tgbotapi.Message{
			MessageID: 78,
			From:      &tgbotapi.User{ID: fromID, FirstName: "Ali"},
			Chat:      &tgbotapi.Chat{ID: fromID},
			Text:      body,
		},
	}
}

func command(fromID int64, name string) tgbotapi.Update {
	u := text(fromID, "/"+name)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name) + 1}}
	return u
}

func contact(fromID, contactUserID int64, phone string) tgbotapi.Update {
	u := text(fromID, "")
	u.Message.Contact = &tgbotapi.Contact{PhoneNumber: phone, FirstName: "Ali", UserID: contactUserID}
	return u
}
