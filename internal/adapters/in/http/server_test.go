package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/user"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type MockOrderCreator struct{ mock.Mock }

func (m *MockOrderCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockTransitionApplier struct{ mock.Mock }

func (m *MockTransitionApplier) Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockRoleChanger struct{ mock.Mock }

func (m *MockRoleChanger) Handle(ctx context.Context, cmd commands.ChangeUserRoleCommand) (*user.User, error) {
	args := m.Called(ctx, cmd)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

type MockAccountRegistrar struct{ mock.Mock }

func (m *MockAccountRegistrar) Handle(ctx context.Context, cmd commands.UpsertUserCommand) (*user.User, bool, error) {
	args := m.Called(ctx, cmd)
	u, _ := args.Get(0).(*user.User)
	return u, args.Bool(1), args.Error(2)
}

type MockOrderLister struct{ mock.Mock }

func (m *MockOrderLister) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).([]queries.OrderSummary)
	return list, args.Error(1)
}

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderDetails, error) {
	args := m.Called(ctx, query)
	details, _ := args.Get(0).(queries.OrderDetails)
	return details, args.Error(1)
}

type MockUserLister struct{ mock.Mock }

func (m *MockUserLister) Handle(ctx context.Context, query queries.ListUsersQuery) ([]queries.UserSummary, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).([]queries.UserSummary)
	return list, args.Error(1)
}

type MockStatsReader struct{ mock.Mock }

func (m *MockStatsReader) Handle(ctx context.Context, query queries.GetStatsQuery) (queries.Stats, error) {
	args := m.Called(ctx, query)
	stats, _ := args.Get(0).(queries.Stats)
	return stats, args.Error(1)
}

type fixture struct {
	e *echo.Echo

	create   *MockOrderCreator
	apply    *MockTransitionApplier
	roles    *MockRoleChanger
	accounts *MockAccountRegistrar
	orders   *MockOrderLister
	details  *MockOrderReader
	users    *MockUserLister
	stats    *MockStatsReader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		create:   &MockOrderCreator{},
		apply:    &MockTransitionApplier{},
		roles:    &MockRoleChanger{},
		accounts: &MockAccountRegistrar{},
		orders:   &MockOrderLister{},
		details:  &MockOrderReader{},
		users:    &MockUserLister{},
		stats:    &MockStatsReader{},
	}

	server := NewServer(Handlers{
		CreateOrder:     f.create,
		ApplyTransition: f.apply,
		ChangeUserRole:  f.roles,
		UpsertUser:      f.accounts,
		ListOrders:      f.orders,
		GetOrder:        f.details,
		ListUsers:       f.users,
		GetStats:        f.stats,
	}, map[string]bool{"client": true, "courier": false}, slog.New(slog.DiscardHandler))

	e, err := NewEcho(server, metrics.New(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	f.e = e

	t.Cleanup(func() {
		f.create.AssertExpectations(t)
		f.apply.AssertExpectations(t)
		f.roles.AssertExpectations(t)
		f.accounts.AssertExpectations(t)
		f.orders.AssertExpectations(t)
		f.details.AssertExpectations(t)
		f.users.AssertExpectations(t)
		f.stats.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()
	var body Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	item, err := order.NewItem(1, "Olma", "", 2, decimal.NewFromInt(1000), "SUM")
	require.NoError(t, err)
	o, err := order.RestoreOrder(order.RestoreParams{
		ID:         42,
		UserID:     7,
		StoreID:    5,
		Items:      []order.Item{item},
		TotalPrice: item.LineTotal(),
		Currency:   "SUM",
		Status:     status,
		History:    []order.HistoryEntry{{Status: status, At: now, ActingUserID: 7}},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)
	return o
}

func detailsOf(id int64, status order.Status) queries.OrderDetails {
	return queries.OrderDetails{
		OrderSummary: queries.OrderSummary{
			ID:         id,
			UserID:     7,
			StoreID:    5,
			Status:     status,
			TotalPrice: decimal.NewFromInt(2000),
			Currency:   "SUM",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		History: []queries.HistoryEntry{{Status: status, Timestamp: now, ActingUserID: 7}},
	}
}

func orderID(id int64) any {
	return mock.MatchedBy(func(q queries.GetOrderQuery) bool { return q.OrderID() == id })
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateOrder_Created(t *testing.T) {
	f := newFixture(t)
	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.UserID() == 7 && cmd.StoreID() == 5 && len(cmd.Lines()) == 1 && cmd.Location() != nil
	})).Return(orderIn(t, order.Pending), nil).Once()
	f.details.On("Handle", mock.Anything, orderID(42)).Return(detailsOf(42, order.Pending), nil).Once()

	rec := f.do(http.MethodPost, "/api/client/orders",
		`{"userId":7,"storeId":5,"items":[{"productId":1,"quantity":2}],"location":"41.311081,69.240562"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["id"])
	assert.Equal(t, "PENDING", body["status"])
	assert.Equal(t, "2000", body["totalPrice"])
}

func TestCreateOrder_RejectedBySchema(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no items", body: `{"userId":7,"storeId":5,"items":[]}`},
		{name: "zero quantity", body: `{"userId":7,"storeId":5,"items":[{"productId":1,"quantity":0}]}`},
		{name: "missing store", body: `{"userId":7,"items":[{"productId":1,"quantity":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/api/client/orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
		})
	}
}

func TestCreateOrder_BadLocation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/client/orders",
		`{"userId":7,"storeId":5,"items":[{"productId":1,"quantity":1}],"location":"somewhere"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	f.create.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("productId", 99)).Once()

	rec := f.do(http.MethodPost, "/api/client/orders",
		`{"userId":7,"storeId":5,"items":[{"productId":99,"quantity":1}]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "productId")
}

func TestUpdateOrderStatus_Applied(t *testing.T) {
	f := newFixture(t)
	accepted := orderIn(t, order.Accepted)

	f.apply.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ApplyTransitionCommand) bool {
		return cmd.OrderID() == 42 && cmd.Target() == order.Accepted && cmd.ActingUserID() == 100 && cmd.Note() == "ok"
	})).Return(accepted, nil).Once()
	f.details.On("Handle", mock.Anything, orderID(42)).Return(detailsOf(42, order.Accepted), nil).Once()

	rec := f.do(http.MethodPut, "/api/admin/orders/42/status", `{"status":"ACCEPTED","userId":100,"note":"ok"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"ACCEPTED"`)
}

func TestUpdateOrderStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name: "missing order",
			err:  errs.NewObjectNotFoundError("orderId", 42),
			code: http.StatusNotFound,
		},
		{
			name: "skipped status",
			err:  errs.NewInvalidTransitionError("PENDING", "SHIPPING"),
			code: http.StatusConflict,
		},
		{
			name: "wrong role",
			err:  errs.NewUnauthorizedError("ship", "ORDER_PICKER"),
			code: http.StatusForbidden,
		},
		{
			name:    "database failure",
			err:     errors.New("connection reset"),
			code:    http.StatusInternalServerError,
			message: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.apply.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := f.do(http.MethodPut, "/api/admin/orders/42/status", `{"status":"SHIPPING","userId":100}`)

			assert.Equal(t, tt.code, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestUpdateOrderStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/admin/orders/42/status", `{"status":"LOST","userId":100}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	f.details.On("Handle", mock.Anything, orderID(99)).
		Return(queries.OrderDetails{}, errs.NewObjectNotFoundError("orderId", 99)).Once()

	rec := f.do(http.MethodGet, "/api/admin/orders/99", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/api/admin/orders/0", "/api/admin/orders/abc"} {
		rec := f.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListOrders_Filters(t *testing.T) {
	f := newFixture(t)
	f.orders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
		filter := q.Filter()
		return len(filter.Statuses) == 1 && filter.Statuses[0] == order.Shipping &&
			filter.StoreID == 5 && q.Limit() == 10
	})).Return([]queries.OrderSummary{detailsOf(1, order.Shipping).OrderSummary}, nil).Once()

	rec := f.do(http.MethodGet, "/api/admin/orders?status=SHIPPING&storeId=5&limit=10", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "SHIPPING", body[0]["status"])
}

func TestListOrders_RejectsBadQuery(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{
		"/api/admin/orders?status=LOST",
		"/api/admin/orders?limit=500",
		"/api/admin/orders?storeId=x",
	} {
		rec := f.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListUserOrders_EmptyIsArray(t *testing.T) {
	f := newFixture(t)
	f.orders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
		return q.Filter().UserID == 7
	})).Return(nil, nil).Once()

	rec := f.do(http.MethodGet, "/api/client/users/7/orders", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		created bool
		code    int
	}{
		{name: "new account", created: true, code: http.StatusCreated},
		{name: "existing account", created: false, code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			u := user.RestoreUser(3, 555, "Ali", "+998901234567", kernel.RoleClient, now)
			f.accounts.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpsertUserCommand) bool {
				return cmd.TelegramID() == 555 && cmd.DefaultRole() == kernel.RoleClient
			})).Return(u, tt.created, nil).Once()

			rec := f.do(http.MethodPost, "/api/client/users", `{"telegramId":555,"name":"Ali","phone":"+998901234567"}`)

			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			var body User
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, int64(3), body.ID)
			assert.Equal(t, "CLIENT", body.Role)
		})
	}
}

func TestChangeUserRole(t *testing.T) {
	f := newFixture(t)
	promoted := user.RestoreUser(3, 555, "Ali", "+998901234567", kernel.RoleCourier, now)
	f.roles.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeUserRoleCommand) bool {
		return cmd.UserID() == 3 && cmd.Role() == kernel.RoleCourier
	})).Return(promoted, nil).Once()

	rec := f.do(http.MethodPut, "/api/admin/users/3/role", `{"role":"COURIER"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"COURIER"`)
}

func TestListUsers_ByRole(t *testing.T) {
	f := newFixture(t)
	f.users.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListUsersQuery) bool {
		return q.Role() == kernel.RoleOrderPicker
	})).Return([]queries.UserSummary{{ID: 4, TelegramID: 44, Name: "Vali", Role: kernel.RoleOrderPicker, CreatedAt: now}}, nil).Once()

	rec := f.do(http.MethodGet, "/api/admin/users?role=ORDER_PICKER", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"ORDER_PICKER"`)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	f.stats.On("Handle", mock.Anything, mock.Anything).
		Return(queries.Stats{TotalOrders: 12, PendingOrders: 2, CompletedOrders: 9, CancelledOrders: 1, Clients: 30}, nil).Once()

	rec := f.do(http.MethodGet, "/api/admin/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body queries.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(12), body.TotalOrders)
	assert.Equal(t, int64(30), body.Clients)
}

func TestGetBotStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/bot/status", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"client":true,"courier":false}`, rec.Body.String())
}

func TestSwaggerDocument(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/swagger/doc.json", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fulfillment API")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodGet, "/api/bot/status", "")

	rec := f.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fulfillment_http_requests_total")
}

func TestGetSwagger_IsValid(t *testing.T) {
	doc, err := GetSwagger()

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/admin/orders/{id}/status"))
}
