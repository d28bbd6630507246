package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/user"
)

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	TransitionApplier interface {
		Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (*order.Order, error)
	}

	RoleChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeUserRoleCommand) (*user.User, error)
	}

	AccountRegistrar interface {
		Handle(ctx context.Context, cmd commands.UpsertUserCommand) (*user.User, bool, error)
	}

	OrderLister interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error)
	}

	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderDetails, error)
	}

	UserLister interface {
		Handle(ctx context.Context, query queries.ListUsersQuery) ([]queries.UserSummary, error)
	}

	StatsReader interface {
		Handle(ctx context.Context, query queries.GetStatsQuery) (queries.Stats, error)
	}
)

// Handlers are the use cases behind the REST operations.
type Handlers struct {
	// Command handlers
	CreateOrder     OrderCreator
	ApplyTransition TransitionApplier
	ChangeUserRole  RoleChanger
	UpsertUser      AccountRegistrar

	// Query handlers
	ListOrders OrderLister
	GetOrder   OrderReader
	ListUsers  UserLister
	GetStats   StatsReader
}

// Server implements ServerInterface on top of the application use cases.
// Handlers return domain errors as is; ErrorHandler maps them to statuses.
type Server struct {
	handlers Handlers
	bots     map[string]bool
	logger   *slog.Logger
}

// NewServer creates the REST server. bots tells which channels are running,
// keyed by channel name.
func NewServer(handlers Handlers, bots map[string]bool, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		bots:     bots,
		logger:   logger.With("component", "http-server"),
	}
}

type NewOrder struct {
	UserID   int64          `json:"userId"`
	StoreID  int64          `json:"storeId"`
	Items    []NewOrderLine `json:"items"`
	Address  string         `json:"address"`
	Location string         `json:"location"`
}

type NewOrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type NewUser struct {
	TelegramID int64  `json:"telegramId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

type StatusChange struct {
	Status string `json:"status"`
	UserID int64  `json:"userId"`
	Note   string `json:"note"`
}

type RoleChange struct {
	Role string `json:"role"`
}

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegramId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

func userResponse(u *user.User) User {
	return User{
		ID:         u.ID(),
		TelegramID: u.TelegramID(),
		Name:       u.Name(),
		Phone:      u.Phone(),
		Role:       u.Role().String(),
		CreatedAt:  u.CreatedAt(),
	}
}

// CreateOrder handles POST /api/client/orders. The order enters PENDING and
// the receivers are notified before the response is written.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		lines = append(lines, commands.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(body.UserID, body.StoreID, lines, body.Address, body.Location)
	if err != nil {
		return err
	}

	created, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx.Request().Context(), "order created", "order_id", created.ID(), "user_id", body.UserID)
	return s.writeOrder(ctx, http.StatusCreated, created.ID())
}

// GetClientOrder handles GET /api/client/orders/{id}.
func (s *Server) GetClientOrder(ctx echo.Context, id int64) error {
	return s.writeOrder(ctx, http.StatusOK, id)
}

// CreateUser handles POST /api/client/users: the account for telegramId is
// returned, created as CLIENT when it does not exist yet.
func (s *Server) CreateUser(ctx echo.Context) error {
	var body NewUser
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewUpsertUserCommand(body.TelegramID, body.Name, body.Phone, kernel.RoleClient)
	if err != nil {
		return err
	}

	u, created, err := s.handlers.UpsertUser.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return ctx.JSON(status, userResponse(u))
}

// ListUserOrders handles GET /api/client/users/{userId}/orders.
func (s *Server) ListUserOrders(ctx echo.Context, userID int64) error {
	query, err := queries.NewListOrdersQuery(queries.OrderFilter{UserID: userID}, 0)
	if err != nil {
		return err
	}
	return s.writeOrders(ctx, query)
}

// ListOrders handles GET /api/admin/orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	var filter queries.OrderFilter
	if params.Status != nil {
		status, err := order.ParseStatus(*params.Status)
		if err != nil {
			return err
		}
		filter.Statuses = []order.Status{status}
	}
	if params.StoreID != nil {
		filter.StoreID = *params.StoreID
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListOrdersQuery(filter, limit)
	if err != nil {
		return err
	}
	return s.writeOrders(ctx, query)
}

// GetOrder handles GET /api/admin/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id int64) error {
	return s.writeOrder(ctx, http.StatusOK, id)
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status. It goes
// through the same guarded transition as a button press, so it can neither
// skip a status nor overwrite an assigned employee.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id int64) error {
	var body StatusChange
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	target, err := order.ParseStatus(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewApplyTransitionCommand(id, target, body.UserID, body.Note)
	if err != nil {
		return err
	}

	updated, err := s.handlers.ApplyTransition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx.Request().Context(), "order status changed",
		"order_id", updated.ID(),
		"status", updated.Status().String(),
		"user_id", body.UserID)
	return s.writeOrder(ctx, http.StatusOK, updated.ID())
}

// ListUsers handles GET /api/admin/users.
func (s *Server) ListUsers(ctx echo.Context, params ListUsersParams) error {
	role := kernel.RoleUnset
	if params.Role != nil {
		parsed, err := kernel.ParseRole(*params.Role)
		if err != nil {
			return err
		}
		role = parsed
	}

	users, err := s.handlers.ListUsers.Handle(ctx.Request().Context(), queries.NewListUsersQuery(role))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, users)
}

// ChangeUserRole handles PUT /api/admin/users/{id}/role.
func (s *Server) ChangeUserRole(ctx echo.Context, id int64) error {
	var body RoleChange
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	role, err := kernel.ParseRole(body.Role)
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeUserRoleCommand(id, role)
	if err != nil {
		return err
	}

	u, err := s.handlers.ChangeUserRole.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx.Request().Context(), "user role changed", "user_id", id, "role", role.String())
	return ctx.JSON(http.StatusOK, userResponse(u))
}

// GetStats handles GET /api/admin/stats.
func (s *Server) GetStats(ctx echo.Context) error {
	stats, err := s.handlers.GetStats.Handle(ctx.Request().Context(), queries.NewGetStatsQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

// GetBotStatus handles GET /api/bot/status.
func (s *Server) GetBotStatus(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.bots)
}

func (s *Server) writeOrder(ctx echo.Context, status int, id int64) error {
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}
	details, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(status, details)
}

func (s *Server) writeOrders(ctx echo.Context, query queries.ListOrdersQuery) error {
	list, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	if list == nil {
		list = []queries.OrderSummary{}
	}
	return ctx.JSON(http.StatusOK, list)
}
