package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface has one method per operation in openapi.json.
type ServerInterface interface {
	// (POST /api/client/orders)
	CreateOrder(ctx echo.Context) error
	// (GET /api/client/orders/{id})
	GetClientOrder(ctx echo.Context, id int64) error
	// (POST /api/client/users)
	CreateUser(ctx echo.Context) error
	// (GET /api/client/users/{userId}/orders)
	ListUserOrders(ctx echo.Context, userID int64) error
	// (GET /api/admin/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (GET /api/admin/orders/{id})
	GetOrder(ctx echo.Context, id int64) error
	// (PUT /api/admin/orders/{id}/status)
	UpdateOrderStatus(ctx echo.Context, id int64) error
	// (GET /api/admin/users)
	ListUsers(ctx echo.Context, params ListUsersParams) error
	// (PUT /api/admin/users/{id}/role)
	ChangeUserRole(ctx echo.Context, id int64) error
	// (GET /api/admin/stats)
	GetStats(ctx echo.Context) error
	// (GET /api/bot/status)
	GetBotStatus(ctx echo.Context) error
}

type ListOrdersParams struct {
	Status  *string `form:"status,omitempty"  json:"status,omitempty"`
	StoreID *int64  `form:"storeId,omitempty" json:"storeId,omitempty"`
	Limit   *int    `form:"limit,omitempty"   json:"limit,omitempty"`
}

type ListUsersParams struct {
	Role *string `form:"role,omitempty" json:"role,omitempty"`
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetClientOrder(ctx echo.Context) error {
	id, err := bindPathID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.GetClientOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) CreateUser(ctx echo.Context) error {
	return w.Handler.CreateUser(ctx)
}

func (w *ServerInterfaceWrapper) ListUserOrders(ctx echo.Context) error {
	userID, err := bindPathID(ctx, "userId")
	if err != nil {
		return err
	}
	return w.Handler.ListUserOrders(ctx, userID)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "storeId", ctx.QueryParams(), &params.StoreID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter storeId: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindPathID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	id, err := bindPathID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.UpdateOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) ListUsers(ctx echo.Context) error {
	var params ListUsersParams
	if err := runtime.BindQueryParameter("form", true, false, "role", ctx.QueryParams(), &params.Role); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter role: %s", err))
	}
	return w.Handler.ListUsers(ctx, params)
}

func (w *ServerInterfaceWrapper) ChangeUserRole(ctx echo.Context) error {
	id, err := bindPathID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.ChangeUserRole(ctx, id)
}

func (w *ServerInterfaceWrapper) GetStats(ctx echo.Context) error {
	return w.Handler.GetStats(ctx)
}

func (w *ServerInterfaceWrapper) GetBotStatus(ctx echo.Context) error {
	return w.Handler.GetBotStatus(ctx)
}

func bindPathID(ctx echo.Context, name string) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST("/api/client/orders", w.CreateOrder)
	router.GET("/api/client/orders/:id", w.GetClientOrder)
	router.POST("/api/client/users", w.CreateUser)
	router.GET("/api/client/users/:userId/orders", w.ListUserOrders)
	router.GET("/api/admin/orders", w.ListOrders)
	router.GET("/api/admin/orders/:id", w.GetOrder)
	router.PUT("/api/admin/orders/:id/status", w.UpdateOrderStatus)
	router.GET("/api/admin/users", w.ListUsers)
	router.PUT("/api/admin/users/:id/role", w.ChangeUserRole)
	router.GET("/api/admin/stats", w.GetStats)
	router.GET("/api/bot/status", w.GetBotStatus)
}
