// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProfileHandler *handler.ProfileHandler
	AddressHandler *handler.AddressHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	RefundHandler  *handler.RefundHandler

	AuthMiddleware        *middleware.AuthMiddleware
	CartSessionMiddleware *middleware.CartSessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.params.AuthMiddleware
	cartSession := r.params.CartSessionMiddleware

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.params.UserHandler.Register)
		authGroup.POST("/login", r.params.UserHandler.Login)
	}

	// Cart routes are shared by guests and signed-in customers: a bearer
	// token binds the cart to the user, otherwise a session cookie does.
	cartGroup := e.Group("/cart")
	cartGroup.Use(auth.OptionalAuthenticate)
	cartGroup.Use(cartSession.Resolve)
	{
		cartGroup.GET("", r.params.CartHandler.GetCart)
		cartGroup.POST("/items", r.params.CartHandler.AddItem)
		cartGroup.PUT("/items", r.params.CartHandler.UpdateItem)
		cartGroup.DELETE("/items/:productId", r.params.CartHandler.RemoveItem)
		cartGroup.DELETE("", r.params.CartHandler.ClearCart)
	}

	// Checkout requires a signed-in buyer.
	checkoutGroup := e.Group("/checkout")
	checkoutGroup.Use(auth.Authenticate)
	checkoutGroup.Use(cartSession.Resolve)
	{
		checkoutGroup.POST("", r.params.CartHandler.Checkout)
	}

	// Order routes: reads and cancellation for everyone authenticated;
	// capability checks inside the use cases decide what each role may do.
	orderGroup := e.Group("/orders")
	orderGroup.Use(auth.Authenticate)
	{
		orderGroup.GET("", r.params.OrderHandler.ListOrders)
		orderGroup.GET("/:id", r.params.OrderHandler.GetOrder)
		orderGroup.POST("/:id/cancel", r.params.OrderHandler.CancelOrder)
	}

	// Manager-side order transitions.
	orderAdminGroup := e.Group("/orders")
	orderAdminGroup.Use(auth.Authenticate)
	orderAdminGroup.Use(auth.RequireManager)
	{
		orderAdminGroup.POST("/:id/status", r.params.OrderHandler.AdvanceOrder)
		orderAdminGroup.POST("/:id/approve", r.params.OrderHandler.ApproveOrder)
	}

	// Refund routes
	refundGroup := e.Group("/refunds")
	refundGroup.Use(auth.Authenticate)
	{
		refundGroup.GET("", r.params.RefundHandler.ListRefunds)
		refundGroup.POST("", r.params.RefundHandler.RequestRefund)
		refundGroup.PUT("/:id", r.params.RefundHandler.UpdateReason)
		refundGroup.DELETE("/:id", r.params.RefundHandler.CancelRequest)
	}

	refundAdminGroup := e.Group("/refunds")
	refundAdminGroup.Use(auth.Authenticate)
	refundAdminGroup.Use(auth.RequireManager)
	{
		refundAdminGroup.POST("/:id/approve", r.params.RefundHandler.ApproveRefund)
		refundAdminGroup.POST("/:id/reject", r.params.RefundHandler.RejectRefund)
	}

	// Profile and address book
	userGroup := e.Group("/user")
	userGroup.Use(auth.Authenticate)
	{
		userGroup.GET("/profile", r.params.ProfileHandler.GetProfile)
		userGroup.PUT("/profile", r.params.ProfileHandler.UpdateProfile)

		userGroup.GET("/addresses", r.params.AddressHandler.ListAddresses)
		userGroup.POST("/addresses", r.params.AddressHandler.CreateAddress)
		userGroup.GET("/addresses/:id", r.params.AddressHandler.GetAddress)
		userGroup.PUT("/addresses/:id", r.params.AddressHandler.UpdateAddress)
		userGroup.DELETE("/addresses/:id", r.params.AddressHandler.DeleteAddress)
	}
}
