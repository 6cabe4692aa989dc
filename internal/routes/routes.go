package routes

import (
	"github.com/gin-gonic/gin"

	"fornello_back_end/internal/handlers"
	"fornello_back_end/internal/middleware"
)

// Handlers regroupe les handlers câblés au démarrage.
type Handlers struct {
	Cart    *handlers.CartHandler
	Orders  *handlers.OrderHandler
	Promos  *handlers.PromoHandler
	Payment *handlers.PaymentHandler
	OrderWS *handlers.OrderWebSocketHandler
}

// RegisterRoutes monte l'API sous /api. Tout est authentifié ; le
// back-office passe en plus par RequireAdmin.
func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret string) {
	api := r.Group("/api")
	api.Use(middleware.AuthRequired(jwtSecret))

	cart := api.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:itemId", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:itemId", h.Cart.RemoveCartItem)
		cart.DELETE("", h.Cart.ClearCart)
	}

	orders := api.Group("/orders")
	{
		// Routes fixes avant les routes paramétrées
		orders.GET("/my", h.Orders.GetMyOrders)
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.POST("/:id/cancel", h.Orders.CancelOrder)
		orders.GET("/:id/ws", h.OrderWS.TrackOrder)
	}

	promos := api.Group("/promos")
	{
		promos.POST("/validate", h.Promos.ValidatePromo)
	}

	payment := api.Group("/payment")
	{
		payment.POST("/create-checkout-session", h.Payment.CreateCheckoutSession)
		payment.POST("/verify", h.Payment.VerifyPayment)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin)
	{
		admin.GET("/orders", h.Orders.ListOrders)
		admin.GET("/orders/stats", h.Orders.GetOrderStats)
		admin.PUT("/orders/:id/status", h.Orders.UpdateOrderStatus)
		admin.PUT("/orders/:id/payment-status", h.Orders.UpdatePaymentStatus)
		admin.POST("/orders/:id/refund", h.Payment.CreateRefund)

		admin.POST("/promos", h.Promos.CreatePromo)
		admin.GET("/promos", h.Promos.ListPromos)
		admin.GET("/promos/:id", h.Promos.GetPromo)
		admin.PUT("/promos/:id", h.Promos.UpdatePromo)
		admin.DELETE("/promos/:id", h.Promos.DeletePromo)
	}
}
