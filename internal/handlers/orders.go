package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fornello_back_end/internal/models"
	"fornello_back_end/internal/services"
)

// OrderHandler expose le cycle de vie des commandes, côté client et
// back-office.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder fige le panier courant en commande.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orders.Create(c.Request.Context(), c.GetString("user_id"), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusCreated, order)
}

// GetMyOrders liste les commandes de l'utilisateur connecté.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	orders, err := h.orders.ListForUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetOrder renvoie une commande. Un client ne voit que les siennes, un admin
// voit tout.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	scopeUserID := c.GetString("user_id")
	if c.GetString("role") == "admin" {
		scopeUserID = ""
	}

	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"), scopeUserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// CancelOrder annule une commande non terminale.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.orders.Cancel(c.Request.Context(), c.Param("id"), c.GetString("user_id"), c.GetString("role"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// ListOrders liste toutes les commandes, filtrables par statut, statut de
// paiement et mode de paiement (admin).
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filters := models.OrderFilters{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		PaymentMode:   c.Query("paymentMode"),
	}

	orders, err := h.orders.ListAll(c.Request.Context(), filters)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus positionne le statut d'une commande (admin).
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// UpdatePaymentStatus positionne le statut de paiement d'une commande (admin).
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// GetOrderStats agrège total, chiffre d'affaires et répartition par statut
// (admin).
func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}
