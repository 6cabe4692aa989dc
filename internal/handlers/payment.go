package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fornello_back_end/internal/services"
)

// PaymentHandler expose le checkout, la vérification de paiement et le
// remboursement.
type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type checkoutRequest struct {
	OrderID string `json:"orderId"`
}

// CreateCheckoutSession ouvre une session de paiement hébergée pour une
// commande de l'utilisateur connecté.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	session, err := h.payments.CreateCheckoutSession(c.Request.Context(), c.GetString("user_id"), req.OrderID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, session)
}

type verifyPaymentRequest struct {
	SessionID string `json:"sessionId"`
	OrderID   string `json:"orderId"`
}

// VerifyPayment confirme un paiement auprès de la passerelle après le retour
// du checkout.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	order, err := h.payments.VerifyPayment(c.Request.Context(), req.SessionID, req.OrderID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// CreateRefund rembourse intégralement une commande annulée et payée (admin).
func (h *PaymentHandler) CreateRefund(c *gin.Context) {
	order, err := h.payments.CreateRefund(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}
