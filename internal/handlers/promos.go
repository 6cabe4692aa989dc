package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fornello_back_end/internal/services"
)

// PromoHandler expose la validation client et le CRUD back-office des codes
// promo.
type PromoHandler struct {
	promos *services.PromoService
}

func NewPromoHandler(promos *services.PromoService) *PromoHandler {
	return &PromoHandler{promos: promos}
}

type validatePromoRequest struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"orderAmount"`
}

// ValidatePromo vérifie un code et renvoie la réduction calculée, sans
// consommer d'usage.
func (h *PromoHandler) ValidatePromo(c *gin.Context) {
	var req validatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	discount, promo, err := h.promos.Validate(c.Request.Context(), req.Code, req.OrderAmount)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"code":         promo.Code,
		"description":  promo.Description,
		"discountType": promo.DiscountType,
		"discount":     discount,
	})
}

// CreatePromo enregistre un nouveau code promo (admin).
func (h *PromoHandler) CreatePromo(c *gin.Context) {
	var input services.CreatePromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	promo, err := h.promos.Create(c.Request.Context(), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusCreated, promo)
}

// ListPromos liste les promos, filtrables par active et discountType (admin).
func (h *PromoHandler) ListPromos(c *gin.Context) {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "Invalid active filter")
			return
		}
		active = &parsed
	}

	promos, err := h.promos.List(c.Request.Context(), active, c.Query("discountType"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, promos)
}

// GetPromo renvoie une promo par identifiant (admin).
func (h *PromoHandler) GetPromo(c *gin.Context) {
	promo, err := h.promos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, promo)
}

// UpdatePromo modifie les champs fournis d'une promo (admin).
func (h *PromoHandler) UpdatePromo(c *gin.Context) {
	var input services.UpdatePromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	promo, err := h.promos.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, promo)
}

// DeletePromo supprime une promo (admin).
func (h *PromoHandler) DeletePromo(c *gin.Context) {
	if err := h.promos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Promo deleted")
}
