package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fornello_back_end/internal/services"
)

// CartHandler expose le panier de l'utilisateur connecté.
type CartHandler struct {
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart renvoie le panier courant, vide s'il n'existe pas.
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, cart)
}

type addToCartRequest struct {
	ProductID     string            `json:"productId" binding:"required"`
	Customization map[string]string `json:"customization"`
	Quantity      int               `json:"quantity"`
}

// AddToCart ajoute un produit personnalisé au panier.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.Add(c.Request.Context(), c.GetString("user_id"), req.ProductID, req.Customization, req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, cart)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateCartItem remplace la quantité d'une ligne.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), c.GetString("user_id"), c.Param("itemId"), req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, cart)
}

// RemoveCartItem retire une ligne du panier.
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	cart, err := h.carts.Remove(c.Request.Context(), c.GetString("user_id"), c.Param("itemId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, cart)
}

// ClearCart vide le panier.
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), c.GetString("user_id")); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Cart cleared")
}
