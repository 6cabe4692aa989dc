package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"fornello_back_end/internal/notify"
	"fornello_back_end/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// OrderWebSocketHandler pousse le suivi temps réel d'une commande : à chaque
// publication sur son canal Redis, la commande est relue et renvoyée au
// client.
type OrderWebSocketHandler struct {
	orders *services.OrderService
	redis  *redis.Client
}

func NewOrderWebSocketHandler(orders *services.OrderService, rdb *redis.Client) *OrderWebSocketHandler {
	return &OrderWebSocketHandler{orders: orders, redis: rdb}
}

// TrackOrder gère la connexion WebSocket de suivi d'une commande.
func (h *OrderWebSocketHandler) TrackOrder(c *gin.Context) {
	orderID := c.Param("id")
	scopeUserID := c.GetString("user_id")
	if c.GetString("role") == "admin" {
		scopeUserID = ""
	}

	// Vérifier l'accès avant l'upgrade : un client ne suit que ses commandes
	order, err := h.orders.GetByID(c.Request.Context(), orderID, scopeUserID)
	if err != nil {
		respondErr(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	pubsub := h.redis.Subscribe(ctx, notify.OrderChannel(orderID))
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":  "connected",
		"order": order,
	})

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			current, err := h.orders.GetByID(ctx, orderID, scopeUserID)
			if err != nil {
				log.Printf("⚠️ Relecture commande %s échouée: %v", orderID, err)
				continue
			}
			payload := map[string]interface{}{
				"type":  "order_updated",
				"event": msg.Payload,
				"order": current,
			}
			if err := conn.WriteJSON(payload); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ctx.Done():
			return
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
