// Package notify diffuse les événements de commande : publication Redis pour
// la synchronisation temps réel, et email de statut au client. Livraison au
// mieux : aucun échec ici ne remonte jusqu'à l'opération métier.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"fornello_back_end/internal/models"
)

const publishTimeout = 2 * time.Second

// OrderChannel est le canal Redis d'une commande, écouté par le handler
// WebSocket de suivi.
func OrderChannel(orderID string) string {
	return "order:" + orderID
}

// RedisNotifier publie sur Redis et délègue les emails au Mailer.
// Le Mailer peut être nil (emails désactivés).
type RedisNotifier struct {
	redis  *redis.Client
	mailer *Mailer
}

func NewRedisNotifier(rdb *redis.Client, mailer *Mailer) *RedisNotifier {
	return &RedisNotifier{redis: rdb, mailer: mailer}
}

// OrderUpdated signale un changement sur la commande (paiement, remboursement).
func (n *RedisNotifier) OrderUpdated(orderID string) {
	n.publish(orderID, "updated")
}

// StatusChanged signale un changement de statut et envoie l'email au client
// en arrière-plan.
func (n *RedisNotifier) StatusChanged(order *models.Order, newStatus string) {
	n.publish(order.ID, newStatus)

	if n.mailer == nil || order.Customer.Email == "" {
		return
	}
	go func(order models.Order, status string) {
		if err := n.mailer.SendStatusEmail(order, status); err != nil {
			log.Printf("❌ Erreur envoi email statut commande %s: %v", order.ID, err)
		}
	}(*order, newStatus)
}

func (n *RedisNotifier) publish(orderID, payload string) {
	if n.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.redis.Publish(ctx, OrderChannel(orderID), payload).Err(); err != nil {
		log.Printf("⚠️ Publication Redis échouée pour la commande %s: %v", orderID, err)
	}
}
