package services

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/gocql/gocql"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/models"
	"fornello_back_end/internal/pricing"
)

// OrderService pilote le cycle de vie des commandes : création depuis le
// panier, lectures, transitions de statut et annulation. Les mutations
// relisent toujours l'état courant avant de vérifier leurs gardes.
type OrderService struct {
	carts    CartStore
	orders   OrderStore
	promos   *PromoService
	notifier Notifier
}

func NewOrderService(carts CartStore, orders OrderStore, promos *PromoService, notifier Notifier) *OrderService {
	return &OrderService{carts: carts, orders: orders, promos: promos, notifier: notifier}
}

// CreateOrderInput porte la charge utile du checkout.
type CreateOrderInput struct {
	Customer        models.Customer `json:"customer" binding:"required"`
	DeliveryAddress string          `json:"deliveryAddress" binding:"required"`
	PaymentMode     string          `json:"paymentMode" binding:"required"`
	PromoCode       string          `json:"promoCode"`
	Comment         string          `json:"comment"`
}

// Create fige le panier en une commande immuable : prix verrouillés,
// réduction promo appliquée (et usage consommé), détail de prix calculé.
// Le panier n'est vidé qu'après persistance réussie de la commande.
func (s *OrderService) Create(ctx context.Context, userID string, input CreateOrderInput) (*models.Order, error) {
	if !models.ValidPaymentMode(input.PaymentMode) {
		return nil, apperrors.InvalidInput("Invalid payment mode")
	}
	if input.DeliveryAddress == "" {
		return nil, apperrors.InvalidInput("Delivery address is required")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to load cart", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidState("Cart is empty")
	}

	var subtotal float64
	for _, item := range cart.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = math.Round(subtotal)

	// La réduction se valide sur le sous-total ; un échec promo annule
	// toute la création.
	var discount float64
	if input.PromoCode != "" {
		discount, _, err = s.promos.Apply(ctx, input.PromoCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		customization := make(map[string]string, len(item.Customization))
		for k, v := range item.Customization {
			customization[k] = v
		}
		items = append(items, models.OrderItem{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			Category:      item.Category,
			Customization: customization,
			Price:         item.Price,
			Quantity:      item.Quantity,
		})
	}

	// Comportement assumé : une commande carte est marquée PAID dès la
	// création, la confirmation passerelle arrive après coup.
	paymentStatus := models.PaymentPending
	if input.PaymentMode == models.PaymentModeCard {
		paymentStatus = models.PaymentPaid
	}

	order := &models.Order{
		ID:              gocql.TimeUUID().String(),
		UserID:          userID,
		Customer:        input.Customer,
		Items:           items,
		DeliveryAddress: input.DeliveryAddress,
		PaymentMode:     input.PaymentMode,
		PaymentStatus:   paymentStatus,
		Comment:         input.Comment,
		Pricing:         pricing.PriceOrder(cart.Items, discount),
		PromoCode:       input.PromoCode,
		Status:          models.StatusReceived,
		Refund:          models.Refund{Status: models.RefundNone},
		CreatedAt:       time.Now(),
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, apperrors.ServiceFailure("Failed to create order", err)
	}

	// Le panier ne se vide qu'une fois la commande persistée ; un échec ici
	// ne doit pas faire échouer une commande déjà créée.
	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("⚠️ Panier non vidé après la commande %s: %v", order.ID, err)
	}

	return order, nil
}

// GetByID renvoie une commande. Avec un scopeUserID non vide, la commande
// doit appartenir à cet utilisateur, sinon la lecture répond NotFound
// (isolation des lectures client ; les lectures admin passent un scope vide).
func (s *OrderService) GetByID(ctx context.Context, orderID, scopeUserID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "Order not found", "Failed to load order")
	}
	if scopeUserID != "" && order.UserID != scopeUserID {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}

// ListForUser renvoie les commandes d'un utilisateur, plus récentes d'abord.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to list orders", err)
	}
	return orders, nil
}

// ListAll renvoie toutes les commandes filtrées, plus récentes d'abord.
func (s *OrderService) ListAll(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	orders, err := s.orders.List(ctx, filters)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to list orders", err)
	}
	return orders, nil
}

// UpdateStatus positionne directement le statut demandé. Tout membre de
// l'énum est accepté depuis n'importe quel état : la progression linéaire
// n'est volontairement pas imposée.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, apperrors.InvalidInput("Invalid order status")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "Order not found", "Failed to load order")
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, apperrors.ServiceFailure("Failed to update order status", err)
	}
	order.Status = status

	if s.notifier != nil {
		s.notifier.StatusChanged(order, status)
	}
	return order, nil
}

// UpdatePaymentStatus positionne directement le statut de paiement demandé.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) (*models.Order, error) {
	if !models.ValidPaymentStatus(paymentStatus) {
		return nil, apperrors.InvalidInput("Invalid payment status")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "Order not found", "Failed to load order")
	}

	if err := s.orders.UpdatePaymentStatus(ctx, orderID, paymentStatus); err != nil {
		return nil, apperrors.ServiceFailure("Failed to update payment status", err)
	}
	order.PaymentStatus = paymentStatus

	if s.notifier != nil {
		s.notifier.OrderUpdated(order.ID)
	}
	return order, nil
}

// Cancel annule une commande non terminale. Le client ne peut annuler que
// ses propres commandes ; un admin peut tout annuler. L'annulation ne
// déclenche aucun remboursement : c'est une opération séparée, pour que
// l'annulation reste possible passerelle injoignable.
func (s *OrderService) Cancel(ctx context.Context, orderID, actingUserID, actingRole string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "Order not found", "Failed to load order")
	}

	if models.TerminalStatus(order.Status) {
		return nil, apperrors.InvalidState("Order can no longer be cancelled")
	}
	if actingRole != "admin" && order.UserID != actingUserID {
		return nil, apperrors.Forbidden("You are not allowed to cancel this order")
	}

	now := time.Now()
	if err := s.orders.MarkCancelled(ctx, orderID, actingUserID, now); err != nil {
		return nil, apperrors.ServiceFailure("Failed to cancel order", err)
	}

	order.Status = models.StatusCancelled
	order.CancelledAt = &now
	order.CancelledBy = actingUserID

	if s.notifier != nil {
		s.notifier.StatusChanged(order, models.StatusCancelled)
	}
	return order, nil
}

// Stats agrège le total des commandes, le chiffre d'affaires et la
// répartition par statut. Lecture seule.
func (s *OrderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	orders, err := s.orders.List(ctx, models.OrderFilters{})
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to load orders", err)
	}

	stats := &models.OrderStats{
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[string]int),
	}
	for _, order := range orders {
		stats.TotalRevenue += order.Pricing.Total
		stats.OrdersByStatus[order.Status]++
	}
	return stats, nil
}
