package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/gateway"
	"fornello_back_end/internal/models"
)

// PaymentService réconcilie les commandes avec la passerelle de paiement :
// création de session de checkout, vérification de paiement, remboursement.
type PaymentService struct {
	orders      OrderStore
	gateway     gateway.Gateway
	notifier    Notifier
	frontendURL string
}

func NewPaymentService(orders OrderStore, gw gateway.Gateway, notifier Notifier, frontendURL string) *PaymentService {
	return &PaymentService{orders: orders, gateway: gw, notifier: notifier, frontendURL: frontendURL}
}

// CheckoutSession est la réponse de CreateCheckoutSession.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreateCheckoutSession construit la session de paiement hébergée pour une
// commande : une ligne par article en centimes, des lignes synthétiques pour
// taxes et livraison, et une ligne négative pour la réduction, afin que le
// total côté passerelle se réconcilie exactement avec le total stocké.
// Aucun état local n'est modifié : un échec passerelle se rejoue sans risque.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID, orderID string) (*CheckoutSession, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("Order ID is required")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "Order not found", "Failed to load order")
	}
	if order.UserID != userID {
		return nil, apperrors.Forbidden("Unauthorized access to order")
	}

	lineItems := make([]gateway.LineItem, 0, len(order.Items)+3)
	for _, item := range order.Items {
		line := gateway.LineItem{
			Name:        item.Name,
			Description: customizationSummary(item.Customization),
			UnitAmount:  toMinorUnits(item.Price),
			Quantity:    int64(item.Quantity),
		}
		if item.Image != "" {
			line.Images = []string{item.Image}
		}
		lineItems = append(lineItems, line)
	}
	if order.Pricing.Taxes > 0 {
		lineItems = append(lineItems, gateway.LineItem{
			Name:       "Taxes (18%)",
			UnitAmount: toMinorUnits(order.Pricing.Taxes),
			Quantity:   1,
		})
	}
	if order.Pricing.DeliveryCharges > 0 {
		lineItems = append(lineItems, gateway.LineItem{
			Name:       "Delivery Charges",
			UnitAmount: toMinorUnits(order.Pricing.DeliveryCharges),
			Quantity:   1,
		})
	}
	if order.Pricing.Discount > 0 {
		lineItems = append(lineItems, gateway.LineItem{
			Name:       fmt.Sprintf("Discount (%s)", order.PromoCode),
			UnitAmount: -toMinorUnits(order.Pricing.Discount),
			Quantity:   1,
		})
	}

	session, err := s.gateway.CreateSession(ctx, &gateway.SessionRequest{
		LineItems:     lineItems,
		SuccessURL:    s.frontendURL + "/order-success?session_id={CHECKOUT_SESSION_ID}&order_id=" + orderID,
		CancelURL:     s.frontendURL + "/checkout",
		CustomerEmail: order.Customer.Email,
		Metadata: map[string]string{
			"orderId": orderID,
			"userId":  userID,
		},
	})
	if err != nil {
		log.Printf("❌ Erreur Stripe création session: %v", err)
		return nil, apperrors.ServiceFailure("Failed to create checkout session", err)
	}

	log.Printf("💳 Session de checkout créée: %s pour la commande %s", session.ID, orderID)
	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

// VerifyPayment interroge la passerelle sur l'état d'une session. Tant que
// le paiement n'est pas confirmé côté passerelle, l'appel échoue en
// InvalidState et la commande reste inchangée : l'appelant retentera.
func (s *PaymentService) VerifyPayment(ctx context.Context, sessionID, orderID string) (*models.Order, error) {
	if sessionID == "" || orderID == "" {
		return nil, apperrors.InvalidInput("Session ID and Order ID are required")
	}

	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("❌ Erreur Stripe vérification paiement: %v", err)
		return nil, apperrors.ServiceFailure("Failed to verify payment", err)
	}
	if !session.Paid {
		return nil, apperrors.InvalidState("Payment not completed")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "Order not found", "Failed to load order")
	}

	if err := s.orders.MarkPaid(ctx, orderID, sessionID); err != nil {
		return nil, apperrors.ServiceFailure("Failed to record payment", err)
	}
	order.PaymentStatus = models.PaymentPaid
	order.StripeSessionID = sessionID

	if s.notifier != nil {
		s.notifier.OrderUpdated(order.ID)
	}
	return order, nil
}

// CreateRefund rembourse intégralement une commande annulée et payée.
// Le sous-état passe à PENDING et est persisté avant l'appel passerelle :
// un crash en plein vol laisse un état visible, pas un NONE silencieux.
// En cas d'échec de l'appel, la commande est marquée FAILED au mieux (un
// échec de cette écriture de rattrapage est loggé, jamais propagé) et
// l'erreur d'origine est rendue à l'appelant.
func (s *PaymentService) CreateRefund(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "Order not found", "Failed to load order")
	}

	if order.PaymentStatus != models.PaymentPaid {
		return nil, apperrors.InvalidState("Cannot refund an unpaid order")
	}
	if order.Status != models.StatusCancelled {
		return nil, apperrors.InvalidState("Can only refund cancelled orders")
	}
	if order.Refund.Status == models.RefundCompleted {
		return nil, apperrors.InvalidState("Order already refunded")
	}
	if order.StripeSessionID == "" {
		return nil, apperrors.InvalidState("No payment record found for this order")
	}

	session, err := s.gateway.GetSession(ctx, order.StripeSessionID)
	if err != nil {
		log.Printf("❌ Erreur Stripe lecture session: %v", err)
		return nil, apperrors.ServiceFailure("Failed to retrieve payment session", err)
	}
	if session.PaymentIntentID == "" {
		return nil, apperrors.InvalidState("No payment intent found for this order")
	}

	refund := order.Refund
	refund.Status = models.RefundPending
	if err := s.orders.UpdateRefund(ctx, orderID, refund); err != nil {
		return nil, apperrors.ServiceFailure("Failed to record refund state", err)
	}
	order.Refund = refund

	result, err := s.gateway.CreateRefund(ctx, &gateway.RefundRequest{
		PaymentIntentID: session.PaymentIntentID,
		Amount:          toMinorUnits(order.Pricing.Total),
		Metadata:        map[string]string{"orderId": orderID},
	})
	if err != nil {
		log.Printf("❌ Erreur Stripe remboursement commande %s: %v", orderID, err)
		s.markRefundFailed(ctx, orderID, refund)
		return nil, apperrors.ServiceFailure("Failed to create refund", err)
	}

	now := time.Now()
	refund.StripeRefundID = result.ID
	refund.Amount = order.Pricing.Total
	refund.RefundedAt = &now
	if result.Succeeded {
		refund.Status = models.RefundCompleted
	}

	if err := s.orders.UpdateRefund(ctx, orderID, refund); err != nil {
		// Le remboursement passerelle est parti ; l'état local restera
		// PENDING jusqu'à une reprise manuelle.
		log.Printf("⚠️ Remboursement %s émis mais non enregistré: %v", result.ID, err)
		return nil, apperrors.ServiceFailure("Refund issued but not recorded", err)
	}
	order.Refund = refund

	if refund.Status == models.RefundCompleted {
		if err := s.orders.UpdatePaymentStatus(ctx, orderID, models.PaymentRefunded); err != nil {
			log.Printf("⚠️ Statut paiement non passé à REFUNDED pour %s: %v", orderID, err)
		} else {
			order.PaymentStatus = models.PaymentRefunded
		}
	}

	log.Printf("💰 Remboursement traité: %s (commande %s, statut %s)", result.ID, orderID, refund.Status)

	if s.notifier != nil {
		s.notifier.OrderUpdated(order.ID)
	}
	return order, nil
}

// markRefundFailed est l'écriture de rattrapage après un échec passerelle.
// Son propre échec est avalé et loggé pour ne pas masquer l'erreur primaire.
func (s *PaymentService) markRefundFailed(ctx context.Context, orderID string, refund models.Refund) {
	refund.Status = models.RefundFailed
	if err := s.orders.UpdateRefund(ctx, orderID, refund); err != nil {
		log.Printf("⚠️ Impossible de marquer le remboursement FAILED pour %s: %v", orderID, err)
	}
}

// customizationSummary rend la personnalisation lisible pour la passerelle,
// dans un ordre de clés stable.
func customizationSummary(customization map[string]string) string {
	if len(customization) == 0 {
		return ""
	}
	keys := make([]string, 0, len(customization))
	for k := range customization {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, customization[k])
	}
	return strings.Join(values, ", ")
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
