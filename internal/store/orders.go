package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/gocql/gocql"

	"fornello_back_end/internal/models"
)

// OrderStore persiste les commandes dans le keyspace orders. Les lignes de
// commande sont figées en JSON dans la colonne items : elles ne sont jamais
// modifiées après création. Une commande n'est jamais supprimée.
type OrderStore struct {
	session *gocql.Session
}

func NewOrderStore(session *gocql.Session) *OrderStore {
	return &OrderStore{session: session}
}

const orderColumns = `order_id, user_id, customer_first_name, customer_last_name, customer_email,
	items, delivery_address, payment_mode, payment_status, stripe_session_id, comment,
	subtotal, taxes, delivery_charges, discount, total, promo_code, status,
	cancelled_at, cancelled_by, refund_id, refund_amount, refund_status, refunded_at, created_at`

func (s *OrderStore) Insert(ctx context.Context, o *models.Order) error {
	orderID, err := gocql.ParseUUID(o.ID)
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	return s.session.Query(`INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderID, o.UserID, o.Customer.FirstName, o.Customer.LastName, o.Customer.Email,
		string(itemsJSON), o.DeliveryAddress, o.PaymentMode, o.PaymentStatus, o.StripeSessionID, o.Comment,
		o.Pricing.Subtotal, o.Pricing.Taxes, o.Pricing.DeliveryCharges, o.Pricing.Discount, o.Pricing.Total,
		o.PromoCode, o.Status, o.CancelledAt, o.CancelledBy,
		o.Refund.StripeRefundID, o.Refund.Amount, o.Refund.Status, o.Refund.RefundedAt, o.CreatedAt).
		WithContext(ctx).Exec()
}

func scanOrder(scanner interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	var orderID gocql.UUID
	var itemsJSON string

	err := scanner.Scan(&orderID, &o.UserID, &o.Customer.FirstName, &o.Customer.LastName, &o.Customer.Email,
		&itemsJSON, &o.DeliveryAddress, &o.PaymentMode, &o.PaymentStatus, &o.StripeSessionID, &o.Comment,
		&o.Pricing.Subtotal, &o.Pricing.Taxes, &o.Pricing.DeliveryCharges, &o.Pricing.Discount, &o.Pricing.Total,
		&o.PromoCode, &o.Status, &o.CancelledAt, &o.CancelledBy,
		&o.Refund.StripeRefundID, &o.Refund.Amount, &o.Refund.Status, &o.Refund.RefundedAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	o.ID = orderID.String()
	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	orderID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q := s.session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID).
		WithContext(ctx)

	order, err := scanOrder(q)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	iter := s.session.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ALLOW FILTERING`,
		userID).WithContext(ctx).Iter()
	return collectOrders(iter, models.OrderFilters{})
}

// List renvoie toutes les commandes, filtrées côté application sur
// status/paymentStatus/paymentMode, plus récentes d'abord.
func (s *OrderStore) List(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	iter := s.session.Query(`SELECT ` + orderColumns + ` FROM orders`).WithContext(ctx).Iter()
	return collectOrders(iter, filters)
}

func collectOrders(iter *gocql.Iter, filters models.OrderFilters) ([]models.Order, error) {
	var orders []models.Order
	for {
		var o models.Order
		var orderID gocql.UUID
		var itemsJSON string

		if !iter.Scan(&orderID, &o.UserID, &o.Customer.FirstName, &o.Customer.LastName, &o.Customer.Email,
			&itemsJSON, &o.DeliveryAddress, &o.PaymentMode, &o.PaymentStatus, &o.StripeSessionID, &o.Comment,
			&o.Pricing.Subtotal, &o.Pricing.Taxes, &o.Pricing.DeliveryCharges, &o.Pricing.Discount, &o.Pricing.Total,
			&o.PromoCode, &o.Status, &o.CancelledAt, &o.CancelledBy,
			&o.Refund.StripeRefundID, &o.Refund.Amount, &o.Refund.Status, &o.Refund.RefundedAt, &o.CreatedAt) {
			break
		}

		o.ID = orderID.String()
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			return nil, err
		}

		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		if filters.PaymentStatus != "" && o.PaymentStatus != filters.PaymentStatus {
			continue
		}
		if filters.PaymentMode != "" && o.PaymentMode != filters.PaymentMode {
			continue
		}
		orders = append(orders, o)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id, status string) error {
	orderID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	return s.session.Query(`UPDATE orders SET status = ? WHERE order_id = ?`, status, orderID).
		WithContext(ctx).Exec()
}

func (s *OrderStore) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	orderID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	return s.session.Query(`UPDATE orders SET payment_status = ? WHERE order_id = ?`, paymentStatus, orderID).
		WithContext(ctx).Exec()
}

// MarkPaid enregistre la session de paiement et passe la commande en PAID.
func (s *OrderStore) MarkPaid(ctx context.Context, id, sessionID string) error {
	orderID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	return s.session.Query(`UPDATE orders SET payment_status = ?, stripe_session_id = ? WHERE order_id = ?`,
		models.PaymentPaid, sessionID, orderID).
		WithContext(ctx).Exec()
}

func (s *OrderStore) MarkCancelled(ctx context.Context, id, cancelledBy string, cancelledAt time.Time) error {
	orderID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	return s.session.Query(`UPDATE orders SET status = ?, cancelled_at = ?, cancelled_by = ? WHERE order_id = ?`,
		models.StatusCancelled, cancelledAt, cancelledBy, orderID).
		WithContext(ctx).Exec()
}

// UpdateRefund réécrit le sous-état de remboursement de la commande.
func (s *OrderStore) UpdateRefund(ctx context.Context, id string, refund models.Refund) error {
	orderID, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	return s.session.Query(`UPDATE orders SET refund_id = ?, refund_amount = ?, refund_status = ?, refunded_at = ? WHERE order_id = ?`,
		refund.StripeRefundID, refund.Amount, refund.Status, refund.RefundedAt, orderID).
		WithContext(ctx).Exec()
}
