package models

import "time"

// Statuts de commande. Delivered et Cancelled sont terminaux.
const (
	StatusReceived       = "Received"
	StatusConfirmed      = "Confirmed"
	StatusPrepared       = "Prepared"
	StatusOutForDelivery = "Out for delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

// Statuts de paiement.
const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Modes de paiement.
const (
	PaymentModeCard = "card"
	PaymentModeCash = "cash"
)

// Statuts du sous-état de remboursement. FAILED n'est pas terminal :
// une nouvelle tentative peut repasser par PENDING.
const (
	RefundNone      = "NONE"
	RefundPending   = "PENDING"
	RefundCompleted = "COMPLETED"
	RefundFailed    = "FAILED"
)

// ValidStatus vérifie qu'un statut de commande fait partie de l'énum.
func ValidStatus(s string) bool {
	switch s {
	case StatusReceived, StatusConfirmed, StatusPrepared, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// TerminalStatus indique si un statut n'admet plus aucune transition.
func TerminalStatus(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ValidPaymentStatus vérifie qu'un statut de paiement fait partie de l'énum.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// ValidPaymentMode vérifie qu'un mode de paiement fait partie de l'énum.
func ValidPaymentMode(m string) bool {
	return m == PaymentModeCard || m == PaymentModeCash
}

// OrderItem est la copie figée d'une ligne de panier au moment du checkout.
type OrderItem struct {
	ProductID     string            `json:"productId"`
	Name          string            `json:"name"`
	Image         string            `json:"image"`
	Category      string            `json:"category"`
	Customization map[string]string `json:"customization"`
	Price         float64           `json:"price"`
	Quantity      int               `json:"quantity"`
}

// Customer est l'instantané des coordonnées client pris à la création.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Pricing est le détail de prix d'une commande, figé à la création.
type Pricing struct {
	Subtotal        float64 `json:"subtotal"`
	Taxes           float64 `json:"taxes"`
	DeliveryCharges float64 `json:"deliveryCharges"`
	Discount        float64 `json:"discount"`
	Total           float64 `json:"total"`
}

// Refund est le sous-état de remboursement embarqué dans la commande.
type Refund struct {
	StripeRefundID string     `json:"stripeRefundId,omitempty"`
	Amount         float64    `json:"amount"`
	Status         string     `json:"status"`
	RefundedAt     *time.Time `json:"refundedAt,omitempty"`
}

// Order est immuable après création, à l'exception de Status, PaymentStatus,
// StripeSessionID, des champs d'annulation et du sous-état Refund.
// Une commande n'est jamais supprimée (audit).
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Customer        Customer    `json:"customer"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMode     string      `json:"paymentMode"`
	PaymentStatus   string      `json:"paymentStatus"`
	StripeSessionID string      `json:"stripeSessionId,omitempty"`
	Comment         string      `json:"comment"`
	Pricing         Pricing     `json:"pricing"`
	PromoCode       string      `json:"promoCode"`
	Status          string      `json:"status"`
	CancelledAt     *time.Time  `json:"cancelledAt,omitempty"`
	CancelledBy     string      `json:"cancelledBy,omitempty"`
	Refund          Refund      `json:"refund"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderStats est l'agrégat lecture seule exposé au back-office.
type OrderStats struct {
	TotalOrders    int            `json:"totalOrders"`
	TotalRevenue   float64        `json:"totalRevenue"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
}

// OrderFilters restreint les listings administrateur.
type OrderFilters struct {
	Status        string
	PaymentStatus string
	PaymentMode   string
}
