package models

import "time"

// Types de réduction.
const (
	DiscountPercentage  = "percentage"
	DiscountFixed       = "fixed"
	DiscountFreeShipped = "free-shipping"
)

// ValidDiscountType vérifie qu'un type de réduction fait partie de l'énum.
func ValidDiscountType(t string) bool {
	return t == DiscountPercentage || t == DiscountFixed || t == DiscountFreeShipped
}

// Promo est un code de réduction avec fenêtre de validité et plafond d'usage.
// UsedCount ne fait que croître ; l'incrément est sérialisé par code (LWT).
type Promo struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"` // toujours normalisé en majuscules
	Description    string    `json:"description"`
	DiscountType   string    `json:"discountType"`
	DiscountValue  float64   `json:"discountValue"`
	MinOrderAmount float64   `json:"minOrderAmount"`
	MaxDiscount    *float64  `json:"maxDiscount,omitempty"` // plafond de réduction, nil = sans plafond
	ValidFrom      time.Time `json:"validFrom"`
	ValidTo        time.Time `json:"validTo"`
	UsageLimit     *int      `json:"usageLimit,omitempty"` // nil = illimité
	UsedCount      int       `json:"usedCount"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
