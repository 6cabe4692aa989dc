package models

import "time"

// Catégories de produits supportées.
const (
	CategoryPizza     = "pizza"
	CategoryBeverages = "beverages"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	// Table de prix par dimension de personnalisation.
	// Pizza : { small: 400, medium: 500, large: 600, thin: 50, thick: 100 }
	// Boissons : { ml100: 20, ml330: 40, ml500: 60, warm: 0, cold: 10 }
	Pricing   map[string]float64 `json:"pricing"`
	Published bool               `json:"published"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
