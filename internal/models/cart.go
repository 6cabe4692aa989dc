package models

// CartItem est une ligne de panier. Le prix est figé au moment de l'ajout et
// n'est jamais recalculé, même si le tarif produit change avant le checkout.
type CartItem struct {
	ID            string            `json:"id"`
	ProductID     string            `json:"productId"`
	Name          string            `json:"name"`
	Image         string            `json:"image"`
	Category      string            `json:"category"`
	Customization map[string]string `json:"customization"`
	Price         float64           `json:"price"`
	Quantity      int               `json:"quantity"`
}

// Cart est le document panier complet d'un utilisateur (un seul par user).
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// SameCustomization compare deux personnalisations par égalité clé/valeur,
// sans tenir compte de l'ordre des clés.
func SameCustomization(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
