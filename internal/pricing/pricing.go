// Package pricing contient le moteur de prix : fonctions pures, aucun effet
// de bord. Les montants sont arrondis à l'unité à chaque étape d'agrégation,
// pour coller à ce que le front affiche (taxes et réduction séparées).
package pricing

import (
	"math"

	"fornello_back_end/internal/models"
)

const (
	// TaxRate est le taux de taxe appliqué sur le sous-total.
	TaxRate = 0.18
	// DeliveryCharges est le forfait de livraison. La réduction
	// "free-shipping" du Promo Ledger doit rester égale à cette constante.
	DeliveryCharges = 100.0
)

// PriceItem calcule le prix unitaire d'un article à partir de la table de
// prix du produit et de la personnalisation choisie. Chaque dimension
// présente dans la table s'additionne (ex. size + crust) ; une dimension
// absente de la table compte zéro. Table vide ou nil : prix zéro, jamais
// d'erreur.
func PriceItem(priceTable map[string]float64, customization map[string]string) float64 {
	var price float64
	for _, option := range customization {
		if p, ok := priceTable[option]; ok {
			price += p
		}
	}
	return price
}

// PriceOrder calcule le détail de prix d'une commande à partir des lignes du
// panier et d'une réduction promo déjà calculée. La réduction est bornée pour
// ne jamais dépasser sous-total + taxes + livraison.
func PriceOrder(items []models.CartItem, promoDiscount float64) models.Pricing {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = math.Round(subtotal)

	taxes := math.Round(subtotal * TaxRate)
	deliveryCharges := DeliveryCharges

	discount := math.Round(promoDiscount)
	if max := subtotal + taxes + deliveryCharges; discount > max {
		discount = max
	}
	if discount < 0 {
		discount = 0
	}

	return models.Pricing{
		Subtotal:        subtotal,
		Taxes:           taxes,
		DeliveryCharges: deliveryCharges,
		Discount:        discount,
		Total:           subtotal + taxes + deliveryCharges - discount,
	}
}
