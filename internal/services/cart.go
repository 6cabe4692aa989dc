package services

import (
	"context"

	"github.com/google/uuid"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/models"
	"fornello_back_end/internal/pricing"
)

// CartService gère le panier : ajout avec fusion, quantités, suppression.
// Le prix d'une ligne est calculé à l'ajout et jamais recalculé ensuite.
type CartService struct {
	products ProductStore
	carts    CartStore
}

func NewCartService(products ProductStore, carts CartStore) *CartService {
	return &CartService{products: products, carts: carts}
}

// Get renvoie le panier de l'utilisateur, vide s'il n'existe pas encore.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to load cart", err)
	}
	return cart, nil
}

// Add ajoute un produit au panier. Si une ligne avec le même produit et la
// même personnalisation existe déjà, sa quantité est incrémentée au lieu de
// créer un doublon.
func (s *CartService) Add(ctx context.Context, userID, productID string, customization map[string]string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidInput("Quantity must be at least 1")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err, "Product not found", "Failed to load product")
	}
	if !product.Published {
		return nil, apperrors.InvalidState("Product is not available")
	}

	price := pricing.PriceItem(product.Pricing, customization)

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to load cart", err)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID && models.SameCustomization(cart.Items[i].Customization, customization) {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ID:            uuid.NewString(),
			ProductID:     productID,
			Name:          product.Name,
			Image:         product.Image,
			Category:      product.Category,
			Customization: customization,
			Price:         price,
			Quantity:      quantity,
		})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperrors.ServiceFailure("Failed to save cart", err)
	}
	return cart, nil
}

// UpdateQuantity remplace la quantité d'une ligne existante.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidInput("Quantity must be at least 1")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to load cart", err)
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			if err := s.carts.Save(ctx, cart); err != nil {
				return nil, apperrors.ServiceFailure("Failed to save cart", err)
			}
			return cart, nil
		}
	}
	return nil, apperrors.NotFound("Cart item not found")
}

// Remove retire une ligne du panier.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to load cart", err)
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			if err := s.carts.Save(ctx, cart); err != nil {
				return nil, apperrors.ServiceFailure("Failed to save cart", err)
			}
			return cart, nil
		}
	}
	return nil, apperrors.NotFound("Cart item not found")
}

// Clear vide le panier. Idempotent.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return apperrors.ServiceFailure("Failed to clear cart", err)
	}
	return nil
}
