package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/models"
	"fornello_back_end/internal/pricing"
	"fornello_back_end/internal/store"
)

// PromoService est le registre des codes promo : validation, calcul de
// réduction et comptabilité d'usage sans update perdu.
type PromoService struct {
	promos PromoStore
}

func NewPromoService(promos PromoStore) *PromoService {
	return &PromoService{promos: promos}
}

// Validate vérifie un code contre sa fenêtre de validité, son plafond
// d'usage et le montant minimum, dans cet ordre, en s'arrêtant au premier
// échec. Renvoie la réduction calculée sans consommer d'usage.
func (s *PromoService) Validate(ctx context.Context, code string, orderAmount float64) (float64, *models.Promo, error) {
	if code == "" {
		return 0, nil, apperrors.InvalidInput("Promo code is required")
	}

	promo, err := s.promos.GetByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil, apperrors.InvalidInput("Invalid promo code")
	}
	if err != nil {
		return 0, nil, apperrors.ServiceFailure("Failed to load promo", err)
	}
	if !promo.Active {
		return 0, nil, apperrors.InvalidInput("Invalid promo code")
	}

	now := time.Now()
	if now.Before(promo.ValidFrom) || now.After(promo.ValidTo) {
		return 0, nil, apperrors.InvalidState("Promo code has expired")
	}

	if promo.UsageLimit != nil && promo.UsedCount >= *promo.UsageLimit {
		return 0, nil, apperrors.InvalidState("Promo code usage limit reached")
	}

	if orderAmount < promo.MinOrderAmount {
		return 0, nil, apperrors.InvalidInput(fmt.Sprintf("Minimum order amount of ₹%.0f required", promo.MinOrderAmount))
	}

	return computeDiscount(promo, orderAmount), promo, nil
}

// Apply valide le code puis consomme un usage, à la création de commande
// uniquement. Si l'incrément atomique échoue parce qu'une requête
// concurrente a épuisé la limite, toute la création de commande échoue.
func (s *PromoService) Apply(ctx context.Context, code string, orderAmount float64) (float64, *models.Promo, error) {
	discount, promo, err := s.Validate(ctx, code, orderAmount)
	if err != nil {
		return 0, nil, err
	}

	if err := s.promos.Redeem(ctx, code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil, apperrors.InvalidInput("Invalid promo code")
		}
		if _, ok := apperrors.As(err); ok {
			return 0, nil, err
		}
		return 0, nil, apperrors.ServiceFailure("Failed to redeem promo", err)
	}

	return discount, promo, nil
}

// computeDiscount calcule le montant de réduction d'une promo déjà validée.
// La réduction free-shipping vaut exactement le forfait de livraison.
func computeDiscount(promo *models.Promo, orderAmount float64) float64 {
	switch promo.DiscountType {
	case models.DiscountPercentage:
		discount := math.Round(orderAmount * promo.DiscountValue / 100)
		if promo.MaxDiscount != nil && discount > *promo.MaxDiscount {
			discount = *promo.MaxDiscount
		}
		return discount
	case models.DiscountFixed:
		return promo.DiscountValue
	case models.DiscountFreeShipped:
		return pricing.DeliveryCharges
	}
	return 0
}

// CreatePromoInput porte les champs d'un nouveau code promo.
type CreatePromoInput struct {
	Code           string    `json:"code" binding:"required"`
	Description    string    `json:"description" binding:"required"`
	DiscountType   string    `json:"discountType" binding:"required"`
	DiscountValue  float64   `json:"discountValue"`
	MinOrderAmount float64   `json:"minOrderAmount"`
	MaxDiscount    *float64  `json:"maxDiscount"`
	ValidFrom      time.Time `json:"validFrom" binding:"required"`
	ValidTo        time.Time `json:"validTo" binding:"required"`
	UsageLimit     *int      `json:"usageLimit"`
	Active         *bool     `json:"active"`
}

// Create enregistre un nouveau code promo (back-office).
func (s *PromoService) Create(ctx context.Context, input CreatePromoInput) (*models.Promo, error) {
	if !models.ValidDiscountType(input.DiscountType) {
		return nil, apperrors.InvalidInput("Invalid discount type")
	}
	if input.DiscountType != models.DiscountFreeShipped && input.DiscountValue <= 0 {
		return nil, apperrors.InvalidInput("Discount value is required")
	}
	if input.ValidTo.Before(input.ValidFrom) {
		return nil, apperrors.InvalidInput("Validity window is inverted")
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))

	if _, err := s.promos.GetByCode(ctx, code); err == nil {
		return nil, apperrors.InvalidInput("Promo code already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ServiceFailure("Failed to check promo code", err)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := time.Now()
	promo := &models.Promo{
		ID:             gocql.TimeUUID().String(),
		Code:           code,
		Description:    input.Description,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		MinOrderAmount: input.MinOrderAmount,
		MaxDiscount:    input.MaxDiscount,
		ValidFrom:      input.ValidFrom,
		ValidTo:        input.ValidTo,
		UsageLimit:     input.UsageLimit,
		UsedCount:      0,
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.promos.Insert(ctx, promo); err != nil {
		return nil, apperrors.ServiceFailure("Failed to create promo", err)
	}
	return promo, nil
}

// List renvoie les promos, filtrées sur active et discountType.
func (s *PromoService) List(ctx context.Context, active *bool, discountType string) ([]models.Promo, error) {
	promos, err := s.promos.List(ctx, active, discountType)
	if err != nil {
		return nil, apperrors.ServiceFailure("Failed to list promos", err)
	}
	return promos, nil
}

func (s *PromoService) GetByID(ctx context.Context, id string) (*models.Promo, error) {
	promo, err := s.promos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Promo not found", "Failed to load promo")
	}
	return promo, nil
}

func (s *PromoService) GetByCode(ctx context.Context, code string) (*models.Promo, error) {
	promo, err := s.promos.GetByCode(ctx, code)
	if err != nil {
		return nil, storeErr(err, "Promo not found", "Failed to load promo")
	}
	return promo, nil
}

// UpdatePromoInput ne modifie que les champs fournis. UsedCount n'est pas
// modifiable : il ne bouge que par rachat.
type UpdatePromoInput struct {
	Description    *string    `json:"description"`
	DiscountType   *string    `json:"discountType"`
	DiscountValue  *float64   `json:"discountValue"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	MaxDiscount    *float64   `json:"maxDiscount"`
	ValidFrom      *time.Time `json:"validFrom"`
	ValidTo        *time.Time `json:"validTo"`
	UsageLimit     *int       `json:"usageLimit"`
	Active         *bool      `json:"active"`
}

func (s *PromoService) Update(ctx context.Context, id string, input UpdatePromoInput) (*models.Promo, error) {
	promo, err := s.promos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Promo not found", "Failed to load promo")
	}

	if input.Description != nil {
		promo.Description = *input.Description
	}
	if input.DiscountType != nil {
		if !models.ValidDiscountType(*input.DiscountType) {
			return nil, apperrors.InvalidInput("Invalid discount type")
		}
		promo.DiscountType = *input.DiscountType
	}
	if input.DiscountValue != nil {
		promo.DiscountValue = *input.DiscountValue
	}
	if input.MinOrderAmount != nil {
		promo.MinOrderAmount = *input.MinOrderAmount
	}
	if input.MaxDiscount != nil {
		promo.MaxDiscount = input.MaxDiscount
	}
	if input.ValidFrom != nil {
		promo.ValidFrom = *input.ValidFrom
	}
	if input.ValidTo != nil {
		promo.ValidTo = *input.ValidTo
	}
	if input.UsageLimit != nil {
		promo.UsageLimit = input.UsageLimit
	}
	if input.Active != nil {
		promo.Active = *input.Active
	}
	promo.UpdatedAt = time.Now()

	if err := s.promos.Update(ctx, promo); err != nil {
		return nil, apperrors.ServiceFailure("Failed to update promo", err)
	}
	return promo, nil
}

func (s *PromoService) Delete(ctx context.Context, id string) error {
	promo, err := s.promos.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "Promo not found", "Failed to load promo")
	}
	if err := s.promos.Delete(ctx, promo.Code); err != nil {
		return apperrors.ServiceFailure("Failed to delete promo", err)
	}
	return nil
}
