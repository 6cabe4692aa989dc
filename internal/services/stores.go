// Package services contient le cœur métier : panier, promos, cycle de vie
// des commandes et réconciliation des paiements. Les services reçoivent des
// interfaces (stores, passerelle, notificateur) construites au démarrage ;
// les tests y branchent des implémentations en mémoire.
package services

import (
	"context"
	"errors"
	"time"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/models"
	"fornello_back_end/internal/store"
)

// ProductStore est la consultation catalogue dont le cœur a besoin.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// CartStore persiste le document panier complet d'un utilisateur.
type CartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID string) error
}

// PromoStore persiste les codes promo. Redeem doit incrémenter used_count
// de façon atomique vis-à-vis des rachats concurrents du même code, et
// renvoyer une InvalidState si la limite d'usage est atteinte.
type PromoStore interface {
	GetByCode(ctx context.Context, code string) (*models.Promo, error)
	GetByID(ctx context.Context, id string) (*models.Promo, error)
	Insert(ctx context.Context, p *models.Promo) error
	Update(ctx context.Context, p *models.Promo) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context, active *bool, discountType string) ([]models.Promo, error)
	Redeem(ctx context.Context, code string) error
}

// OrderStore persiste les commandes et leurs champs mutables bornés.
type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error
	MarkPaid(ctx context.Context, id, sessionID string) error
	MarkCancelled(ctx context.Context, id, cancelledBy string, cancelledAt time.Time) error
	UpdateRefund(ctx context.Context, id string, refund models.Refund) error
}

// Notifier émet les événements "commande mise à jour". Livraison au mieux :
// ne bloque jamais et ne fait jamais échouer l'opération appelante.
type Notifier interface {
	OrderUpdated(orderID string)
	StatusChanged(order *models.Order, newStatus string)
}

// storeErr traduit une erreur de store dans la taxonomie métier, en laissant
// passer telles quelles les erreurs déjà typées.
func storeErr(err error, notFoundMsg, failureMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(notFoundMsg)
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.ServiceFailure(failureMsg, err)
}
