package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/gocql/gocql"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/models"
)

// redeemRetries borne la boucle CAS sous forte contention.
const redeemRetries = 5

// PromoStore persiste les codes promo dans le keyspace orders, clé primaire
// sur le code normalisé en majuscules.
type PromoStore struct {
	session *gocql.Session
}

func NewPromoStore(session *gocql.Session) *PromoStore {
	return &PromoStore{session: session}
}

const promoColumns = `code, id, description, discount_type, discount_value, min_order_amount,
	max_discount, valid_from, valid_to, usage_limit, used_count, active, created_at, updated_at`

func scanPromo(scanner interface{ Scan(...interface{}) error }) (*models.Promo, error) {
	var p models.Promo
	var id gocql.UUID
	err := scanner.Scan(&p.Code, &id, &p.Description, &p.DiscountType, &p.DiscountValue,
		&p.MinOrderAmount, &p.MaxDiscount, &p.ValidFrom, &p.ValidTo,
		&p.UsageLimit, &p.UsedCount, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	return &p, nil
}

func (s *PromoStore) GetByCode(ctx context.Context, code string) (*models.Promo, error) {
	q := s.session.Query(`SELECT `+promoColumns+` FROM promos WHERE code = ?`,
		strings.ToUpper(code)).WithContext(ctx)

	promo, err := scanPromo(q)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *PromoStore) GetByID(ctx context.Context, id string) (*models.Promo, error) {
	promoID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q := s.session.Query(`SELECT `+promoColumns+` FROM promos WHERE id = ? ALLOW FILTERING`,
		promoID).WithContext(ctx)

	promo, err := scanPromo(q)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *PromoStore) Insert(ctx context.Context, p *models.Promo) error {
	promoID, err := gocql.ParseUUID(p.ID)
	if err != nil {
		return err
	}

	return s.session.Query(`INSERT INTO promos (`+promoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, promoID, p.Description, p.DiscountType, p.DiscountValue,
		p.MinOrderAmount, p.MaxDiscount, p.ValidFrom, p.ValidTo,
		p.UsageLimit, p.UsedCount, p.Active, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
}

// Update réécrit les champs modifiables d'une promo. UsedCount n'en fait pas
// partie : il ne bouge que par Redeem.
func (s *PromoStore) Update(ctx context.Context, p *models.Promo) error {
	return s.session.Query(`UPDATE promos SET description = ?, discount_type = ?, discount_value = ?,
		min_order_amount = ?, max_discount = ?, valid_from = ?, valid_to = ?,
		usage_limit = ?, active = ?, updated_at = ? WHERE code = ?`,
		p.Description, p.DiscountType, p.DiscountValue, p.MinOrderAmount,
		p.MaxDiscount, p.ValidFrom, p.ValidTo, p.UsageLimit, p.Active,
		p.UpdatedAt, p.Code).
		WithContext(ctx).Exec()
}

func (s *PromoStore) Delete(ctx context.Context, code string) error {
	return s.session.Query(`DELETE FROM promos WHERE code = ?`, strings.ToUpper(code)).
		WithContext(ctx).Exec()
}

// List renvoie les promos filtrées, plus récentes d'abord.
func (s *PromoStore) List(ctx context.Context, active *bool, discountType string) ([]models.Promo, error) {
	iter := s.session.Query(`SELECT ` + promoColumns + ` FROM promos`).WithContext(ctx).Iter()

	var promos []models.Promo
	for {
		var p models.Promo
		var id gocql.UUID
		if !iter.Scan(&p.Code, &id, &p.Description, &p.DiscountType, &p.DiscountValue,
			&p.MinOrderAmount, &p.MaxDiscount, &p.ValidFrom, &p.ValidTo,
			&p.UsageLimit, &p.UsedCount, &p.Active, &p.CreatedAt, &p.UpdatedAt) {
			break
		}
		p.ID = id.String()

		if active != nil && p.Active != *active {
			continue
		}
		if discountType != "" && p.DiscountType != discountType {
			continue
		}
		promos = append(promos, p)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(promos, func(i, j int) bool {
		return promos[i].CreatedAt.After(promos[j].CreatedAt)
	})
	return promos, nil
}

// Redeem incrémente used_count de exactement 1, de façon atomique vis-à-vis
// des rachats concurrents du même code : transaction légère conditionnée sur
// la valeur lue (IF used_count = ?), rejouée en cas de course perdue. Si la
// limite est atteinte entre-temps, l'appelant reçoit une InvalidState et la
// création de commande échoue sans rien persister.
func (s *PromoStore) Redeem(ctx context.Context, code string) error {
	code = strings.ToUpper(code)

	for attempt := 0; attempt < redeemRetries; attempt++ {
		var usedCount int
		var usageLimit *int
		err := s.session.Query(`SELECT used_count, usage_limit FROM promos WHERE code = ?`, code).
			WithContext(ctx).
			Scan(&usedCount, &usageLimit)
		if errors.Is(err, gocql.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if usageLimit != nil && usedCount >= *usageLimit {
			return apperrors.InvalidState("Promo code usage limit reached")
		}

		var current int
		applied, err := s.session.Query(`UPDATE promos SET used_count = ? WHERE code = ? IF used_count = ?`,
			usedCount+1, code, usedCount).
			WithContext(ctx).
			ScanCAS(&current)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		// Course perdue : on relit et on retente avec la valeur fraîche.
	}

	return apperrors.ServiceFailure("Promo redemption conflict", nil)
}
