package store

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"fornello_back_end/internal/models"
)

// ProductStore lit le catalogue depuis le keyspace products.
// Le cœur n'a besoin que de la consultation unitaire.
type ProductStore struct {
	session *gocql.Session
}

func NewProductStore(session *gocql.Session) *ProductStore {
	return &ProductStore{session: session}
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	productID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var p models.Product
	err = s.session.Query(`SELECT name, description, category, image, pricing, published, created_at, updated_at
	                       FROM products WHERE product_id = ?`, productID).
		WithContext(ctx).
		Scan(&p.Name, &p.Description, &p.Category, &p.Image, &p.Pricing, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.ID = id
	return &p, nil
}
