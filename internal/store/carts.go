package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"fornello_back_end/internal/models"
)

// CartTTL : un panier abandonné expire au bout de 30 jours.
const CartTTL = 30 * 24 * time.Hour

// CartStore persiste le panier comme un document JSON unique par utilisateur
// dans Redis. Écriture document entier, dernier écrivain gagnant : la
// contention réelle est mono-utilisateur.
type CartStore struct {
	rdb *redis.Client
}

func NewCartStore(rdb *redis.Client) *CartStore {
	return &CartStore{rdb: rdb}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get renvoie le panier de l'utilisateur, ou un panier vide s'il n'existe
// pas encore. Jamais d'erreur pour cause d'absence.
func (s *CartStore) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	cart.UserID = userID
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(cart.UserID), data, CartTTL).Err()
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}
