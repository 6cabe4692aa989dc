package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/gateway"
	"fornello_back_end/internal/models"
	"fornello_back_end/internal/store"
)

// Fakes en mémoire pour les stores, la passerelle et le notificateur.
// Même contrat d'erreurs que les implémentations Scylla/Redis.

type fakeProductStore struct {
	products map[string]*models.Product
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{products: make(map[string]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

type fakeCartStore struct {
	mu      sync.Mutex
	carts   map[string]*models.Cart
	saveErr error
	getErr  error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*models.Cart)}
}

func (f *fakeCartStore) Get(_ context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	cart, ok := f.carts[userID]
	if !ok {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	clone := *cart
	clone.Items = append([]models.CartItem(nil), cart.Items...)
	return &clone, nil
}

func (f *fakeCartStore) Save(_ context.Context, cart *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := *cart
	clone.Items = append([]models.CartItem(nil), cart.Items...)
	f.carts[cart.UserID] = &clone
	return nil
}

func (f *fakeCartStore) Clear(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	return nil
}

type fakePromoStore struct {
	mu     sync.Mutex
	promos map[string]*models.Promo // par code
}

func newFakePromoStore(promos ...*models.Promo) *fakePromoStore {
	f := &fakePromoStore{promos: make(map[string]*models.Promo)}
	for _, p := range promos {
		f.promos[p.Code] = p
	}
	return f
}

func (f *fakePromoStore) GetByCode(_ context.Context, code string) (*models.Promo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.promos[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePromoStore) GetByID(_ context.Context, id string) (*models.Promo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.promos {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakePromoStore) Insert(_ context.Context, p *models.Promo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *p
	f.promos[p.Code] = &clone
	return nil
}

func (f *fakePromoStore) Update(_ context.Context, p *models.Promo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.promos[p.Code]
	if !ok {
		return store.ErrNotFound
	}
	clone := *p
	clone.UsedCount = existing.UsedCount
	f.promos[p.Code] = &clone
	return nil
}

func (f *fakePromoStore) Delete(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.promos, code)
	return nil
}

func (f *fakePromoStore) List(_ context.Context, active *bool, discountType string) ([]models.Promo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Promo
	for _, p := range f.promos {
		if active != nil && p.Active != *active {
			continue
		}
		if discountType != "" && p.DiscountType != discountType {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Redeem reproduit la sémantique LWT : incrément sérialisé, garde sur la
// limite sous le même verrou.
func (f *fakePromoStore) Redeem(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.promos[code]
	if !ok {
		return store.ErrNotFound
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return apperrors.InvalidState("Promo code usage limit reached")
	}
	p.UsedCount++
	return nil
}

type fakeOrderStore struct {
	mu         sync.Mutex
	orders     map[string]*models.Order
	insertErr  error
	refundErrs []error // consommées dans l'ordre par UpdateRefund
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	f := &fakeOrderStore{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		clone := *o
		f.orders[o.ID] = &clone
	}
	return f
}

func (f *fakeOrderStore) Insert(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	clone := *o
	f.orders[o.ID] = &clone
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderStore) List(_ context.Context, filters models.OrderFilters) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		if filters.PaymentStatus != "" && o.PaymentStatus != filters.PaymentStatus {
			continue
		}
		if filters.PaymentMode != "" && o.PaymentMode != filters.PaymentMode {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrderStore) UpdatePaymentStatus(_ context.Context, id, paymentStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeOrderStore) MarkPaid(_ context.Context, id, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.PaymentStatus = models.PaymentPaid
	o.StripeSessionID = sessionID
	return nil
}

func (f *fakeOrderStore) MarkCancelled(_ context.Context, id, cancelledBy string, cancelledAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = models.StatusCancelled
	o.CancelledAt = &cancelledAt
	o.CancelledBy = cancelledBy
	return nil
}

func (f *fakeOrderStore) UpdateRefund(_ context.Context, id string, refund models.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.refundErrs) > 0 {
		err := f.refundErrs[0]
		f.refundErrs = f.refundErrs[1:]
		if err != nil {
			return err
		}
	}
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Refund = refund
	return nil
}

func (f *fakeOrderStore) get(id string) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

type fakeNotifier struct {
	mu      sync.Mutex
	updated []string
	status  []string // "orderID:newStatus"
}

func (f *fakeNotifier) OrderUpdated(orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, orderID)
}

func (f *fakeNotifier) StatusChanged(order *models.Order, newStatus string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = append(f.status, order.ID+":"+newStatus)
}

type fakeGateway struct {
	sessions      map[string]*gateway.Session
	createErr     error
	getErr        error
	refundErr     error
	refundResult  *gateway.RefundResult
	createdReqs   []*gateway.SessionRequest
	refundReqs    []*gateway.RefundRequest
	nextSessionID string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		sessions:      make(map[string]*gateway.Session),
		nextSessionID: "cs_test_1",
		refundResult:  &gateway.RefundResult{ID: "re_test_1", Succeeded: true},
	}
}

func (f *fakeGateway) CreateSession(_ context.Context, req *gateway.SessionRequest) (*gateway.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdReqs = append(f.createdReqs, req)
	sess := &gateway.Session{ID: f.nextSessionID, URL: "https://checkout.stripe.test/" + f.nextSessionID}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeGateway) GetSession(_ context.Context, sessionID string) (*gateway.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such session")
	}
	return sess, nil
}

func (f *fakeGateway) CreateRefund(_ context.Context, req *gateway.RefundRequest) (*gateway.RefundResult, error) {
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	f.refundReqs = append(f.refundReqs, req)
	return f.refundResult, nil
}
