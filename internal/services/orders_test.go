package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fornello_back_end/internal/apperrors"
	"fornello_back_end/internal/models"
)

func seedCart(t *testing.T, carts *fakeCartStore, userID string) {
	t.Helper()
	err := carts.Save(context.Background(), &models.Cart{
		UserID: userID,
		Items: []models.CartItem{
			{
				ID: "item-1", ProductID: "prod-margherita", Name: "Margherita",
				Category:      models.CategoryPizza,
				Customization: map[string]string{"size": "medium", "crust": "thick"},
				Price:         600, Quantity: 2,
			},
			{
				ID: "item-2", ProductID: "prod-cola", Name: "Cola",
				Category:      models.CategoryBeverages,
				Customization: map[string]string{"size": "ml330", "chilling": "cold"},
				Price:         50, Quantity: 1,
			},
		},
	})
	require.NoError(t, err)
}

func validInput(mode string) CreateOrderInput {
	return CreateOrderInput{
		Customer:        models.Customer{FirstName: "Asha", LastName: "Patel", Email: "asha@example.com"},
		DeliveryAddress: "12 MG Road, Pune",
		PaymentMode:     mode,
	}
}

func newOrderTestEnv(promos ...*models.Promo) (*OrderService, *fakeCartStore, *fakeOrderStore, *fakeNotifier) {
	carts := newFakeCartStore()
	orders := newFakeOrderStore()
	notifier := &fakeNotifier{}
	svc := NewOrderService(carts, orders, NewPromoService(newFakePromoStore(promos...)), notifier)
	return svc, carts, orders, notifier
}

func TestOrderCreateFreezesCartAndPricing(t *testing.T) {
	svc, carts, orders, _ := newOrderTestEnv()
	ctx := context.Background()
	seedCart(t, carts, "user-1")

	order, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCash))
	require.NoError(t, err)

	assert.Equal(t, models.StatusReceived, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.RefundNone, order.Refund.Status)
	require.Len(t, order.Items, 2)

	// 600×2 + 50 = 1250 ; taxes round(1250×0.18) = 225 ; livraison 100
	assert.Equal(t, 1250.0, order.Pricing.Subtotal)
	assert.Equal(t, 225.0, order.Pricing.Taxes)
	assert.Equal(t, 100.0, order.Pricing.DeliveryCharges)
	assert.Equal(t, 1575.0, order.Pricing.Total)

	// Persistée puis panier vidé
	assert.NotNil(t, orders.get(order.ID))
	cart, err := carts.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderCreateCardIsOptimisticallyPaid(t *testing.T) {
	svc, carts, _, _ := newOrderTestEnv()
	seedCart(t, carts, "user-1")

	order, err := svc.Create(context.Background(), "user-1", validInput(models.PaymentModeCard))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
}

func TestOrderCreateEmptyCart(t *testing.T) {
	svc, _, _, _ := newOrderTestEnv()

	_, err := svc.Create(context.Background(), "user-1", validInput(models.PaymentModeCash))
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	assert.EqualError(t, err, "Cart is empty")
}

func TestOrderCreateInvalidPaymentMode(t *testing.T) {
	svc, carts, _, _ := newOrderTestEnv()
	seedCart(t, carts, "user-1")

	_, err := svc.Create(context.Background(), "user-1", validInput("cheque"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestOrderCreateWithPromo(t *testing.T) {
	promo := activePromo("TEN")
	promo.UsageLimit = intPtr(5)
	svc, carts, _, _ := newOrderTestEnv(promo)
	seedCart(t, carts, "user-1")

	input := validInput(models.PaymentModeCash)
	input.PromoCode = "TEN"

	order, err := svc.Create(context.Background(), "user-1", input)
	require.NoError(t, err)
	// 10% de 1250 = 125
	assert.Equal(t, 125.0, order.Pricing.Discount)
	assert.Equal(t, 1450.0, order.Pricing.Total)
	assert.Equal(t, "TEN", order.PromoCode)
}

func TestOrderCreatePromoFailureAborts(t *testing.T) {
	promo := activePromo("SPENT")
	promo.UsageLimit = intPtr(1)
	promo.UsedCount = 1
	svc, carts, orders, _ := newOrderTestEnv(promo)
	ctx := context.Background()
	seedCart(t, carts, "user-1")

	input := validInput(models.PaymentModeCash)
	input.PromoCode = "SPENT"

	_, err := svc.Create(ctx, "user-1", input)
	require.Error(t, err)

	// Rien n'est persisté et le panier est intact
	all, _ := orders.List(ctx, models.OrderFilters{})
	assert.Empty(t, all)
	cart, _ := carts.Get(ctx, "user-1")
	assert.Len(t, cart.Items, 2)
}

func TestOrderGetByIDScoping(t *testing.T) {
	svc, carts, _, _ := newOrderTestEnv()
	ctx := context.Background()
	seedCart(t, carts, "user-1")
	order, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCash))
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Commande d'autrui : NotFound, pas Forbidden (pas de fuite d'existence)
	_, err = svc.GetByID(ctx, order.ID, "user-2")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// Scope vide = lecture admin
	_, err = svc.GetByID(ctx, order.ID, "")
	assert.NoError(t, err)
}

func TestOrderUpdateStatusPermissiveTransitions(t *testing.T) {
	svc, carts, _, notifier := newOrderTestEnv()
	ctx := context.Background()
	seedCart(t, carts, "user-1")
	order, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCash))
	require.NoError(t, err)

	// Saut direct puis retour en arrière : tous les membres de l'énum sont
	// acceptés depuis n'importe quel état
	got, err := svc.UpdateStatus(ctx, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)

	got, err = svc.UpdateStatus(ctx, order.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "Teleported")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	assert.Len(t, notifier.status, 2)
}

func TestOrderUpdatePaymentStatus(t *testing.T) {
	svc, carts, _, notifier := newOrderTestEnv()
	ctx := context.Background()
	seedCart(t, carts, "user-1")
	order, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCash))
	require.NoError(t, err)

	got, err := svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentFailed)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, got.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(ctx, order.ID, "MAYBE")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	assert.Equal(t, []string{order.ID}, notifier.updated)
}

func TestOrderCancelByOwner(t *testing.T) {
	svc, carts, orders, _ := newOrderTestEnv()
	ctx := context.Background()
	seedCart(t, carts, "user-1")
	order, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCard))
	require.NoError(t, err)

	got, err := svc.Cancel(ctx, order.ID, "user-1", "customer")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Equal(t, "user-1", got.CancelledBy)
	require.NotNil(t, got.CancelledAt)

	// L'annulation ne touche pas au paiement
	stored := orders.get(order.ID)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, models.RefundNone, stored.Refund.Status)
}

func TestOrderCancelGuards(t *testing.T) {
	svc, carts, _, _ := newOrderTestEnv()
	ctx := context.Background()
	seedCart(t, carts, "user-1")
	order, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCash))
	require.NoError(t, err)

	// Non-propriétaire non-admin
	_, err = svc.Cancel(ctx, order.ID, "user-2", "customer")
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// Admin peut annuler la commande d'autrui
	_, err = svc.Cancel(ctx, order.ID, "staff-1", "admin")
	require.NoError(t, err)

	// État terminal : plus d'annulation possible, même pour un admin
	_, err = svc.Cancel(ctx, order.ID, "staff-1", "admin")
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	assert.EqualError(t, err, "Order can no longer be cancelled")

	_, err = svc.Cancel(ctx, "00000000-0000-0000-0000-000000000000", "user-1", "customer")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestOrderCancelDeliveredForbidden(t *testing.T) {
	svc, carts, _, _ := newOrderTestEnv()
	ctx := context.Background()
	seedCart(t, carts, "user-1")
	order, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCash))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, models.StatusDelivered)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, order.ID, "user-1", "customer")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestOrderListFiltersAndStats(t *testing.T) {
	svc, carts, _, _ := newOrderTestEnv()
	ctx := context.Background()

	seedCart(t, carts, "user-1")
	first, err := svc.Create(ctx, "user-1", validInput(models.PaymentModeCash))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond) // ordre de tri stable par created_at

	seedCart(t, carts, "user-2")
	second, err := svc.Create(ctx, "user-2", validInput(models.PaymentModeCard))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, second.ID, models.StatusConfirmed)
	require.NoError(t, err)

	all, err := svc.ListAll(ctx, models.OrderFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "plus récente d'abord")

	cards, err := svc.ListAll(ctx, models.OrderFilters{PaymentMode: models.PaymentModeCard})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, second.ID, cards[0].ID)

	mine, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 3150.0, stats.TotalRevenue)
	assert.Equal(t, 1, stats.OrdersByStatus[models.StatusReceived])
	assert.Equal(t, 1, stats.OrdersByStatus[models.StatusConfirmed])
}
