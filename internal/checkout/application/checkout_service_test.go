package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartdomain "github.com/wyfcoding/livecommerce/internal/cart/domain"
	"github.com/wyfcoding/livecommerce/internal/checkout/domain"
)

type fakeStore struct {
	mu        sync.Mutex
	applied   []domain.StockUpdate
	orders    []*domain.Order
	failApply error

	enterTx chan struct{}
	blockTx chan struct{}
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.enterTx != nil {
		s.enterTx <- struct{}{}
	}
	if s.blockTx != nil {
		<-s.blockTx
	}
	s.mu.Lock()
	applied, orders := len(s.applied), len(s.orders)
	s.mu.Unlock()
	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.applied = s.applied[:applied]
		s.orders = s.orders[:orders]
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *fakeStore) ApplyBatch(ctx context.Context, updates []domain.StockUpdate) error {
	if s.failApply != nil {
		return s.failApply
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, updates...)
	return nil
}

func (s *fakeStore) SaveOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.IdempotencyKey == order.IdempotencyKey {
			return domain.ErrDuplicateCheckout
		}
	}
	s.orders = append(s.orders, order)
	return nil
}

func (s *fakeStore) GetOrderByKey(ctx context.Context, key string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.IdempotencyKey == key {
			return order, nil
		}
	}
	return nil, nil
}

type fakeCarts struct {
	mu      sync.Mutex
	carts   map[string]*cartdomain.Cart
	cleared []string
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[string]*cartdomain.Cart)}
}

func (f *fakeCarts) GetCart(ctx context.Context, token string) (*cartdomain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cart, ok := f.carts[token]; ok {
		return cart, nil
	}
	return cartdomain.NewCart(), nil
}

func (f *fakeCarts) ClearCart(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, token)
	f.cleared = append(f.cleared, token)
	return nil
}

type recordedEvent struct {
	topic string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.PublishInTx(ctx, nil, topic, key, event)
}

func (p *fakePublisher) PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{topic: topic, event: event})
	return nil
}

func cartWith(items ...cartdomain.CartItem) *cartdomain.Cart {
	return &cartdomain.Cart{Items: items}
}

func item(id string, price string, quantity, stock int64) cartdomain.CartItem {
	return cartdomain.CartItem{
		ProductSnapshot: cartdomain.ProductSnapshot{
			ID:    id,
			Name:  "product " + id,
			Price: decimal.RequireFromString(price),
			Stock: stock,
		},
		Quantity: quantity,
	}
}

func TestCheckoutSuccess(t *testing.T) {
	store := &fakeStore{}
	carts := newFakeCarts()
	publisher := &fakePublisher{}
	carts.carts["s1"] = cartWith(item("p1", "9.99", 2, 5))

	svc := NewCheckoutService(store, carts, publisher)
	receipt, err := svc.Checkout(context.Background(), CheckoutCommand{SessionToken: "s1", UserID: 7})

	require.NoError(t, err)
	assert.True(t, receipt.Total.Equal(decimal.RequireFromString("19.98")), "got %s", receipt.Total)
	assert.Equal(t, int64(2), receipt.ItemCount)
	assert.NotEmpty(t, receipt.IdempotencyKey)

	require.Len(t, store.applied, 1)
	assert.Equal(t, domain.StockUpdate{ProductID: "p1", StockDelta: -2, SoldDelta: 2}, store.applied[0])
	require.Len(t, store.orders, 1)
	assert.Equal(t, uint(7), store.orders[0].UserID)

	assert.Equal(t, []string{"s1"}, carts.cleared, "cart must be cleared after commit")

	require.Len(t, publisher.events, 2)
	assert.Equal(t, domain.OrderPlacedEventType, publisher.events[0].topic)
	assert.Equal(t, domain.StockCommittedEventType, publisher.events[1].topic)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := NewCheckoutService(&fakeStore{}, newFakeCarts(), &fakePublisher{})

	_, err := svc.Checkout(context.Background(), CheckoutCommand{SessionToken: "s1", UserID: 7})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckoutFailurePreservesCart(t *testing.T) {
	store := &fakeStore{failApply: errors.New("db down")}
	carts := newFakeCarts()
	carts.carts["s1"] = cartWith(item("p1", "9.99", 2, 5))

	svc := NewCheckoutService(store, carts, &fakePublisher{})
	_, err := svc.Checkout(context.Background(), CheckoutCommand{SessionToken: "s1", UserID: 7})

	require.Error(t, err)
	assert.Empty(t, store.orders)
	assert.Empty(t, carts.cleared, "cart must stay intact when the batch fails")
	cart, _ := carts.GetCart(context.Background(), "s1")
	assert.Len(t, cart.Items, 1)
}

func TestCheckoutDeletedProductRollsBack(t *testing.T) {
	store := &fakeStore{
		failApply: fmt.Errorf("%w: p1", domain.ErrProductNotFound),
	}
	carts := newFakeCarts()
	publisher := &fakePublisher{}
	carts.carts["s1"] = cartWith(item("p1", "9.99", 2, 5))

	svc := NewCheckoutService(store, carts, publisher)
	_, err := svc.Checkout(context.Background(), CheckoutCommand{SessionToken: "s1", UserID: 7})

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, store.orders, "no order may be saved for a vanished product")
	assert.Empty(t, publisher.events)
	assert.Empty(t, carts.cleared)
	cart, _ := carts.GetCart(context.Background(), "s1")
	assert.Len(t, cart.Items, 1, "cart must survive the failed batch")
}

func TestCheckoutDuplicateKey(t *testing.T) {
	store := &fakeStore{}
	carts := newFakeCarts()
	carts.carts["s1"] = cartWith(item("p1", "9.99", 1, 5))

	svc := NewCheckoutService(store, carts, &fakePublisher{})
	first, err := svc.Checkout(context.Background(), CheckoutCommand{
		SessionToken: "s1", UserID: 7, IdempotencyKey: "k1",
	})
	require.NoError(t, err)

	carts.carts["s1"] = cartWith(item("p1", "9.99", 1, 5))
	_, err = svc.Checkout(context.Background(), CheckoutCommand{
		SessionToken: "s1", UserID: 7, IdempotencyKey: "k1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCheckout)

	// 之前的回执仍然可查
	receipt, err := svc.GetReceipt(context.Background(), "k1")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, first.OrderID, receipt.OrderID)
}

func TestCheckoutInFlight(t *testing.T) {
	store := &fakeStore{
		enterTx: make(chan struct{}, 1),
		blockTx: make(chan struct{}),
	}
	carts := newFakeCarts()
	carts.carts["s1"] = cartWith(item("p1", "9.99", 1, 5))

	svc := NewCheckoutService(store, carts, &fakePublisher{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(context.Background(), CheckoutCommand{SessionToken: "s1", UserID: 7})
		done <- err
	}()

	<-store.enterTx
	_, err := svc.Checkout(context.Background(), CheckoutCommand{SessionToken: "s1", UserID: 7})
	assert.ErrorIs(t, err, domain.ErrCheckoutInFlight)

	close(store.blockTx)
	require.NoError(t, <-done)
}
