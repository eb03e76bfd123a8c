package application

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/livecommerce/internal/shop/domain"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, sellerID uint, productID string) (*domain.Product, error) {
	product, ok := r.products[productID]
	if !ok || product.SellerID != sellerID {
		return nil, nil
	}
	return product, nil
}

func (r *fakeProductRepo) ListBySeller(ctx context.Context, sellerID uint) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, product := range r.products {
		if product.SellerID == sellerID {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, sellerID uint, productID string) error {
	delete(r.products, productID)
	return nil
}

type fakeSellerRepo struct {
	sellers map[string]*domain.Seller
}

func newFakeSellerRepo() *fakeSellerRepo {
	return &fakeSellerRepo{sellers: make(map[string]*domain.Seller)}
}

func (r *fakeSellerRepo) Save(ctx context.Context, seller *domain.Seller) error {
	r.sellers[seller.Username] = seller
	return nil
}

func (r *fakeSellerRepo) GetByUsername(ctx context.Context, username string) (*domain.Seller, error) {
	return r.sellers[username], nil
}

func seedProduct(t *testing.T, repo *fakeProductRepo, id string, sellerID uint, name string) {
	t.Helper()
	product, err := domain.NewProduct(id, sellerID, name, decimal.RequireFromString("1.00"), 3)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))
}

func TestListProductsOrderedByName(t *testing.T) {
	products := newFakeProductRepo()
	seedProduct(t, products, "PRD-1", 7, "Charlie")
	seedProduct(t, products, "PRD-2", 7, "Alpha")
	seedProduct(t, products, "PRD-3", 7, "Bravo")
	seedProduct(t, products, "PRD-4", 8, "Other seller")

	svc := NewShopQueryService(products, newFakeSellerRepo())
	listed, err := svc.ListProducts(context.Background(), 7)
	require.NoError(t, err)

	names := make([]string, 0, len(listed))
	for _, product := range listed {
		names = append(names, product.Name)
	}
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names)
}

func TestGetProductNotFound(t *testing.T) {
	svc := NewShopQueryService(newFakeProductRepo(), newFakeSellerRepo())

	_, err := svc.GetProduct(context.Background(), 7, "PRD-missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetShopByUsername(t *testing.T) {
	products := newFakeProductRepo()
	sellers := newFakeSellerRepo()
	require.NoError(t, sellers.Save(context.Background(), &domain.Seller{UserID: 7, Username: "alice"}))
	seedProduct(t, products, "PRD-1", 7, "Lip Gloss")

	svc := NewShopQueryService(products, sellers)
	view, err := svc.GetShopByUsername(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, uint(7), view.SellerID)
	assert.Equal(t, "alice", view.Username)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Lip Gloss", view.Products[0].Name)
}

func TestGetShopByUsernameUnknownSeller(t *testing.T) {
	svc := NewShopQueryService(newFakeProductRepo(), newFakeSellerRepo())

	_, err := svc.GetShopByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrSellerNotFound)
}
