package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	product, err := NewProduct("PRD-1", 7, "Lip Gloss", decimal.RequireFromString("9.99"), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(0), product.NumberSold, "sales counter starts at zero")
	assert.Equal(t, int64(5), product.Stock)
}

func TestNewProductValidation(t *testing.T) {
	price := decimal.RequireFromString("9.99")

	_, err := NewProduct("PRD-1", 7, "", price, 5)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewProduct("PRD-1", 7, "Lip Gloss", decimal.RequireFromString("-1"), 5)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewProduct("PRD-1", 7, "Lip Gloss", price, -1)
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestProductApplyPatch(t *testing.T) {
	product, err := NewProduct("PRD-1", 7, "Lip Gloss", decimal.RequireFromString("9.99"), 5)
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("12.50")
	newStock := int64(8)
	require.NoError(t, product.Apply(ProductPatch{Price: &newPrice, Stock: &newStock}))

	assert.Equal(t, "Lip Gloss", product.Name, "unset fields stay unchanged")
	assert.True(t, product.Price.Equal(newPrice))
	assert.Equal(t, int64(8), product.Stock)
}

func TestProductApplyPatchValidation(t *testing.T) {
	product, err := NewProduct("PRD-1", 7, "Lip Gloss", decimal.RequireFromString("9.99"), 5)
	require.NoError(t, err)

	empty := ""
	assert.ErrorIs(t, product.Apply(ProductPatch{Name: &empty}), ErrInvalidName)

	negative := decimal.RequireFromString("-0.01")
	assert.ErrorIs(t, product.Apply(ProductPatch{Price: &negative}), ErrInvalidPrice)

	badStock := int64(-1)
	assert.ErrorIs(t, product.Apply(ProductPatch{Stock: &badStock}), ErrInvalidStock)

	assert.Equal(t, "Lip Gloss", product.Name)
	assert.Equal(t, int64(5), product.Stock)
}
