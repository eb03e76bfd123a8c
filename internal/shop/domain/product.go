package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSellerNotFound  = errors.New("seller not found")
	ErrInvalidName     = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
)

// Product 卖家商品。Stock 与 NumberSold 只允许卖家编辑与结算批量更新两条路径修改。
type Product struct {
	ID         string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SellerID   uint            `gorm:"column:seller_id;index;not null" json:"seller_id"`
	Name       string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(20,2);not null" json:"price"`
	Stock      int64           `gorm:"column:stock;not null;default:0" json:"stock"`
	NumberSold int64           `gorm:"column:number_sold;not null;default:0" json:"number_sold"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// NewProduct 创建商品，销量从 0 开始
func NewProduct(id string, sellerID uint, name string, price decimal.Decimal, stock int64) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	return &Product{
		ID:       id,
		SellerID: sellerID,
		Name:     name,
		Price:    price,
		Stock:    stock,
	}, nil
}

// ProductPatch 卖家编辑的部分字段更新
type ProductPatch struct {
	Name  *string
	Price *decimal.Decimal
	Stock *int64
}

// Apply 将部分更新应用到商品，带与创建时相同的校验
func (p *Product) Apply(patch ProductPatch) error {
	if patch.Name != nil {
		if *patch.Name == "" {
			return ErrInvalidName
		}
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return ErrInvalidPrice
		}
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return ErrInvalidStock
		}
		p.Stock = *patch.Stock
	}
	return nil
}
